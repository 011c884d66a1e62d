package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/lernpfad/internal/statistics"
)

// RenderProgress prints the learner's progress report.
func RenderProgress(w io.Writer, report *statistics.ProgressReport) {
	bold := color.New(color.Bold)

	name := report.FirstName
	if name == "" {
		name = report.Username
	}
	_, _ = bold.Fprintf(w, "%s, level %s\n", name, report.Level)

	fmt.Fprintf(w, "XP: %d (%s", report.TotalXP, report.Rank.Current.Title)
	if report.Rank.Next != nil {
		fmt.Fprintf(w, ", %.0f%% towards %s", report.Rank.Percent, report.Rank.Next.Title)
	}
	fmt.Fprintln(w, ")")

	fmt.Fprintf(w, "Streak: %d days (best %d), %d freeze tokens\n",
		report.StreakDays, report.BestStreak, report.FreezeBalance)

	fmt.Fprintf(w, "Today: %d/%d messages %s\n",
		report.MessagesToday, report.DailyGoal, progressBar(report.GoalProgressPercent()))

	fmt.Fprintf(w, "Vocabulary: %d due, %d learned\n", report.DueCount, report.LearnedCount)
}

func progressBar(percent int) string {
	const width = 10
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
