// Package statistics assembles the learner's progress report from the
// engagement and review state.
package statistics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/learner"
)

// ProgressReport is a read-only snapshot of where a learner stands.
type ProgressReport struct {
	Username  string
	FirstName string
	Level     learner.Level

	TotalXP int
	Rank    learner.RankProgress

	StreakDays    int
	BestStreak    int
	FreezeBalance int

	MessagesToday int
	DailyGoal     int

	DueCount     int
	LearnedCount int
}

// GoalProgressPercent reports today's goal completion, capped at 100.
func (r ProgressReport) GoalProgressPercent() int {
	if r.DailyGoal <= 0 {
		return 0
	}
	percent := r.MessagesToday * 100 / r.DailyGoal
	if percent > 100 {
		percent = 100
	}
	return percent
}

// Reporter builds progress reports. Reads are not transactional; a report is
// a point-in-time snapshot, not a ledger operation.
type Reporter struct {
	db    *sqlx.DB
	clock clock.Clock
}

func NewReporter(db *sqlx.DB, clk clock.Clock) *Reporter {
	return &Reporter{db: db, clock: clk}
}

// Report assembles the progress report for one learner.
func (r *Reporter) Report(ctx context.Context, learnerID int64) (*ProgressReport, error) {
	learnerRepo := learner.NewDBLearnerRepository(r.db)
	l, err := learnerRepo.Get(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("load learner %d: %w", learnerID, err)
	}

	// Counters in the row may predate today; present them as zero once the
	// learner's local day has moved on.
	messagesToday := l.MessagesToday
	if l.LastSeenDay != l.Today(r.clock.Now()) {
		messagesToday = 0
	}

	vocabRepo := learner.NewDBVocabularyRepository(r.db)
	dueCount, err := vocabRepo.CountDue(ctx, learnerID, r.clock.Now())
	if err != nil {
		return nil, err
	}
	learnedCount, err := vocabRepo.CountLearned(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	return &ProgressReport{
		Username:      l.Username,
		FirstName:     l.FirstName,
		Level:         l.Level,
		TotalXP:       l.TotalXP,
		Rank:          learner.RankForXP(l.TotalXP),
		StreakDays:    l.StreakDays,
		BestStreak:    l.BestStreak,
		FreezeBalance: l.FreezeBalance,
		MessagesToday: messagesToday,
		DailyGoal:     l.DailyGoal,
		DueCount:      dueCount,
		LearnedCount:  learnedCount,
	}, nil
}

// NextReviewIn returns how far away the next unlearned item is, for
// learners with an empty due queue. The second return is false when nothing
// is scheduled at all.
func (r *Reporter) NextReviewIn(ctx context.Context, learnerID int64) (time.Duration, bool, error) {
	var next sql.NullTime
	err := r.db.GetContext(ctx, &next,
		"SELECT MIN(due_at) FROM vocabulary_items WHERE learner_id = ? AND learned = FALSE",
		learnerID)
	if err != nil {
		return 0, false, fmt.Errorf("next due for learner %d: %w", learnerID, err)
	}
	if !next.Valid {
		return 0, false, nil
	}
	until := next.Time.Sub(r.clock.Now())
	if until < 0 {
		until = 0
	}
	return until, true, nil
}
