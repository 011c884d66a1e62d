// Package learner holds the per-learner record and vocabulary items the
// progress engines operate on, together with their MySQL repositories.
package learner

import (
	"time"

	"github.com/at-ishikawa/lernpfad/internal/clock"
)

// Learner is the per-learner record. Engine operations receive it as an
// explicit snapshot and return it updated; the service layer owns loading,
// locking and saving, so there is no ambient mutable state.
type Learner struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	FirstName string `db:"first_name"`

	Level   Level `db:"level"`
	TotalXP int   `db:"total_xp"`

	StreakDays     int       `db:"streak_days"`
	BestStreak     int       `db:"best_streak"`
	StreakStartDay clock.Day `db:"streak_start_day"`
	LastActiveDay  clock.Day `db:"last_active_day"`
	LastMilestone  int       `db:"last_milestone"`

	FreezeBalance    int       `db:"freeze_balance"`
	FreezeUsedToday  bool      `db:"freeze_used_today"`
	FreezeCoveredDay clock.Day `db:"freeze_covered_day"`

	// Daily counters, zeroed by the ledger's rollover when LastSeenDay
	// falls behind the current local day.
	LastSeenDay     clock.Day `db:"last_seen_day"`
	MessagesToday   int       `db:"messages_today"`
	ChallengesToday int       `db:"challenges_today"`

	DailyGoal             int `db:"daily_goal"`
	TimezoneOffsetMinutes int `db:"timezone_offset_minutes"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Today returns the learner's current local calendar day.
func (l *Learner) Today(now time.Time) clock.Day {
	return clock.DayOf(now, l.TimezoneOffsetMinutes)
}
