// Package engagement enforces daily quotas and streak continuity against
// the learner's local day boundary.
package engagement

import (
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/learner"
)

// Policy holds the daily quota constants.
type Policy struct {
	// DefaultDailyGoal applies to learners without a personal goal.
	DefaultDailyGoal int
	// MaxClaimsPerDay caps challenge claims per learner-day.
	MaxClaimsPerDay int
}

// DefaultPolicy returns the standard quotas: 10 messages to keep a streak
// alive, 2 challenge claims per day.
func DefaultPolicy() Policy {
	return Policy{DefaultDailyGoal: 10, MaxClaimsPerDay: 2}
}

// Ledger applies engagement operations to learner snapshots. Operations are
// check-then-act; the caller must hold the learner's row lock for the whole
// load-mutate-save cycle.
type Ledger struct {
	policy Policy
}

// NewLedger creates a Ledger with the given quota policy.
func NewLedger(policy Policy) *Ledger {
	return &Ledger{policy: policy}
}

// ActivityResult reports what one RecordActivity call changed.
type ActivityResult struct {
	GoalReached bool
	// GoalJustReached is true only for the call that crossed the goal.
	GoalJustReached bool
	StreakExtended  bool
	StreakReset     bool
	FreezeBridged   bool
	Streak          int
	BestStreak      int
	// Milestone is non-nil when this activity crossed a reward threshold.
	Milestone *Milestone
}

// Claim is the token returned for one granted challenge slot.
type Claim struct {
	Token     string
	Day       clock.Day
	Remaining int
}

// FreezeResult reports a consumed freeze token.
type FreezeResult struct {
	CoveredDay clock.Day
	Remaining  int
}

func (g *Ledger) dailyGoal(l *learner.Learner) int {
	if l.DailyGoal > 0 {
		return l.DailyGoal
	}
	return g.policy.DefaultDailyGoal
}

// effectiveGap returns the number of days between the learner's last active
// day and today, discounting one day bridged by a consumed freeze token.
func effectiveGap(l *learner.Learner, today clock.Day) int {
	gap := today.DaysSince(l.LastActiveDay)
	if l.FreezeCoveredDay.IsZero() {
		return gap
	}
	// The cover only helps when it falls strictly inside the gap.
	if l.FreezeCoveredDay.DaysSince(l.LastActiveDay) > 0 && today.DaysSince(l.FreezeCoveredDay) > 0 {
		return gap - 1
	}
	return gap
}

// Rollover lazily resets the daily counters when the stored day falls
// behind the learner's current local day, breaking the streak first when no
// freeze covers the gap. It is idempotent within one day and runs at the
// start of every ledger operation.
func (g *Ledger) Rollover(l *learner.Learner, now time.Time) {
	today := l.Today(now)
	if l.LastSeenDay == today {
		return
	}

	if l.StreakDays > 0 && !l.LastActiveDay.IsZero() && effectiveGap(l, today) > 1 {
		l.StreakDays = 0
		l.StreakStartDay = clock.Day{}
		l.FreezeCoveredDay = clock.Day{}
	}

	l.MessagesToday = 0
	l.ChallengesToday = 0
	l.FreezeUsedToday = false
	l.LastSeenDay = today
}

// RecordActivity adds message activity to today's progress and advances the
// streak the first time the daily goal is met.
func (g *Ledger) RecordActivity(l *learner.Learner, messageCount int, now time.Time) ActivityResult {
	g.Rollover(l, now)
	today := l.Today(now)

	l.MessagesToday += messageCount

	result := ActivityResult{Streak: l.StreakDays, BestStreak: l.BestStreak}
	if l.MessagesToday < g.dailyGoal(l) {
		return result
	}
	result.GoalReached = true

	if l.LastActiveDay == today {
		// Goal was already credited earlier today.
		return result
	}
	result.GoalJustReached = true

	switch {
	case l.LastActiveDay.IsZero():
		// Very first active day.
		l.StreakDays = 1
		l.StreakStartDay = today
		result.StreakExtended = true

	case effectiveGap(l, today) <= 1:
		if today.DaysSince(l.LastActiveDay) > 1 {
			// A freeze token bridged exactly one missed day; the cover
			// is spent.
			l.FreezeCoveredDay = clock.Day{}
			result.FreezeBridged = true
		}
		l.StreakDays++
		if l.StreakDays == 1 {
			l.StreakStartDay = today
		}
		result.StreakExtended = true

	default:
		// The gap is wider than one freeze can bridge: fresh start.
		l.StreakDays = 1
		l.StreakStartDay = today
		l.FreezeCoveredDay = clock.Day{}
		l.FreezeUsedToday = false
		result.StreakReset = true
	}

	l.LastActiveDay = today
	if l.StreakDays > l.BestStreak {
		l.BestStreak = l.StreakDays
	}

	if reward := milestoneFor(l.StreakDays, l.LastMilestone); reward != nil {
		l.TotalXP += reward.XP
		l.FreezeBalance += reward.Freeze
		l.LastMilestone = reward.Days
		result.Milestone = reward
	}

	result.Streak = l.StreakDays
	result.BestStreak = l.BestStreak
	return result
}

// ClaimChallengeSlot grants one of the day's challenge slots, or fails with
// QuotaExceededError without mutating anything.
func (g *Ledger) ClaimChallengeSlot(l *learner.Learner, now time.Time) (Claim, error) {
	g.Rollover(l, now)
	today := l.Today(now)

	if l.ChallengesToday >= g.policy.MaxClaimsPerDay {
		return Claim{}, &QuotaExceededError{Limit: g.policy.MaxClaimsPerDay, Day: today}
	}

	l.ChallengesToday++
	return Claim{
		Token:     uuid.NewString(),
		Day:       today,
		Remaining: g.policy.MaxClaimsPerDay - l.ChallengesToday,
	}, nil
}

// UseFreeze consumes one freeze token. When a gap is already open it covers
// yesterday, retroactively shrinking the gap; otherwise it covers today so
// the current day may pass without activity.
func (g *Ledger) UseFreeze(l *learner.Learner, now time.Time) (FreezeResult, error) {
	today := l.Today(now)

	if l.FreezeBalance <= 0 {
		return FreezeResult{}, &NoFreezeAvailableError{}
	}
	if l.LastSeenDay == today && l.FreezeUsedToday {
		return FreezeResult{}, &FreezeAlreadyUsedError{Day: today}
	}

	// The covered day is chosen and recorded before the rollover: an open
	// gap would otherwise break the streak before the cover can shrink it.
	covered := today
	yesterday := today.AddDays(-1)
	if !l.LastActiveDay.IsZero() && l.LastActiveDay != today && l.LastActiveDay != yesterday {
		covered = yesterday
	}
	l.FreezeCoveredDay = covered

	g.Rollover(l, now)

	l.FreezeBalance--
	l.FreezeUsedToday = true
	return FreezeResult{CoveredDay: covered, Remaining: l.FreezeBalance}, nil
}
