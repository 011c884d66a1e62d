package review

import (
	"time"

	"github.com/at-ishikawa/lernpfad/internal/learner"
)

// Policy holds the interval table constants. The defaults approximate
// spaced repetition with small-integer arithmetic: intervals come from day
// counts and a doubling stage factor, so schedules are exactly reproducible.
type Policy struct {
	// AgainDelay resurfaces a forgotten item within the same session.
	AgainDelay time.Duration
	// HardIntervalDays is the flat interval for a difficult recall.
	HardIntervalDays int
	// GoodBaseDays grows as base * 2^(stage-1) after a normal recall.
	GoodBaseDays int
	// EasyBaseDays grows the same way, from the stage after the +2 jump.
	EasyBaseDays int
	// LearnedThresholdDays marks an item learned once a Good or Easy
	// review pushes its interval past this many days.
	LearnedThresholdDays int
	// MaxIntervalDays clamps runaway doubling at high stages.
	MaxIntervalDays int
}

// DefaultPolicy returns the standard interval table: 1 minute / 2 days /
// 4 days doubling / 7 days doubling, learned past 21 days.
func DefaultPolicy() Policy {
	return Policy{
		AgainDelay:           time.Minute,
		HardIntervalDays:     2,
		GoodBaseDays:         4,
		EasyBaseDays:         7,
		LearnedThresholdDays: 21,
		MaxIntervalDays:      3650,
	}
}

// Scheduler applies review outcomes to vocabulary item snapshots. It is a
// pure computation; loading, locking and saving items belongs to the
// caller.
type Scheduler struct {
	policy Policy
}

// NewScheduler creates a Scheduler with the given interval policy.
func NewScheduler(policy Policy) *Scheduler {
	return &Scheduler{policy: policy}
}

// growthFactor is 1 at stage 1 and doubles per stage after that.
func growthFactor(stage int) int {
	if stage <= 1 {
		return 1
	}
	// Beyond 30 the interval clamp wins anyway; avoid shifting into overflow.
	if stage > 30 {
		stage = 30
	}
	return 1 << (stage - 1)
}

func (s *Scheduler) interval(baseDays, stage int) time.Duration {
	days := baseDays * growthFactor(stage)
	if s.policy.MaxIntervalDays > 0 && days > s.policy.MaxIntervalDays {
		days = s.policy.MaxIntervalDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// Apply advances the item's repetition state for one graded review. The due
// timestamp never lands before now. Invalid grades leave the item untouched.
func (s *Scheduler) Apply(item *learner.VocabularyItem, grade Grade, now time.Time) error {
	if !grade.Valid() {
		return &InvalidGradeError{Grade: int(grade)}
	}

	switch grade {
	case GradeAgain:
		// Still learning: back to the start and resurface almost
		// immediately.
		item.Stage = 0
		item.Due = now.Add(s.policy.AgainDelay)
		item.Learned = false

	case GradeHard:
		if item.Stage == 0 {
			item.Stage = 1
		}
		item.Due = now.Add(time.Duration(s.policy.HardIntervalDays) * 24 * time.Hour)

	case GradeGood:
		item.Stage++
		interval := s.interval(s.policy.GoodBaseDays, item.Stage)
		item.Due = now.Add(interval)
		if interval > time.Duration(s.policy.LearnedThresholdDays)*24*time.Hour {
			item.Learned = true
		}

	case GradeEasy:
		item.Stage += 2
		interval := s.interval(s.policy.EasyBaseDays, item.Stage)
		item.Due = now.Add(interval)
		if interval > time.Duration(s.policy.LearnedThresholdDays)*24*time.Hour {
			item.Learned = true
		}
	}

	item.LastGrade = int(grade)
	item.TimesSeen++
	return nil
}

// ResetProgress puts the item back at stage zero, due immediately, for a
// learner who explicitly wants to re-study a word.
func (s *Scheduler) ResetProgress(item *learner.VocabularyItem, now time.Time) {
	item.Stage = 0
	item.Due = now
	item.Learned = false
	item.LastGrade = 0
}

// ToggleLearned flips the learned flag without touching scheduling state.
// Manual curation, independent of the algorithm.
func (s *Scheduler) ToggleLearned(item *learner.VocabularyItem) {
	item.Learned = !item.Learned
}
