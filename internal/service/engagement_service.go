package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/database"
	"github.com/at-ishikawa/lernpfad/internal/engagement"
	"github.com/at-ishikawa/lernpfad/internal/learner"
)

// EngagementService applies daily-ledger operations to learner records. The
// check-then-act quota logic is safe because the learner row stays locked
// from load to save.
type EngagementService struct {
	db     *sqlx.DB
	ledger *engagement.Ledger
	clock  clock.Clock
}

func NewEngagementService(db *sqlx.DB, ledger *engagement.Ledger, clk clock.Clock) *EngagementService {
	return &EngagementService{db: db, ledger: ledger, clock: clk}
}

func (s *EngagementService) withLearner(ctx context.Context, learnerID int64, fn func(l *learner.Learner) error) error {
	return database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		repo := learner.NewDBLearnerRepository(tx)
		l, err := repo.GetForUpdate(ctx, learnerID)
		if err != nil {
			return err
		}
		if err := fn(l); err != nil {
			return err
		}
		return repo.Save(ctx, l)
	})
}

// RecordActivity credits message activity against today's goal and advances
// the streak when the goal is first met.
func (s *EngagementService) RecordActivity(ctx context.Context, learnerID int64, messageCount int) (engagement.ActivityResult, error) {
	var result engagement.ActivityResult
	err := s.withLearner(ctx, learnerID, func(l *learner.Learner) error {
		result = s.ledger.RecordActivity(l, messageCount, s.clock.Now())
		return nil
	})
	if err != nil {
		return engagement.ActivityResult{}, fmt.Errorf("record activity for learner %d: %w", learnerID, err)
	}
	if result.Milestone != nil {
		slog.Info("streak milestone reached",
			"learner_id", learnerID,
			"days", result.Milestone.Days,
			"title", result.Milestone.Title,
			"xp", result.Milestone.XP,
		)
	}
	return result, nil
}

// ClaimChallengeSlot grants one of today's challenge slots or fails with
// QuotaExceededError.
func (s *EngagementService) ClaimChallengeSlot(ctx context.Context, learnerID int64) (engagement.Claim, error) {
	var claim engagement.Claim
	err := s.withLearner(ctx, learnerID, func(l *learner.Learner) error {
		var err error
		claim, err = s.ledger.ClaimChallengeSlot(l, s.clock.Now())
		return err
	})
	if err != nil {
		return engagement.Claim{}, err
	}
	return claim, nil
}

// UseFreeze consumes one streak freeze token.
func (s *EngagementService) UseFreeze(ctx context.Context, learnerID int64) (engagement.FreezeResult, error) {
	var result engagement.FreezeResult
	err := s.withLearner(ctx, learnerID, func(l *learner.Learner) error {
		var err error
		result, err = s.ledger.UseFreeze(l, s.clock.Now())
		return err
	})
	if err != nil {
		return engagement.FreezeResult{}, err
	}
	return result, nil
}

// Refresh runs the lazy rollover and persists it, so reads that follow see
// today's counters. It mutates nothing else.
func (s *EngagementService) Refresh(ctx context.Context, learnerID int64) (*learner.Learner, error) {
	var current *learner.Learner
	err := s.withLearner(ctx, learnerID, func(l *learner.Learner) error {
		s.ledger.Rollover(l, s.clock.Now())
		current = l
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("refresh learner %d: %w", learnerID, err)
	}
	return current, nil
}
