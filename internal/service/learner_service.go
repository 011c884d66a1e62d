// Package service coordinates the progress engines with the database. Every
// mutating operation loads its rows under FOR UPDATE inside one transaction,
// applies the pure engine computation and writes the snapshot back, so
// concurrent operations on the same learner serialize at the row lock.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/database"
	"github.com/at-ishikawa/lernpfad/internal/learner"
	"github.com/at-ishikawa/lernpfad/internal/placement"
)

// LearnerService manages learner records and applies placement results.
type LearnerService struct {
	db    *sqlx.DB
	clock clock.Clock
}

func NewLearnerService(db *sqlx.DB, clk clock.Clock) *LearnerService {
	return &LearnerService{db: db, clock: clk}
}

// Register creates a learner record with the starting defaults.
func (s *LearnerService) Register(ctx context.Context, id int64, username, firstName string) (*learner.Learner, error) {
	l := learner.NewLearner(id, username, firstName, s.clock.Now())
	repo := learner.NewDBLearnerRepository(s.db)
	if err := repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create learner: %w", err)
	}
	slog.Info("registered learner", "learner_id", id, "username", username)
	return l, nil
}

// Get returns the learner record.
func (s *LearnerService) Get(ctx context.Context, id int64) (*learner.Learner, error) {
	return learner.NewDBLearnerRepository(s.db).Get(ctx, id)
}

// ApplyPlacement writes a concluded placement result onto the learner.
func (s *LearnerService) ApplyPlacement(ctx context.Context, learnerID int64, result placement.Result) (*learner.Learner, error) {
	var updated *learner.Learner
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		repo := learner.NewDBLearnerRepository(tx)
		l, err := repo.GetForUpdate(ctx, learnerID)
		if err != nil {
			return err
		}
		l.Level = result.Level
		if err := repo.Save(ctx, l); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply placement for learner %d: %w", learnerID, err)
	}
	slog.Info("placement applied",
		"learner_id", learnerID,
		"level", result.Level,
		"answered", result.TotalAnswered,
		"correct", result.TotalCorrect,
	)
	return updated, nil
}

// SetDailyGoal updates the learner's personal daily message goal.
func (s *LearnerService) SetDailyGoal(ctx context.Context, learnerID int64, goal int) error {
	if goal < 1 {
		return fmt.Errorf("daily goal must be positive, got %d", goal)
	}
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		repo := learner.NewDBLearnerRepository(tx)
		l, err := repo.GetForUpdate(ctx, learnerID)
		if err != nil {
			return err
		}
		l.DailyGoal = goal
		return repo.Save(ctx, l)
	})
	if err != nil {
		return fmt.Errorf("set daily goal for learner %d: %w", learnerID, err)
	}
	return nil
}

// SetTimezoneOffset updates the learner's local day boundary, expressed in
// minutes east of UTC.
func (s *LearnerService) SetTimezoneOffset(ctx context.Context, learnerID int64, offsetMinutes int) error {
	if offsetMinutes < -12*60 || offsetMinutes > 14*60 {
		return fmt.Errorf("timezone offset %d minutes is outside UTC-12:00..UTC+14:00", offsetMinutes)
	}
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		repo := learner.NewDBLearnerRepository(tx)
		l, err := repo.GetForUpdate(ctx, learnerID)
		if err != nil {
			return err
		}
		l.TimezoneOffsetMinutes = offsetMinutes
		return repo.Save(ctx, l)
	})
	if err != nil {
		return fmt.Errorf("set timezone offset for learner %d: %w", learnerID, err)
	}
	return nil
}
