package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/database"
	"github.com/at-ishikawa/lernpfad/internal/dictionary"
	"github.com/at-ishikawa/lernpfad/internal/learner"
	"github.com/at-ishikawa/lernpfad/internal/review"
)

// ReviewService manages the vocabulary queue and applies graded reviews.
type ReviewService struct {
	db         *sqlx.DB
	scheduler  *review.Scheduler
	dictionary dictionary.Client
	clock      clock.Clock
}

// NewReviewService creates a ReviewService. The dictionary client may be nil
// when no API credentials are configured; favorites then start without a
// translation.
func NewReviewService(db *sqlx.DB, scheduler *review.Scheduler, dict dictionary.Client, clk clock.Clock) *ReviewService {
	return &ReviewService{db: db, scheduler: scheduler, dictionary: dict, clock: clk}
}

// AddFavorite stores a word in the learner's vocabulary queue, due
// immediately. Favoriting an existing term bumps its seen counter and puts
// it back into rotation instead of creating a duplicate, without touching
// its schedule.
func (s *ReviewService) AddFavorite(ctx context.Context, learnerID int64, term, translation string) (*learner.VocabularyItem, error) {
	if translation == "" && s.dictionary != nil {
		looked, err := s.dictionary.Translate(ctx, term)
		if err != nil {
			// The queue works without a translation; keep going.
			slog.Warn("dictionary lookup failed", "term", term, "error", err)
		} else {
			translation = looked.Primary()
		}
	}

	var result *learner.VocabularyItem
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		repo := learner.NewDBVocabularyRepository(tx)
		existing, err := repo.FindByTerm(ctx, learnerID, term)
		if err != nil && !errors.Is(err, learner.ErrNotFound) {
			return err
		}
		if existing != nil {
			existing.TimesSeen++
			existing.Learned = false
			if existing.Translation == "" {
				existing.Translation = translation
			}
			if err := repo.Save(ctx, existing); err != nil {
				return err
			}
			result = existing
			return nil
		}

		item := learner.NewVocabularyItem(learnerID, term, translation, s.clock.Now())
		if err := repo.Create(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add favorite %q for learner %d: %w", term, learnerID, err)
	}
	return result, nil
}

// DueItems returns the page of items due for review right now, oldest due
// first.
func (s *ReviewService) DueItems(ctx context.Context, learnerID int64, limit, offset int) ([]learner.VocabularyItem, error) {
	repo := learner.NewDBVocabularyRepository(s.db)
	items, err := repo.FindDue(ctx, learnerID, s.clock.Now(), limit, offset)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Review applies one graded review to the item and persists its new
// schedule.
func (s *ReviewService) Review(ctx context.Context, itemID int64, grade review.Grade) (*learner.VocabularyItem, error) {
	var updated *learner.VocabularyItem
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		repo := learner.NewDBVocabularyRepository(tx)
		item, err := repo.GetForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, learner.ErrNotFound) {
				return &review.UnknownItemError{ItemID: itemID}
			}
			return err
		}
		if err := s.scheduler.Apply(item, grade, s.clock.Now()); err != nil {
			return err
		}
		if err := repo.Save(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("review applied",
		"item_id", itemID,
		"grade", grade.String(),
		"stage", updated.Stage,
		"due", updated.Due,
	)
	return updated, nil
}

// Reset puts an item back at the start of the schedule, due immediately.
func (s *ReviewService) Reset(ctx context.Context, itemID int64) (*learner.VocabularyItem, error) {
	return s.mutateItem(ctx, itemID, func(item *learner.VocabularyItem) {
		s.scheduler.ResetProgress(item, s.clock.Now())
	})
}

// ToggleLearned flips the item's learned flag without rescheduling it.
func (s *ReviewService) ToggleLearned(ctx context.Context, itemID int64) (*learner.VocabularyItem, error) {
	return s.mutateItem(ctx, itemID, func(item *learner.VocabularyItem) {
		s.scheduler.ToggleLearned(item)
	})
}

func (s *ReviewService) mutateItem(ctx context.Context, itemID int64, mutate func(*learner.VocabularyItem)) (*learner.VocabularyItem, error) {
	var updated *learner.VocabularyItem
	err := database.RunInTx(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		repo := learner.NewDBVocabularyRepository(tx)
		item, err := repo.GetForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, learner.ErrNotFound) {
				return &review.UnknownItemError{ItemID: itemID}
			}
			return err
		}
		mutate(item)
		if err := repo.Save(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
