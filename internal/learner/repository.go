package learner

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a learner or vocabulary item does not exist.
var ErrNotFound = errors.New("record not found")

// LearnerRepository defines storage operations for learner records.
type LearnerRepository interface {
	Get(ctx context.Context, id int64) (*Learner, error)
	// GetForUpdate locks the learner's row for the enclosing transaction.
	// Mutating engine flows are check-then-act, so they must run behind
	// this lock.
	GetForUpdate(ctx context.Context, id int64) (*Learner, error)
	Create(ctx context.Context, l *Learner) error
	Save(ctx context.Context, l *Learner) error
}

// VocabularyRepository defines storage operations for vocabulary items.
type VocabularyRepository interface {
	Get(ctx context.Context, id int64) (*VocabularyItem, error)
	GetForUpdate(ctx context.Context, id int64) (*VocabularyItem, error)
	FindByTerm(ctx context.Context, learnerID int64, term string) (*VocabularyItem, error)
	// FindDue returns items due at or before cutoff, oldest due first.
	// Paging with the same cutoff is restartable: offset skips items
	// already served.
	FindDue(ctx context.Context, learnerID int64, cutoff time.Time, limit, offset int) ([]VocabularyItem, error)
	FindAll(ctx context.Context, learnerID int64) ([]VocabularyItem, error)
	CountDue(ctx context.Context, learnerID int64, cutoff time.Time) (int, error)
	CountLearned(ctx context.Context, learnerID int64) (int, error)
	Create(ctx context.Context, item *VocabularyItem) error
	Save(ctx context.Context, item *VocabularyItem) error
}

// NewLearner returns a learner record with the defaults a fresh signup gets.
func NewLearner(id int64, username, firstName string, now time.Time) *Learner {
	return &Learner{
		ID:            id,
		Username:      username,
		FirstName:     firstName,
		Level:         LowestLevel(),
		FreezeBalance: 1,
		DailyGoal:     10,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewVocabularyItem returns a favorite that is due immediately.
func NewVocabularyItem(learnerID int64, term, translation string, now time.Time) *VocabularyItem {
	return &VocabularyItem{
		LearnerID:   learnerID,
		Term:        term,
		Translation: translation,
		TimesSeen:   1,
		Due:         now,
		CreatedAt:   now,
	}
}
