// Package export snapshots a learner's progress and vocabulary queue so they
// can be backed up or inspected outside the database.
package export

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/lernpfad/internal/learner"
)

// Snapshot is everything the export writes for one learner.
type Snapshot struct {
	Learner    *learner.Learner
	Vocabulary []learner.VocabularyItem
}

// Exporter reads a learner's full state from the database.
type Exporter struct {
	db *sqlx.DB
}

// NewExporter creates a new Exporter.
func NewExporter(db *sqlx.DB) *Exporter {
	return &Exporter{db: db}
}

// Export loads the learner record and every vocabulary item.
func (e *Exporter) Export(ctx context.Context, learnerID int64) (*Snapshot, error) {
	l, err := learner.NewDBLearnerRepository(e.db).Get(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("export learner %d: %w", learnerID, err)
	}
	items, err := learner.NewDBVocabularyRepository(e.db).FindAll(ctx, learnerID)
	if err != nil {
		return nil, fmt.Errorf("export vocabulary for learner %d: %w", learnerID, err)
	}
	return &Snapshot{Learner: l, Vocabulary: items}, nil
}
