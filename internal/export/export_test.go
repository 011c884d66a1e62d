package export

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lernpfad/internal/learner"
)

func TestExporter_Export(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT (.+) FROM learners WHERE id = ?").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "first_name", "level", "total_xp",
			"streak_days", "best_streak", "streak_start_day", "last_active_day", "last_milestone",
			"freeze_balance", "freeze_used_today", "freeze_covered_day",
			"last_seen_day", "messages_today", "challenges_today",
			"daily_goal", "timezone_offset_minutes", "created_at", "updated_at",
		}).AddRow(42, "mika", "Mika", "A2", 150,
			5, 9, nil, nil, 3,
			1, false, nil,
			nil, 0, 0,
			10, 0, now, now))
	mock.ExpectQuery("SELECT (.+) FROM vocabulary_items WHERE learner_id = \\? ORDER BY id ASC").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "learner_id", "term", "translation", "times_seen", "learned",
			"stage", "due_at", "last_grade", "created_at",
		}).AddRow(1, 42, "der Apfel", "the apple", 2, false, 1, now, 3, now))

	snapshot, err := NewExporter(sqlx.NewDb(db, "mysql")).Export(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "mika", snapshot.Learner.Username)
	require.Len(t, snapshot.Vocabulary, 1)
	assert.Equal(t, "der Apfel", snapshot.Vocabulary[0].Term)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExporter_Export_UnknownLearner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM learners WHERE id = ?").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewExporter(sqlx.NewDb(db, "mysql")).Export(context.Background(), 7)
	assert.ErrorIs(t, err, learner.ErrNotFound)
}
