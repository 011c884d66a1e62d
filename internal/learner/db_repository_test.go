package learner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/lernpfad/internal/clock"
)

var learnerColumnList = []string{
	"id", "username", "first_name", "level", "total_xp",
	"streak_days", "best_streak", "streak_start_day", "last_active_day", "last_milestone",
	"freeze_balance", "freeze_used_today", "freeze_covered_day",
	"last_seen_day", "messages_today", "challenges_today",
	"daily_goal", "timezone_offset_minutes", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestDBLearnerRepository_Get(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	activeDay := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      *Learner
		wantErr   error
	}{
		{
			name: "returns the learner with date columns mapped",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(learnerColumnList).
					AddRow(42, "mika", "Mika", "A2", 150,
						5, 9, activeDay, activeDay, 3,
						1, false, nil,
						activeDay, 12, 1,
						10, 120, now, now)
				mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\?$").
					WithArgs(int64(42)).
					WillReturnRows(rows)
			},
			want: &Learner{
				ID:                    42,
				Username:              "mika",
				FirstName:             "Mika",
				Level:                 LevelA2,
				TotalXP:               150,
				StreakDays:            5,
				BestStreak:            9,
				StreakStartDay:        clock.Day{Year: 2025, Month: 6, Date: 1},
				LastActiveDay:         clock.Day{Year: 2025, Month: 6, Date: 1},
				LastMilestone:         3,
				FreezeBalance:         1,
				LastSeenDay:           clock.Day{Year: 2025, Month: 6, Date: 1},
				MessagesToday:         12,
				ChallengesToday:       1,
				DailyGoal:             10,
				TimezoneOffsetMinutes: 120,
				CreatedAt:             now,
				UpdatedAt:             now,
			},
		},
		{
			name: "missing learner maps to ErrNotFound",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\?$").
					WithArgs(int64(42)).
					WillReturnRows(sqlmock.NewRows(learnerColumnList))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "db error propagates",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\?$").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewDBLearnerRepository(db)
			tt.setupMock(mock)

			got, err := repo.Get(context.Background(), 42)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, ErrNotFound)
				}
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBLearnerRepository_GetForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDBLearnerRepository(db)

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(learnerColumnList).
		AddRow(7, "nils", "", "A1", 0,
			0, 0, nil, nil, 0,
			1, false, nil,
			nil, 0, 0,
			10, 0, now, now)
	mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\? FOR UPDATE$").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.GetForUpdate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.True(t, got.LastActiveDay.IsZero(), "NULL dates scan as the zero day")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBLearnerRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDBLearnerRepository(db)

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	l := NewLearner(42, "mika", "Mika", now)

	mock.ExpectExec("INSERT INTO learners").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), l))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBLearnerRepository_Save(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   error
	}{
		{
			name: "updates the row",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE learners SET").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "zero affected rows maps to ErrNotFound",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE learners SET").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewDBLearnerRepository(db)
			tt.setupMock(mock)

			l := &Learner{ID: 42, Username: "mika", Level: LevelA1, DailyGoal: 10}
			err := repo.Save(context.Background(), l)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, l.UpdatedAt.IsZero(), "save stamps the update time")

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

var vocabularyColumnList = []string{
	"id", "learner_id", "term", "translation", "times_seen",
	"learned", "stage", "due_at", "last_grade", "created_at",
}

func TestDBVocabularyRepository_FindDue(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantTerms []string
		wantErr   bool
	}{
		{
			name: "returns due items oldest first",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(vocabularyColumnList).
					AddRow(1, 42, "die Übung", "the exercise", 3, false, 2, now.Add(-48*time.Hour), 3, now.Add(-200*time.Hour)).
					AddRow(2, 42, "der Apfel", "the apple", 1, false, 0, now.Add(-time.Hour), 0, now.Add(-time.Hour))
				mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE learner_id = \\? AND due_at <= \\? ORDER BY due_at ASC, id ASC LIMIT \\? OFFSET \\?").
					WithArgs(int64(42), now, 20, 0).
					WillReturnRows(rows)
			},
			wantTerms: []string{"die Übung", "der Apfel"},
		},
		{
			name: "no due items yields an empty slice",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE learner_id = \\? AND due_at <= \\?").
					WillReturnRows(sqlmock.NewRows(vocabularyColumnList))
			},
		},
		{
			name: "db error propagates",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM vocabulary_items").
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewDBVocabularyRepository(db)
			tt.setupMock(mock)

			got, err := repo.FindDue(context.Background(), 42, now, 20, 0)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.wantTerms))
			for i, term := range tt.wantTerms {
				assert.Equal(t, term, got[i].Term)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBVocabularyRepository_FindAll(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	db, mock := newMockDB(t)
	repo := NewDBVocabularyRepository(db)

	rows := sqlmock.NewRows(vocabularyColumnList).
		AddRow(1, 42, "der Apfel", "the apple", 2, false, 1, now, 3, now).
		AddRow(2, 42, "laufen", "", 1, true, 4, now.Add(720*time.Hour), 4, now)
	mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE learner_id = \\? ORDER BY id ASC").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	got, err := repo.FindAll(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "der Apfel", got[0].Term)
	assert.True(t, got[1].Learned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBVocabularyRepository_Counts(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	db, mock := newMockDB(t)
	repo := NewDBVocabularyRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM vocabulary_items WHERE learner_id = \\? AND due_at <= \\?").
		WithArgs(int64(42), now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM vocabulary_items WHERE learner_id = \\? AND learned = TRUE").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	due, err := repo.CountDue(context.Background(), 42, now)
	require.NoError(t, err)
	assert.Equal(t, 7, due)

	learned, err := repo.CountLearned(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 3, learned)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBVocabularyRepository_FindByTerm(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDBVocabularyRepository(db)

	mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE learner_id = \\? AND term = \\?").
		WithArgs(int64(42), "der Apfel").
		WillReturnRows(sqlmock.NewRows(vocabularyColumnList))

	_, err := repo.FindByTerm(context.Background(), 42, "der Apfel")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBVocabularyRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDBVocabularyRepository(db)

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	item := NewVocabularyItem(42, "der Apfel", "the apple", now)

	mock.ExpectExec("INSERT INTO vocabulary_items").
		WithArgs(int64(42), "der Apfel", "the apple", 1, false, 0, now, 0, now).
		WillReturnResult(sqlmock.NewResult(17, 1))

	require.NoError(t, repo.Create(context.Background(), item))
	assert.Equal(t, int64(17), item.ID, "generated id is written back")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBVocabularyRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDBVocabularyRepository(db)

	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	item := &VocabularyItem{ID: 17, LearnerID: 42, Term: "der Apfel", Stage: 1, Due: now, LastGrade: 3, TimesSeen: 2}

	mock.ExpectExec("UPDATE vocabulary_items SET").
		WithArgs("", 2, false, 1, now, 3, int64(17)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), item))

	mock.ExpectExec("UPDATE vocabulary_items SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Save(context.Background(), item), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
