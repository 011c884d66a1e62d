package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/lernpfad/internal/clock"
	"github.com/at-ishikawa/lernpfad/internal/dictionary"
	"github.com/at-ishikawa/lernpfad/internal/engagement"
	"github.com/at-ishikawa/lernpfad/internal/learner"
	"github.com/at-ishikawa/lernpfad/internal/placement"
	"github.com/at-ishikawa/lernpfad/internal/review"
	mock_dictionary "github.com/at-ishikawa/lernpfad/internal/mocks/dictionary"
)

var testNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

var learnerColumns = []string{
	"id", "username", "first_name", "level", "total_xp",
	"streak_days", "best_streak", "streak_start_day", "last_active_day", "last_milestone",
	"freeze_balance", "freeze_used_today", "freeze_covered_day",
	"last_seen_day", "messages_today", "challenges_today",
	"daily_goal", "timezone_offset_minutes", "created_at", "updated_at",
}

// learnerRow builds a learner who met the goal yesterday with a running
// streak.
func learnerRow(challengesToday int) *sqlmock.Rows {
	yesterday := testNow.Add(-24 * time.Hour)
	return sqlmock.NewRows(learnerColumns).
		AddRow(42, "mika", "Mika", "A2", 150,
			5, 9, yesterday.Add(-4*24*time.Hour), yesterday, 3,
			1, false, nil,
			testNow, 0, challengesToday,
			10, 0, testNow, testNow)
}

var vocabularyColumns = []string{
	"id", "learner_id", "term", "translation", "times_seen",
	"learned", "stage", "due_at", "last_grade", "created_at",
}

func TestLearnerService_ApplyPlacement(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewLearnerService(db, clock.NewFixed(testNow))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\? FOR UPDATE").
		WithArgs(int64(42)).
		WillReturnRows(learnerRow(0))
	mock.ExpectExec("UPDATE learners SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := s.ApplyPlacement(context.Background(), 42, placement.Result{
		Level:         learner.LevelB1,
		TotalAnswered: 30,
		TotalCorrect:  24,
	})
	require.NoError(t, err)
	assert.Equal(t, learner.LevelB1, got.Level)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLearnerService_SetDailyGoal(t *testing.T) {
	t.Run("rejects a non-positive goal without touching the database", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewLearnerService(db, clock.NewFixed(testNow))

		assert.Error(t, s.SetDailyGoal(context.Background(), 42, 0))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("persists the new goal", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewLearnerService(db, clock.NewFixed(testNow))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\? FOR UPDATE").
			WillReturnRows(learnerRow(0))
		mock.ExpectExec("UPDATE learners SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.SetDailyGoal(context.Background(), 42, 25))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEngagementService_ClaimChallengeSlot(t *testing.T) {
	t.Run("grants a slot and saves the learner", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewEngagementService(db, engagement.NewLedger(engagement.DefaultPolicy()), clock.NewFixed(testNow))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\? FOR UPDATE").
			WithArgs(int64(42)).
			WillReturnRows(learnerRow(0))
		mock.ExpectExec("UPDATE learners SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		claim, err := s.ClaimChallengeSlot(context.Background(), 42)
		require.NoError(t, err)
		assert.NotEmpty(t, claim.Token)
		assert.Equal(t, 1, claim.Remaining)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exhausted quota rolls the transaction back", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewEngagementService(db, engagement.NewLedger(engagement.DefaultPolicy()), clock.NewFixed(testNow))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\? FOR UPDATE").
			WillReturnRows(learnerRow(2))
		mock.ExpectRollback()

		_, err := s.ClaimChallengeSlot(context.Background(), 42)
		assert.True(t, engagement.IsQuotaExceededError(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEngagementService_RecordActivity(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewEngagementService(db, engagement.NewLedger(engagement.DefaultPolicy()), clock.NewFixed(testNow))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM learners WHERE id = \\? FOR UPDATE").
		WillReturnRows(learnerRow(0))
	mock.ExpectExec("UPDATE learners SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := s.RecordActivity(context.Background(), 42, 10)
	require.NoError(t, err)
	assert.True(t, result.GoalJustReached)
	assert.Equal(t, 6, result.Streak, "yesterday's streak of five extends")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewService_Review(t *testing.T) {
	t.Run("applies the grade and saves the schedule", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewReviewService(db, review.NewScheduler(review.DefaultPolicy()), nil, clock.NewFixed(testNow))

		rows := sqlmock.NewRows(vocabularyColumns).
			AddRow(17, 42, "der Apfel", "the apple", 2, false, 1, testNow.Add(-time.Hour), 3, testNow.Add(-100*time.Hour))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE id = \\? FOR UPDATE").
			WithArgs(int64(17)).
			WillReturnRows(rows)
		mock.ExpectExec("UPDATE vocabulary_items SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := s.Review(context.Background(), 17, review.GradeGood)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Stage)
		assert.Equal(t, testNow.Add(8*24*time.Hour), got.Due)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing item maps to UnknownItemError", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewReviewService(db, review.NewScheduler(review.DefaultPolicy()), nil, clock.NewFixed(testNow))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE id = \\? FOR UPDATE").
			WillReturnRows(sqlmock.NewRows(vocabularyColumns))
		mock.ExpectRollback()

		_, err := s.Review(context.Background(), 17, review.GradeGood)
		assert.True(t, review.IsUnknownItemError(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid grade leaves the item untouched", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewReviewService(db, review.NewScheduler(review.DefaultPolicy()), nil, clock.NewFixed(testNow))

		rows := sqlmock.NewRows(vocabularyColumns).
			AddRow(17, 42, "der Apfel", "", 2, false, 1, testNow, 0, testNow)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE id = \\? FOR UPDATE").
			WillReturnRows(rows)
		mock.ExpectRollback()

		_, err := s.Review(context.Background(), 17, review.Grade(9))
		assert.True(t, review.IsInvalidGradeError(err))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewService_AddFavorite(t *testing.T) {
	t.Run("fills the translation from the dictionary and inserts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDict := mock_dictionary.NewMockClient(ctrl)
		mockDict.EXPECT().
			Translate(gomock.Any(), "der Apfel").
			Return(dictionary.Translation{Term: "der Apfel", Translations: []string{"the apple"}}, nil)

		db, mock := newMockDB(t)
		s := NewReviewService(db, review.NewScheduler(review.DefaultPolicy()), mockDict, clock.NewFixed(testNow))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE learner_id = \\? AND term = \\?").
			WithArgs(int64(42), "der Apfel").
			WillReturnRows(sqlmock.NewRows(vocabularyColumns))
		mock.ExpectExec("INSERT INTO vocabulary_items").
			WithArgs(int64(42), "der Apfel", "the apple", 1, false, 0, testNow, 0, testNow).
			WillReturnResult(sqlmock.NewResult(17, 1))
		mock.ExpectCommit()

		item, err := s.AddFavorite(context.Background(), 42, "der Apfel", "")
		require.NoError(t, err)
		assert.Equal(t, int64(17), item.ID)
		assert.Equal(t, "the apple", item.Translation)
		assert.Equal(t, testNow, item.Due, "new favorites are due immediately")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an existing favorite bumps times seen without rescheduling", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewReviewService(db, review.NewScheduler(review.DefaultPolicy()), nil, clock.NewFixed(testNow))

		due := testNow.Add(4 * 24 * time.Hour)
		rows := sqlmock.NewRows(vocabularyColumns).
			AddRow(17, 42, "der Apfel", "the apple", 3, true, 1, due, 3, testNow.Add(-100*time.Hour))
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE learner_id = \\? AND term = \\?").
			WillReturnRows(rows)
		mock.ExpectExec("UPDATE vocabulary_items SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		item, err := s.AddFavorite(context.Background(), 42, "der Apfel", "the apple")
		require.NoError(t, err)
		assert.Equal(t, 4, item.TimesSeen)
		assert.False(t, item.Learned, "re-favoriting puts the word back into rotation")
		assert.Equal(t, due, item.Due)
		assert.Equal(t, 1, item.Stage)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a failed dictionary lookup still stores the favorite", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDict := mock_dictionary.NewMockClient(ctrl)
		mockDict.EXPECT().
			Translate(gomock.Any(), "xyzzy").
			Return(dictionary.Translation{}, fmt.Errorf("status code: 502"))

		db, mock := newMockDB(t)
		s := NewReviewService(db, review.NewScheduler(review.DefaultPolicy()), mockDict, clock.NewFixed(testNow))

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM vocabulary_items WHERE learner_id = \\? AND term = \\?").
			WillReturnRows(sqlmock.NewRows(vocabularyColumns))
		mock.ExpectExec("INSERT INTO vocabulary_items").
			WithArgs(int64(42), "xyzzy", "", 1, false, 0, testNow, 0, testNow).
			WillReturnResult(sqlmock.NewResult(18, 1))
		mock.ExpectCommit()

		item, err := s.AddFavorite(context.Background(), 42, "xyzzy", "")
		require.NoError(t, err)
		assert.Empty(t, item.Translation)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
