package learner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/at-ishikawa/lernpfad/internal/database"
)

const learnerColumns = "id, username, first_name, level, total_xp, " +
	"streak_days, best_streak, streak_start_day, last_active_day, last_milestone, " +
	"freeze_balance, freeze_used_today, freeze_covered_day, " +
	"last_seen_day, messages_today, challenges_today, " +
	"daily_goal, timezone_offset_minutes, created_at, updated_at"

// DBLearnerRepository implements LearnerRepository using MySQL. It accepts
// any database.Queryer, so the service layer can bind it to a transaction.
type DBLearnerRepository struct {
	q database.Queryer
}

// NewDBLearnerRepository creates a new DBLearnerRepository.
func NewDBLearnerRepository(q database.Queryer) *DBLearnerRepository {
	return &DBLearnerRepository{q: q}
}

func (r *DBLearnerRepository) get(ctx context.Context, id int64, suffix string) (*Learner, error) {
	var l Learner
	query := "SELECT " + learnerColumns + " FROM learners WHERE id = ?" + suffix
	if err := r.q.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("learner %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load learner %d: %w", id, err)
	}
	return &l, nil
}

// Get returns the learner record by id.
func (r *DBLearnerRepository) Get(ctx context.Context, id int64) (*Learner, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate returns the learner record and locks its row until the
// enclosing transaction commits.
func (r *DBLearnerRepository) GetForUpdate(ctx context.Context, id int64) (*Learner, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

// Create inserts a new learner record.
func (r *DBLearnerRepository) Create(ctx context.Context, l *Learner) error {
	_, err := r.q.ExecContext(ctx,
		"INSERT INTO learners ("+learnerColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.Username, l.FirstName, l.Level, l.TotalXP,
		l.StreakDays, l.BestStreak, l.StreakStartDay, l.LastActiveDay, l.LastMilestone,
		l.FreezeBalance, l.FreezeUsedToday, l.FreezeCoveredDay,
		l.LastSeenDay, l.MessagesToday, l.ChallengesToday,
		l.DailyGoal, l.TimezoneOffsetMinutes, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert learner %d: %w", l.ID, err)
	}
	return nil
}

// Save writes back every mutable learner field.
func (r *DBLearnerRepository) Save(ctx context.Context, l *Learner) error {
	l.UpdatedAt = time.Now()
	res, err := r.q.ExecContext(ctx,
		"UPDATE learners SET username = ?, first_name = ?, level = ?, total_xp = ?, "+
			"streak_days = ?, best_streak = ?, streak_start_day = ?, last_active_day = ?, last_milestone = ?, "+
			"freeze_balance = ?, freeze_used_today = ?, freeze_covered_day = ?, "+
			"last_seen_day = ?, messages_today = ?, challenges_today = ?, "+
			"daily_goal = ?, timezone_offset_minutes = ?, updated_at = ? WHERE id = ?",
		l.Username, l.FirstName, l.Level, l.TotalXP,
		l.StreakDays, l.BestStreak, l.StreakStartDay, l.LastActiveDay, l.LastMilestone,
		l.FreezeBalance, l.FreezeUsedToday, l.FreezeCoveredDay,
		l.LastSeenDay, l.MessagesToday, l.ChallengesToday,
		l.DailyGoal, l.TimezoneOffsetMinutes, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return fmt.Errorf("update learner %d: %w", l.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update learner %d: %w", l.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("learner %d: %w", l.ID, ErrNotFound)
	}
	return nil
}

const vocabularyColumns = "id, learner_id, term, translation, times_seen, learned, stage, due_at, last_grade, created_at"

// DBVocabularyRepository implements VocabularyRepository using MySQL.
type DBVocabularyRepository struct {
	q database.Queryer
}

// NewDBVocabularyRepository creates a new DBVocabularyRepository.
func NewDBVocabularyRepository(q database.Queryer) *DBVocabularyRepository {
	return &DBVocabularyRepository{q: q}
}

func (r *DBVocabularyRepository) get(ctx context.Context, id int64, suffix string) (*VocabularyItem, error) {
	var item VocabularyItem
	query := "SELECT " + vocabularyColumns + " FROM vocabulary_items WHERE id = ?" + suffix
	if err := r.q.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vocabulary item %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("load vocabulary item %d: %w", id, err)
	}
	return &item, nil
}

// Get returns the vocabulary item by id.
func (r *DBVocabularyRepository) Get(ctx context.Context, id int64) (*VocabularyItem, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate returns the item and locks its row until the enclosing
// transaction commits.
func (r *DBVocabularyRepository) GetForUpdate(ctx context.Context, id int64) (*VocabularyItem, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

// FindByTerm returns the learner's item for the exact term.
func (r *DBVocabularyRepository) FindByTerm(ctx context.Context, learnerID int64, term string) (*VocabularyItem, error) {
	var item VocabularyItem
	err := r.q.GetContext(ctx, &item,
		"SELECT "+vocabularyColumns+" FROM vocabulary_items WHERE learner_id = ? AND term = ?",
		learnerID, term)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vocabulary term %q: %w", term, ErrNotFound)
		}
		return nil, fmt.Errorf("load vocabulary term %q: %w", term, err)
	}
	return &item, nil
}

// FindDue returns items due at or before cutoff, oldest due first. The id
// tiebreak keeps pages stable when items share a due timestamp.
func (r *DBVocabularyRepository) FindDue(ctx context.Context, learnerID int64, cutoff time.Time, limit, offset int) ([]VocabularyItem, error) {
	var items []VocabularyItem
	err := r.q.SelectContext(ctx, &items,
		"SELECT "+vocabularyColumns+" FROM vocabulary_items "+
			"WHERE learner_id = ? AND due_at <= ? ORDER BY due_at ASC, id ASC LIMIT ? OFFSET ?",
		learnerID, cutoff, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("load due items for learner %d: %w", learnerID, err)
	}
	return items, nil
}

// FindAll returns every item in the learner's queue, oldest first.
func (r *DBVocabularyRepository) FindAll(ctx context.Context, learnerID int64) ([]VocabularyItem, error) {
	var items []VocabularyItem
	err := r.q.SelectContext(ctx, &items,
		"SELECT "+vocabularyColumns+" FROM vocabulary_items WHERE learner_id = ? ORDER BY id ASC",
		learnerID)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary for learner %d: %w", learnerID, err)
	}
	return items, nil
}

// CountDue returns the number of items due at or before cutoff.
func (r *DBVocabularyRepository) CountDue(ctx context.Context, learnerID int64, cutoff time.Time) (int, error) {
	var count int
	err := r.q.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM vocabulary_items WHERE learner_id = ? AND due_at <= ?",
		learnerID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("count due items for learner %d: %w", learnerID, err)
	}
	return count, nil
}

// CountLearned returns the number of items flagged learned.
func (r *DBVocabularyRepository) CountLearned(ctx context.Context, learnerID int64) (int, error) {
	var count int
	err := r.q.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM vocabulary_items WHERE learner_id = ? AND learned = TRUE",
		learnerID)
	if err != nil {
		return 0, fmt.Errorf("count learned items for learner %d: %w", learnerID, err)
	}
	return count, nil
}

// Create inserts a new vocabulary item and fills in its generated id.
func (r *DBVocabularyRepository) Create(ctx context.Context, item *VocabularyItem) error {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO vocabulary_items (learner_id, term, translation, times_seen, learned, stage, due_at, last_grade, created_at) "+
			"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.LearnerID, item.Term, item.Translation, item.TimesSeen, item.Learned,
		item.Stage, item.Due, item.LastGrade, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vocabulary term %q: %w", item.Term, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert vocabulary term %q: %w", item.Term, err)
	}
	item.ID = id
	return nil
}

// Save writes back the item's scheduling state and counters.
func (r *DBVocabularyRepository) Save(ctx context.Context, item *VocabularyItem) error {
	res, err := r.q.ExecContext(ctx,
		"UPDATE vocabulary_items SET translation = ?, times_seen = ?, learned = ?, stage = ?, due_at = ?, last_grade = ? WHERE id = ?",
		item.Translation, item.TimesSeen, item.Learned, item.Stage, item.Due, item.LastGrade, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update vocabulary item %d: %w", item.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vocabulary item %d: %w", item.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("vocabulary item %d: %w", item.ID, ErrNotFound)
	}
	return nil
}
