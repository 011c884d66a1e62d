package learner

import "time"

// VocabularyItem is one favorited word with its spaced-repetition state.
// Items are soft state: the scheduler mutates them but never deletes them.
type VocabularyItem struct {
	ID        int64  `db:"id"`
	LearnerID int64  `db:"learner_id"`
	Term      string `db:"term"`

	Translation string `db:"translation"`
	TimesSeen   int    `db:"times_seen"`
	Learned     bool   `db:"learned"`

	// Stage counts successful repetition cycles and drives interval growth.
	// LastGrade is 0 until the first review.
	Stage     int       `db:"stage"`
	Due       time.Time `db:"due_at"`
	LastGrade int       `db:"last_grade"`

	CreatedAt time.Time `db:"created_at"`
}
