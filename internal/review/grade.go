// Package review implements the spaced-repetition scheduler that reorders a
// learner's vocabulary queue from self-reported recall quality.
package review

import (
	"errors"
	"fmt"
)

// Grade is a self-reported recall quality. The wire contract is the
// integers 1-4; anything else is rejected before any mutation.
type Grade int

const (
	GradeAgain Grade = 1
	GradeHard  Grade = 2
	GradeGood  Grade = 3
	GradeEasy  Grade = 4
)

// Valid reports whether the grade is inside the 1-4 contract.
func (g Grade) Valid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

func (g Grade) String() string {
	switch g {
	case GradeAgain:
		return "again"
	case GradeHard:
		return "hard"
	case GradeGood:
		return "good"
	case GradeEasy:
		return "easy"
	default:
		return fmt.Sprintf("grade(%d)", int(g))
	}
}

// ParseGrade validates a raw integer grade.
func ParseGrade(raw int) (Grade, error) {
	g := Grade(raw)
	if !g.Valid() {
		return 0, &InvalidGradeError{Grade: raw}
	}
	return g, nil
}

// InvalidGradeError rejects a grade outside 1-4.
type InvalidGradeError struct {
	Grade int
}

func (e *InvalidGradeError) Error() string {
	return fmt.Sprintf("grade must be between 1 and 4, got %d", e.Grade)
}

// IsInvalidGradeError reports whether err is an InvalidGradeError.
func IsInvalidGradeError(err error) bool {
	var target *InvalidGradeError
	return errors.As(err, &target)
}

// UnknownItemError is returned when a review references a vocabulary item
// that does not exist.
type UnknownItemError struct {
	ItemID int64
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("vocabulary item %d does not exist", e.ItemID)
}

// IsUnknownItemError reports whether err is an UnknownItemError.
func IsUnknownItemError(err error) bool {
	var target *UnknownItemError
	return errors.As(err, &target)
}
