package placement

import (
	"errors"
	"fmt"

	"github.com/at-ishikawa/lernpfad/internal/learner"
)

// EmptyQuestionBankError is returned when a session cannot start because the
// bank holds no questions for the starting tier.
type EmptyQuestionBankError struct {
	Level learner.Level
}

func (e *EmptyQuestionBankError) Error() string {
	return fmt.Sprintf("question bank has no questions for level %s", e.Level)
}

// IsEmptyQuestionBankError reports whether err is an EmptyQuestionBankError.
func IsEmptyQuestionBankError(err error) bool {
	var target *EmptyQuestionBankError
	return errors.As(err, &target)
}

// InvalidAnswerError rejects an answer before any session mutation: the
// option index is out of range, or the question does not belong to the
// session's current tier block.
type InvalidAnswerError struct {
	QuestionID  string
	OptionIndex int
	Reason      string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for question %s (option %d): %s", e.QuestionID, e.OptionIndex, e.Reason)
}

// IsInvalidAnswerError reports whether err is an InvalidAnswerError.
func IsInvalidAnswerError(err error) bool {
	var target *InvalidAnswerError
	return errors.As(err, &target)
}

// SessionStateError rejects an operation invoked in the wrong state, for
// example evaluating a block that is not complete.
type SessionStateError struct {
	Operation string
	State     State
}

func (e *SessionStateError) Error() string {
	return fmt.Sprintf("%s is not valid in session state %s", e.Operation, e.State)
}
