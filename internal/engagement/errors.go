package engagement

import (
	"errors"
	"fmt"

	"github.com/at-ishikawa/lernpfad/internal/clock"
)

// QuotaExceededError reports an exhausted daily challenge quota. It is an
// expected outcome, not an infrastructure failure.
type QuotaExceededError struct {
	Limit int
	Day   clock.Day
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("challenge quota of %d per day exhausted for %s", e.Limit, e.Day)
}

// IsQuotaExceededError reports whether err is a QuotaExceededError.
func IsQuotaExceededError(err error) bool {
	var target *QuotaExceededError
	return errors.As(err, &target)
}

// NoFreezeAvailableError reports an empty freeze token balance.
type NoFreezeAvailableError struct{}

func (e *NoFreezeAvailableError) Error() string {
	return "no freeze tokens available"
}

// IsNoFreezeAvailableError reports whether err is a NoFreezeAvailableError.
func IsNoFreezeAvailableError(err error) bool {
	var target *NoFreezeAvailableError
	return errors.As(err, &target)
}

// FreezeAlreadyUsedError reports a second freeze attempt within the same
// quota window.
type FreezeAlreadyUsedError struct {
	Day clock.Day
}

func (e *FreezeAlreadyUsedError) Error() string {
	return fmt.Sprintf("freeze already used on %s", e.Day)
}

// IsFreezeAlreadyUsedError reports whether err is a FreezeAlreadyUsedError.
func IsFreezeAlreadyUsedError(err error) bool {
	var target *FreezeAlreadyUsedError
	return errors.As(err, &target)
}
