package clock

import (
	"fmt"
	"time"
)

// Day is a calendar day in some learner's local time. It is comparable, so
// it can key per-day quota windows directly.
type Day struct {
	Year  int
	Month time.Month
	Date  int
}

// DayOf converts an instant to the calendar day it falls on when shifted by
// the learner's UTC offset. The offset is stored in minutes so half-hour
// timezones work.
func DayOf(t time.Time, offsetMinutes int) Day {
	local := t.UTC().Add(time.Duration(offsetMinutes) * time.Minute)
	return Day{Year: local.Year(), Month: local.Month(), Date: local.Day()}
}

// Time returns midnight of the day in UTC. Used only for arithmetic; the
// engine never renders instants back to learners.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the day n calendar days later (or earlier for negative n).
func (d Day) AddDays(n int) Day {
	t := d.Time().AddDate(0, 0, n)
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}
}

// DaysSince returns the number of whole days from other to d. Positive when
// d is later.
func (d Day) DaysSince(other Day) int {
	return int(d.Time().Sub(other.Time()) / (24 * time.Hour))
}

// IsZero reports whether the day is the zero value, meaning "never".
func (d Day) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Date == 0
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Date)
}

// ParseDay parses the String form. The zero value round-trips through the
// empty string so optional columns stay optional.
func ParseDay(s string) (Day, error) {
	if s == "" {
		return Day{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), Date: t.Day()}, nil
}
