package clock

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Value implements driver.Valuer so Day maps onto a nullable DATE column.
// The zero day is stored as NULL.
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner. MySQL DATE columns arrive as time.Time when
// parseTime is enabled, or as bytes otherwise.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
		return nil
	case time.Time:
		*d = Day{Year: v.Year(), Month: v.Month(), Date: v.Day()}
		return nil
	case []byte:
		parsed, err := ParseDay(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDay(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into clock.Day", src)
	}
}
