// Package timex holds small time helpers shared by configuration and token code.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Duration wraps time.Duration so that it can be read from JSON either as a
// string understood by time.ParseDuration ("1h", "720h") or as an integer
// number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		return nil
	default:
		return errors.New("invalid duration")
	}
}

// Label renders d the way token lifetimes are written in records and logs:
// whole days as "30d", whole hours as "1h", anything else via time.Duration.String.
func Label(d time.Duration) string {
	switch {
	case d > 0 && d%day == 0:
		return fmt.Sprintf("%dd", d/day)
	case d > 0 && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	default:
		return d.String()
	}
}
