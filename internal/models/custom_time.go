package models

import (
	"encoding/json"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// FlexibleDate accepts both RFC3339 timestamps and "YYYY-MM-DD" dates.
// Values are truncated to the calendar day in UTC.
type FlexibleDate struct {
	time.Time
}

// ParseFlexibleDate parses s as RFC3339 or as a date-only string.
func ParseFlexibleDate(s string) (FlexibleDate, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse(DateLayout, s)
		if err != nil {
			return FlexibleDate{}, err
		}
	}
	y, m, d := t.Date()
	return FlexibleDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexibleDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		f.Time = time.Time{}
		return nil
	}

	parsed, err := ParseFlexibleDate(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (f FlexibleDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Format(DateLayout))
}
