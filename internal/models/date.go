package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 calendar date layout used in storage and exports.
const DateFormat = "2006-01-02"

// readDateFormat also accepts single-digit month and day.
const readDateFormat = "2006-1-2"

// Date is a calendar date with day granularity. The zero Date means "missing".
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{t.Year(), t.Month(), t.Day()}
}

// Today returns the current local date.
func Today() Date { return NewDate(time.Now().Date()) }

// ParseDate parses YYYY-MM-DD (single-digit month and day accepted).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NewDate(t.Date()), nil
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// String returns the date in YYYY-MM-DD format, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateFormat)
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string; "" yields the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
