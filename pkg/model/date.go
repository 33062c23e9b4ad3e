package model

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// Date is a timestamp as the task store serializes it. The store emits
// RFC3339 with milliseconds, but date pickers submit bare days, so both
// are accepted. Empty strings and null decode to the zero value.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

// NewDay wraps the calendar day of t, read in t's own location, as
// midnight UTC. Date-only fields such as a task's end date use it so the
// day survives the UTC wire format unchanged.
func NewDay(t time.Time) *Date {
	return &Date{Time: CalendarDay(t)}
}

// CalendarDay returns midnight UTC of the year, month and day t has in
// its own location.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// UnmarshalJSON implements the json.Unmarshaler interface for Date.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	s := strings.Trim(string(b), `"`)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse date string '%s': %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Date.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.UTC().Format(time.RFC3339) + `"`), nil
}

// Day returns the date portion formatted for display.
func (d *Date) Day() string {
	if d == nil || d.Time.IsZero() {
		return "-"
	}
	return d.Time.UTC().Format(dateOnlyLayout)
}

// CalendarDay returns the UTC day d falls on, at midnight UTC.
func (d *Date) CalendarDay() time.Time {
	return CalendarDay(d.Time.UTC())
}

// IsSet reports whether d carries a non-zero time.
func (d *Date) IsSet() bool {
	return d != nil && !d.Time.IsZero()
}
