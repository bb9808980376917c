package generic

import (
	"fmt"
	"math"
	"time"
)

// =============================================================================
// DATE HELPERS
// =============================================================================

const (
	Day = 24 * time.Hour

	// DateLayout is the wire format for date-only fields.
	DateLayout = "2006-01-02"
)

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDateOnly reports whether t carries no time of day. Date-only wire values
// decode to UTC midnight.
func IsDateOnly(t time.Time) bool {
	return t.Location() == time.UTC && t.Equal(StartOfDay(t))
}

// CalendarDay returns midnight in loc of the calendar day t names. Date-only
// values keep their year, month and day; instants are converted to loc first.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if !IsDateOnly(t) {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate accepts a date-only value or an RFC3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// DaysBetween returns ceil((end-start)/1 day). A partial day counts as a
// whole day; inverted ranges yield a negative count.
func DaysBetween(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// MonthsFromDays converts a day count into 30-day billing months, rounding up.
func MonthsFromDays(days int) int {
	if days <= 0 {
		return 0
	}
	return (days + 29) / 30
}

// AgeAt returns the number of whole years between birth and now.
// A birthday that has not yet occurred this year does not count. Feb 29
// births reach the next year on Mar 1 in non-leap years.
func AgeAt(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()
	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// HoursBetween returns the rounded number of hours from -> to.
// Inverted timestamps clamp to 0 and return a data-quality warning.
func HoursBetween(from, to time.Time) (int, *DataQualityWarning) {
	d := to.Sub(from)
	if d < 0 {
		return 0, &DataQualityWarning{
			Code:    "inverted_timestamps",
			Message: "end timestamp " + to.Format(time.RFC3339) + " precedes start " + from.Format(time.RFC3339),
		}
	}
	return int(math.Round(d.Hours())), nil
}

// =============================================================================
// DATE - wire type accepting date-only and RFC3339 values
// =============================================================================

// Date is a time that decodes from "2006-01-02" or RFC3339 strings.
// Values at UTC midnight encode back as date-only strings.
type Date struct {
	time.Time
}

// NewDate returns a UTC midnight Date.
func NewDate(year int, month time.Month, day int) *Date {
	return &Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf wraps t.
func DateOf(t time.Time) *Date { return &Date{Time: t} }

// Ptr returns the wrapped time, or nil for a nil or zero Date.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	if IsDateOnly(d.Time) {
		return []byte(`"` + d.Time.Format(DateLayout) + `"`), nil
	}
	return []byte(`"` + d.Time.Format(time.RFC3339) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date: expected string, got %s", s)
	}
	t, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	d.Time = t
	return nil
}
