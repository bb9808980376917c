package generic

import "time"

// =============================================================================
// DATE RANGE - Bookings, contracts and any other start/end record
// =============================================================================

// DateRange is a planned [Start, End) interval.
//
// Examples:
//   - Booking: check-in 2024-02-01, check-out 2024-02-04 (3 nights)
//   - Contract: start 2024-09-01, end 2025-06-30
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether End is strictly after Start.
func (r DateRange) Valid() bool {
	return r.End.After(r.Start)
}

// Days returns the ceiling day count of the range.
func (r DateRange) Days() int {
	return DaysBetween(r.Start, r.End)
}

// Contains reports whether t lies within [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Remaining returns the whole days left until End as of now, never negative.
func (r DateRange) Remaining(now time.Time) int {
	if !now.Before(r.End) {
		return 0
	}
	return DaysBetween(now, r.End)
}

// Elapsed returns the fraction of the range that has passed, in [0, 1].
func (r DateRange) Elapsed(now time.Time) float64 {
	total := r.End.Sub(r.Start)
	if total <= 0 {
		return 0
	}
	passed := now.Sub(r.Start)
	switch {
	case passed <= 0:
		return 0
	case passed >= total:
		return 1
	}
	return float64(passed) / float64(total)
}

// String returns a string representation of the range.
func (r DateRange) String() string {
	return "[" + r.Start.Format(DateLayout) + ", " + r.End.Format(DateLayout) + ")"
}
