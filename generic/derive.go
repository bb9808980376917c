/*
derive.go - Derived field primitives

PURPOSE:
  Pure functions that turn stored fields into the values pages display:
  overdue/expiring flags, occupancy percentages and label/class pairs.
  Every function takes "now" explicitly; calling one twice with the same
  record and the same now yields the same result.

DEADLINES:
  A record has at most one deadline state. Two flavours exist:

  DeadlineDue (payments, maintenance, work items):
    - Closed:  status is terminal (COMPLETED, CANCELLED, ...)
    - Overdue: reference date < now
    - Pending: otherwise

  DeadlineExpiry (warranties, contracts):
    - Closed:       status is terminal
    - Expired:      reference date < now
    - ExpiringSoon: reference date in [now, now+Window]
    - Valid:        otherwise

  Because IsOverdue, IsExpiringSoon and IsExpired all read the same
  classification, no two of them can assert for the same record.
*/
package generic

import (
	"math"
	"time"
)

// DefaultExpiryWindow is the look-ahead for "expiring soon".
const DefaultExpiryWindow = 30 * Day

// DeadlineKind selects due-date or expiry semantics.
type DeadlineKind int

const (
	DeadlineDue DeadlineKind = iota
	DeadlineExpiry
)

// DeadlineState is the single classification of a reference date.
type DeadlineState string

const (
	DeadlineNone         DeadlineState = "none" // no reference date
	DeadlineClosed       DeadlineState = "closed"
	DeadlinePending      DeadlineState = "pending"
	DeadlineOverdue      DeadlineState = "overdue"
	DeadlineValid        DeadlineState = "valid"
	DeadlineExpiringSoon DeadlineState = "expiring_soon"
	DeadlineExpired      DeadlineState = "expired"
)

// Deadline describes how one entity interprets its reference date.
type Deadline struct {
	Kind     DeadlineKind
	Terminal []string      // statuses that close the deadline
	Window   time.Duration // expiring-soon window; 0 = DefaultExpiryWindow
}

func (d Deadline) terminal(status string) bool {
	for _, s := range d.Terminal {
		if s == status {
			return true
		}
	}
	return false
}

// Classify returns the deadline state of ref for a record in status.
func (d Deadline) Classify(ref *time.Time, status string, now time.Time) DeadlineState {
	if ref == nil || ref.IsZero() {
		return DeadlineNone
	}
	if d.terminal(status) {
		return DeadlineClosed
	}
	if d.Kind == DeadlineDue {
		if ref.Before(now) {
			return DeadlineOverdue
		}
		return DeadlinePending
	}
	window := d.Window
	if window == 0 {
		window = DefaultExpiryWindow
	}
	switch {
	case ref.Before(now):
		return DeadlineExpired
	case !ref.After(now.Add(window)):
		return DeadlineExpiringSoon
	default:
		return DeadlineValid
	}
}

// IsOverdue reports whether a due-date record is past due.
func (d Deadline) IsOverdue(ref *time.Time, status string, now time.Time) bool {
	return d.Classify(ref, status, now) == DeadlineOverdue
}

// IsExpiringSoon reports whether an expiry record falls within the window.
func (d Deadline) IsExpiringSoon(ref *time.Time, status string, now time.Time) bool {
	return d.Classify(ref, status, now) == DeadlineExpiringSoon
}

// IsExpired reports whether an expiry record is past its reference date.
func (d Deadline) IsExpired(ref *time.Time, status string, now time.Time) bool {
	return d.Classify(ref, status, now) == DeadlineExpired
}

// =============================================================================
// OCCUPANCY
// =============================================================================

// ClampOccupants forces current into [0, capacity].
func ClampOccupants(current, capacity int) int {
	if capacity < 0 {
		capacity = 0
	}
	switch {
	case current < 0:
		return 0
	case current > capacity:
		return capacity
	}
	return current
}

// OccupancyPercent returns round(100*current/capacity). A zero capacity is 0%.
func OccupancyPercent(current, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	current = ClampOccupants(current, capacity)
	return int(math.Round(100 * float64(current) / float64(capacity)))
}

// =============================================================================
// LABELS
// =============================================================================

// Badge is a label/class pair ready for display.
type Badge struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Class string `json:"class,omitempty"`
}

// BadgeFor resolves key in enum. Unknown keys fail with UnknownEnumKey.
func (r *Registry) BadgeFor(enum, key string) (Badge, error) {
	o, err := r.option(enum, key)
	if err != nil {
		return Badge{Key: key}, err
	}
	return Badge{Key: o.Key, Label: o.Label, Class: o.Class}, nil
}
