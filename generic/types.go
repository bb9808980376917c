/*
Package generic provides the domain-agnostic rules engine.

PURPOSE:
  This package contains the pieces every administrative page of the
  dashboard repeats: closed enum sets with labels, derived presentation
  fields (overdue flags, occupancy, durations), field-level validation and
  the record gateway contract. Domain packages (hostel) describe their
  entities with these primitives; nothing in here knows about rooms or
  bookings.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind: A named record collection ("rooms", "bookings") with its REST path
  - Money: Decimal amounts for rates and totals
  - Timestamps: created/updated audit fields shared by all records

DESIGN PRINCIPLES:
  1. Purity: Calculator and validator functions take "now" as an argument
  2. Precision: Uses decimal.Decimal for every monetary value
  3. Explicit failure: Unknown enum keys and transport errors are typed errors
  4. Composability: Validation rules are independent values evaluated in one pass

USAGE:
  total := generic.Money(50000).Mul(decimal.NewFromInt(3))
  state := generic.Deadline{Kind: generic.DeadlineDue}.Classify(due, "PENDING", now)

SEE ALSO:
  - enum.go: Enum registry, labels, aliases, transition tables
  - derive.go: Derived field primitives
  - rules.go: Validation rule combinators
  - store.go: Gateway contract
*/
package generic

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY
// =============================================================================

// Money builds a decimal amount from an integer value in the smallest
// currency unit used by the backend (VND has no minor unit).
func Money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

// Kind identifies a record collection exposed by the backend.
type Kind string

func (k Kind) String() string { return string(k) }

// Timestamps are the audit fields every backend record carries.
type Timestamps struct {
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Audit returns the timestamps. Promoted to every record that embeds them.
func (t Timestamps) Audit() Timestamps { return t }

// Touch sets UpdatedAt to now. CreatedAt is taken from prev, then from the
// current value, then from now.
func (t *Timestamps) Touch(prev Timestamps, now time.Time) {
	switch {
	case prev.CreatedAt != nil:
		c := *prev.CreatedAt
		t.CreatedAt = &c
	case t.CreatedAt == nil:
		c := now
		t.CreatedAt = &c
	}
	u := now
	t.UpdatedAt = &u
}

// Warning is a non-fatal data-integrity or data-quality notice attached to a
// derived view instead of being swallowed into a default display value.
type Warning struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
