/*
store.go - Record gateway contract

PURPOSE:
  Defines the interface between derived-field/validation logic and
  wherever records live. The dashboard never talks to the backend
  directly; it goes through a Gateway per entity kind.

IMPLEMENTATIONS:
  - gateway/resource.go: JSON over HTTP against the remote backend
  - store/sqlite/sqlite.go: Offline/demo mode, seeded with fixtures
  - generic/store/memory.go: In-memory, for tests

FAILURE CONTRACT:
  Get/Update/Delete on a missing id return *NotFoundError.
  Transport problems return *NetworkFailureError; they are never turned
  into an empty page.
  Backend-side rule violations return *ValidationFailedError.
*/
package generic

import (
	"context"
	"time"
)

// Record is implemented by every entity a store can hold. Methods return
// modified copies so drafts passed to Create are never mutated.
type Record[T any] interface {
	RecordID() string
	WithRecordID(id string) T
	Audit() Timestamps
	Stamp(prev Timestamps, now time.Time) T
}

// SortDirection orders list results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Default pagination values used when a query leaves them unset.
const (
	DefaultLimit  = 10
	DefaultPage   = 1
	DefaultOffset = 0

	// MaxLimit caps the page size of any list query.
	MaxLimit = 100
)

// ListQuery selects a page of records.
type ListQuery struct {
	Filters   map[string]string // field -> exact value
	Limit     int
	Offset    int
	Page      int
	SortField string
	SortDir   SortDirection
	Include   []string // related records to embed, sent as include_<rel>=true
}

// Normalize fills unset pagination fields. Offset is derived from Page when
// only a page number was given.
func (q ListQuery) Normalize(defaults ListQuery) ListQuery {
	if q.Limit <= 0 {
		q.Limit = defaults.Limit
		if q.Limit <= 0 {
			q.Limit = DefaultLimit
		}
	}
	q.Limit = min(q.Limit, MaxLimit)
	switch {
	case q.Page > 0:
	case q.Offset > 0:
		q.Page = q.Offset/q.Limit + 1
	case defaults.Page > 0:
		q.Page = defaults.Page
	default:
		q.Page = DefaultPage
	}
	if q.Offset <= 0 {
		q.Offset = (q.Page - 1) * q.Limit
	}
	if q.SortDir == "" {
		q.SortDir = defaults.SortDir
	}
	return q
}

// Pagination describes where a page sits in the full result set. When a
// backend reports no totals, Total is a lower bound and HasMore tells
// whether another page may follow.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// NewPagination computes TotalPages and HasMore from total and limit.
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = total / limit
		if total%limit > 0 {
			pages++
		}
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages, HasMore: page < pages}
}

// OpenPagination describes a page from a backend that reports no totals.
// A full page may be followed by another one.
func OpenPagination(offset, count, page, limit int) Pagination {
	p := NewPagination(offset+count, page, limit)
	if limit > 0 && count >= limit {
		p.HasMore = true
		p.TotalPages = page + 1
	}
	return p
}

// Page is one slice of a list result.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Gateway is the create/read/update/delete/list contract per entity kind.
type Gateway[T any] interface {
	Kind() Kind

	// List returns a page of records matching the query.
	List(ctx context.Context, q ListQuery) (Page[T], error)

	// Get returns the record with id, or *NotFoundError.
	Get(ctx context.Context, id string) (T, error)

	// Create persists a draft and returns the stored record.
	Create(ctx context.Context, draft T) (T, error)

	// Update replaces the record with id.
	Update(ctx context.Context, id string, draft T) (T, error)

	// Delete removes the record with id.
	Delete(ctx context.Context, id string) error
}
