// Package store provides Gateway implementations.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/student-hotel/generic"
)

// =============================================================================
// MEMORY STORE - In-memory gateway (for testing/dev)
// =============================================================================

// Memory is a goroutine-safe Gateway over a map. Filters and sorting read
// the JSON encoding of each record, so they use wire field names.
type Memory[T generic.Record[T]] struct {
	mu    sync.RWMutex
	kind  generic.Kind
	items map[string]T
	order []string // insertion order, the default list order
	now   func() time.Time
}

// NewMemory creates an empty store for kind.
func NewMemory[T generic.Record[T]](kind generic.Kind) *Memory[T] {
	return &Memory[T]{
		kind:  kind,
		items: make(map[string]T),
		now:   time.Now,
	}
}

// WithClock replaces the timestamp source. Used by tests.
func (m *Memory[T]) WithClock(now func() time.Time) *Memory[T] {
	m.now = now
	return m
}

func (m *Memory[T]) Kind() generic.Kind { return m.kind }

// Seed inserts records as-is, keeping their ids. Records without an id get one.
func (m *Memory[T]) Seed(records ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		if r.RecordID() == "" {
			r = r.WithRecordID(uuid.NewString())
		}
		m.putLocked(r)
	}
}

func (m *Memory[T]) putLocked(r T) {
	id := r.RecordID()
	if _, exists := m.items[id]; !exists {
		m.order = append(m.order, id)
	}
	m.items[id] = r
}

func (m *Memory[T]) List(_ context.Context, q generic.ListQuery) (generic.Page[T], error) {
	q = q.Normalize(generic.ListQuery{})

	m.mu.RLock()
	defer m.mu.RUnlock()

	type row struct {
		rec    T
		fields map[string]any
	}
	var rows []row
	for _, id := range m.order {
		rec := m.items[id]
		fields, err := fieldsOf(rec)
		if err != nil {
			return generic.Page[T]{}, err
		}
		if matches(fields, q.Filters) {
			rows = append(rows, row{rec: rec, fields: fields})
		}
	}

	if q.SortField != "" {
		desc := q.SortDir == generic.SortDesc
		sort.SliceStable(rows, func(i, j int) bool {
			c := compare(rows[i].fields[q.SortField], rows[j].fields[q.SortField])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	total := len(rows)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)

	items := make([]T, 0, end-start)
	for _, r := range rows[start:end] {
		items = append(items, r.rec)
	}
	return generic.Page[T]{
		Items:      items,
		Pagination: generic.NewPagination(total, q.Page, q.Limit),
	}, nil
}

func (m *Memory[T]) Get(_ context.Context, id string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.items[id]
	if !ok {
		var zero T
		return zero, &generic.NotFoundError{Kind: m.kind, ID: id}
	}
	return rec, nil
}

func (m *Memory[T]) Create(_ context.Context, draft T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := draft.WithRecordID(uuid.NewString()).Stamp(generic.Timestamps{}, m.now())
	m.putLocked(rec)
	return rec, nil
}

func (m *Memory[T]) Update(_ context.Context, id string, draft T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.items[id]
	if !ok {
		var zero T
		return zero, &generic.NotFoundError{Kind: m.kind, ID: id}
	}
	rec := draft.WithRecordID(id).Stamp(prev.Audit(), m.now())
	m.items[id] = rec
	return rec, nil
}

func (m *Memory[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return &generic.NotFoundError{Kind: m.kind, ID: id}
	}
	delete(m.items, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// =============================================================================
// FIELD ACCESS
// =============================================================================

func fieldsOf(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("decode record fields: %w", err)
	}
	return fields, nil
}

func matches(fields map[string]any, filters map[string]string) bool {
	for k, want := range filters {
		got, ok := fields[k]
		if !ok || got == nil || fmt.Sprint(got) != want {
			return false
		}
	}
	return true
}

func compare(a, b any) int {
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case a == nil && b != nil:
		return -1
	case b == nil && a != nil:
		return 1
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}
