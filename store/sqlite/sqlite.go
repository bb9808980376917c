/*
Package sqlite provides the offline/demo implementation of generic.Gateway.

PURPOSE:
  When DEMO_MODE is on, the dashboard serves records from a local SQLite
  database seeded with fixtures instead of the remote backend. The same
  Gateway contract applies, so derived fields and validation behave
  identically in both modes.

  Demo mode is selected explicitly at startup. It is never a fallback for
  a failing backend.

KEY TABLES:
  records: one row per record, any kind
    kind        collection name ("rooms", "bookings", ...)
    id          record id (uuid for created records)
    data        the record's JSON encoding (wire field names)
    created_at  RFC3339
    updated_at  RFC3339

  Filters and sorting use json_extract over data, so they take the same
  field names the backend's query string does.

CONCURRENCY:
  Uses sync.RWMutex around the connection. A single open connection keeps
  ":memory:" databases from splitting across pool connections.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  rooms := sqlite.NewTable[hostel.Room](store, hostel.KindRoom)
  page, err := rooms.List(ctx, generic.ListQuery{Filters: map[string]string{"status": "AVAILABLE"}})

SEE ALSO:
  - fixtures.go: demo data
  - generic/store.go: Gateway contract
  - generic/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/student-hotel/generic"
)

// Store owns the database shared by every Table.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// WithClock replaces the timestamp source. Used by tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		kind TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (kind, id)
	);

	CREATE INDEX IF NOT EXISTS idx_records_kind_created
		ON records(kind, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset deletes every record of every kind.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, "DELETE FROM records")
	return err
}

// Count returns the number of records of kind.
func (s *Store) Count(ctx context.Context, kind generic.Kind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE kind = ?", string(kind)).Scan(&n)
	return n, err
}

// =============================================================================
// TABLE - typed Gateway over the records table
// =============================================================================

// Table is the Gateway for one kind.
type Table[T generic.Record[T]] struct {
	store *Store
	kind  generic.Kind
}

// NewTable binds kind to the store.
func NewTable[T generic.Record[T]](s *Store, kind generic.Kind) *Table[T] {
	return &Table[T]{store: s, kind: kind}
}

func (t *Table[T]) Kind() generic.Kind { return t.kind }

// fieldName restricts filter and sort keys to plain JSON member names.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (t *Table[T]) List(ctx context.Context, q generic.ListQuery) (generic.Page[T], error) {
	q = q.Normalize(generic.ListQuery{})

	where := "kind = ?"
	args := []any{string(t.kind)}
	for field, value := range q.Filters {
		if !fieldName.MatchString(field) {
			return generic.Page[T]{}, fmt.Errorf("%w: filter field %q", generic.ErrInvalidQuery, field)
		}
		where += " AND CAST(json_extract(data, ?) AS TEXT) = ?"
		args = append(args, "$."+field, value)
	}

	order := "created_at, rowid"
	var orderArgs []any
	if q.SortField != "" {
		if !fieldName.MatchString(q.SortField) {
			return generic.Page[T]{}, fmt.Errorf("%w: sort field %q", generic.ErrInvalidQuery, q.SortField)
		}
		dir := "ASC"
		if q.SortDir == generic.SortDesc {
			dir = "DESC"
		}
		order = "json_extract(data, ?) " + dir + ", created_at, rowid"
		orderArgs = append(orderArgs, "$."+q.SortField)
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var total int
	if err := t.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE "+where, args...).Scan(&total); err != nil {
		return generic.Page[T]{}, fmt.Errorf("count %s: %w", t.kind, err)
	}

	query := "SELECT data FROM records WHERE " + where + " ORDER BY " + order + " LIMIT ? OFFSET ?"
	queryArgs := append(append(append([]any{}, args...), orderArgs...), q.Limit, q.Offset)
	rows, err := t.store.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return generic.Page[T]{}, fmt.Errorf("list %s: %w", t.kind, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return generic.Page[T]{}, err
		}
		var rec T
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return generic.Page[T]{}, fmt.Errorf("decode %s: %w", t.kind, err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return generic.Page[T]{}, err
	}

	return generic.Page[T]{
		Items:      items,
		Pagination: generic.NewPagination(total, q.Page, q.Limit),
	}, nil
}

func (t *Table[T]) Get(ctx context.Context, id string) (T, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	return t.getLocked(ctx, id)
}

func (t *Table[T]) getLocked(ctx context.Context, id string) (T, error) {
	var zero T
	var data string
	err := t.store.db.QueryRowContext(ctx,
		"SELECT data FROM records WHERE kind = ? AND id = ?", string(t.kind), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, &generic.NotFoundError{Kind: t.kind, ID: id}
	}
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", t.kind, err)
	}
	var rec T
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return zero, fmt.Errorf("decode %s: %w", t.kind, err)
	}
	return rec, nil
}

func (t *Table[T]) Create(ctx context.Context, draft T) (T, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	rec := draft.WithRecordID(uuid.NewString()).Stamp(generic.Timestamps{}, t.store.now())
	if err := t.insertLocked(ctx, rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (t *Table[T]) Update(ctx context.Context, id string, draft T) (T, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	var zero T
	prev, err := t.getLocked(ctx, id)
	if err != nil {
		return zero, err
	}
	rec := draft.WithRecordID(id).Stamp(prev.Audit(), t.store.now())
	data, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", t.kind, err)
	}
	_, err = t.store.db.ExecContext(ctx,
		"UPDATE records SET data = ?, updated_at = ? WHERE kind = ? AND id = ?",
		string(data), formatTime(rec.Audit().UpdatedAt), string(t.kind), id)
	if err != nil {
		return zero, fmt.Errorf("update %s: %w", t.kind, err)
	}
	return rec, nil
}

func (t *Table[T]) Delete(ctx context.Context, id string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	res, err := t.store.db.ExecContext(ctx,
		"DELETE FROM records WHERE kind = ? AND id = ?", string(t.kind), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", t.kind, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &generic.NotFoundError{Kind: t.kind, ID: id}
	}
	return nil
}

// Seed inserts records keeping their ids and timestamps. Existing rows with
// the same id are replaced.
func (t *Table[T]) Seed(ctx context.Context, records ...T) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, rec := range records {
		if rec.RecordID() == "" {
			rec = rec.WithRecordID(uuid.NewString())
		}
		if rec.Audit().CreatedAt == nil {
			rec = rec.Stamp(generic.Timestamps{}, t.store.now())
		}
		if err := t.insertLocked(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table[T]) insertLocked(ctx context.Context, rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.kind, err)
	}
	ts := rec.Audit()
	_, err = t.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO records (kind, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(t.kind), rec.RecordID(), string(data), formatTime(ts.CreatedAt), formatTime(ts.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert %s: %w", t.kind, err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
