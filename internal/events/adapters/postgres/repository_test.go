package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"activation-metrics-service/internal/events/core/domain"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// fakeResult implements sql.Result for tests.
type fakeResult struct {
	rowsAffected int64
}

func (f *fakeResult) LastInsertId() (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeResult) RowsAffected() (int64, error) {
	return f.rowsAffected, nil
}

// fakeDB implements DB interface for tests.
type fakeDB struct {
	ExecFn     func(ctx context.Context, query string, args ...any) (sql.Result, error)
	lastQuery  string
	lastArgs   []any
	execCalled bool
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	f.execCalled = true
	f.lastQuery = query
	f.lastArgs = args
	if f.ExecFn != nil {
		return f.ExecFn(ctx, query, args...)
	}
	return &fakeResult{rowsAffected: 1}, nil
}

func sampleEvent() *domain.RawEvent {
	return &domain.RawEvent{
		EventID:    "6f1c2f4e-1b7c-4c53-9e7e-2f1d5b0c9a11",
		EntityID:   "T1",
		EntityName: "Acme",
		EventDate:  civil.Date{Year: 2024, Month: time.January, Day: 3},
		EventType:  "amps",
		Measure:    decimal.NewNullDecimal(decimal.RequireFromString("42.5")),
	}
}

// ------------------------------------------------------------
// SUCCESS (created)
// ------------------------------------------------------------

func TestEventRepository_InsertEvent_Created(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO raw_events") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "ON CONFLICT (event_id) DO NOTHING") {
				t.Fatalf("expected idempotent insert, got: %s", query)
			}
			return &fakeResult{rowsAffected: 1}, nil
		},
	}

	repo := NewEventRepository(db)

	created, err := repo.InsertEvent(context.Background(), sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true, got false")
	}
	if !db.execCalled {
		t.Fatalf("expected ExecContext to be called")
	}
	if len(db.lastArgs) != 6 {
		t.Fatalf("expected 6 args, got %d", len(db.lastArgs))
	}
	if db.lastArgs[3] != "2024-01-03" {
		t.Fatalf("expected event_date arg 2024-01-03, got %v", db.lastArgs[3])
	}

	measure, ok := db.lastArgs[5].(driver.Valuer)
	if !ok {
		t.Fatalf("expected measure to be a driver.Valuer, got %T", db.lastArgs[5])
	}
	v, err := measure.Value()
	if err != nil || v != "42.5" {
		t.Fatalf("expected measure value 42.5, got %v (err %v)", v, err)
	}
}

// ------------------------------------------------------------
// NULLABLE COLUMNS
// ------------------------------------------------------------

func TestEventRepository_InsertEvent_Nulls(t *testing.T) {
	db := &fakeDB{}
	repo := NewEventRepository(db)

	e := sampleEvent()
	e.EntityName = ""
	e.Measure = decimal.NullDecimal{}

	if _, err := repo.InsertEvent(context.Background(), e); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastArgs[2] != nil {
		t.Fatalf("expected NULL entity_name, got %v", db.lastArgs[2])
	}
	v, err := db.lastArgs[5].(driver.Valuer).Value()
	if err != nil || v != nil {
		t.Fatalf("expected NULL measure, got %v (err %v)", v, err)
	}
}

// ------------------------------------------------------------
// DUPLICATE (rowsAffected=0)
// ------------------------------------------------------------

func TestEventRepository_InsertEvent_Duplicate(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return &fakeResult{rowsAffected: 0}, nil
		},
	}

	repo := NewEventRepository(db)

	created, err := repo.InsertEvent(context.Background(), sampleEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for duplicate")
	}
}

// ------------------------------------------------------------
// DB ERROR
// ------------------------------------------------------------

func TestEventRepository_InsertEvent_Error(t *testing.T) {
	db := &fakeDB{
		ExecFn: func(ctx context.Context, query string, args ...any) (sql.Result, error) {
			return nil, errors.New("db error")
		},
	}

	repo := NewEventRepository(db)

	created, err := repo.InsertEvent(context.Background(), sampleEvent())
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if created {
		t.Fatalf("expected created=false on error")
	}
}

// ------------------------------------------------------------
// SCHEMA
// ------------------------------------------------------------

func TestEnsureSchema(t *testing.T) {
	db := &fakeDB{}

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(db.lastQuery, "CREATE TABLE IF NOT EXISTS raw_events") {
		t.Fatalf("unexpected schema query: %s", db.lastQuery)
	}

	db.ExecFn = func(ctx context.Context, query string, args ...any) (sql.Result, error) {
		return nil, errors.New("permission denied")
	}
	if err := EnsureSchema(context.Background(), db); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
