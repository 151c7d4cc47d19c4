package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/adapters/sqlrows"
	"activation-metrics-service/internal/metrics/core/domain"
	"activation-metrics-service/internal/metrics/core/ports"
	"activation-metrics-service/internal/platform/observability"

	"github.com/lib/pq"
)

const sourceName = "postgres"

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() ([]string, error)
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// RawEventSource reads raw events from fact tables in Postgres. Query ids
// map to table names; nothing else is interpolated into SQL.
type RawEventSource struct {
	db     DB
	tables map[string]string
}

var _ ports.RawEventSource = (*RawEventSource)(nil)

// NewRawEventSource serves ports.DefaultQueryID from the raw_events table
// plus any extra query id to table mappings.
func NewRawEventSource(db DB, tables map[string]string) *RawEventSource {
	t := map[string]string{ports.DefaultQueryID: "raw_events"}
	for id, table := range tables {
		t[id] = table
	}
	return &RawEventSource{db: db, tables: t}
}

func (s *RawEventSource) FetchRawEvents(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
	start := time.Now()

	table, ok := s.tables[p.QueryID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownQuery, p.QueryID)
	}

	query, args := buildQuery(table, p)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		err = &domain.SourceUnavailableError{Source: sourceName, Err: err}
		observability.ObserveFetch(sourceName, 0, err, start)
		return nil, err
	}

	events, err := sqlrows.Decode(sourceName, rows)
	observability.ObserveFetch(sourceName, len(events), err, start)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func buildQuery(table string, p ports.FetchParams) (string, []any) {
	where := "event_date BETWEEN $1 AND $2"
	args := []any{p.From.String(), p.To.String()}
	argIndex := 3
	if p.From.IsZero() {
		where = "event_date <= $1"
		args = []any{p.To.String()}
		argIndex = 2
	}

	if len(p.EntityIDs) > 0 {
		where += fmt.Sprintf(" AND entity_id = ANY($%d)", argIndex)
		args = append(args, pq.Array(p.EntityIDs))
		argIndex++
	}
	if len(p.EventTypes) > 0 {
		where += fmt.Sprintf(" AND event_type = ANY($%d)", argIndex)
		args = append(args, pq.Array(p.EventTypes))
	}

	query := `
SELECT ` + sqlrows.SelectList() + `
FROM ` + quoteTable(table) + `
WHERE ` + where + `
ORDER BY event_date, entity_id`

	return query, args
}

// quoteTable quotes each part of a possibly schema-qualified table name.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}
