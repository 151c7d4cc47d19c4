// Package snowflake serves raw events from a Snowflake warehouse.
package snowflake

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/adapters/sqlrows"
	"activation-metrics-service/internal/metrics/core/domain"
	"activation-metrics-service/internal/metrics/core/ports"
	"activation-metrics-service/internal/platform/observability"

	"github.com/snowflakedb/gosnowflake"
)

const sourceName = "snowflake"

type Config struct {
	Account   string
	User      string
	Password  string
	Database  string
	Schema    string
	Warehouse string
	Role      string
	Timeout   time.Duration
}

// DSN renders cfg in the driver's connection string format.
func DSN(cfg Config) (string, error) {
	return gosnowflake.DSN(&gosnowflake.Config{
		Account:      cfg.Account,
		User:         cfg.User,
		Password:     cfg.Password,
		Database:     cfg.Database,
		Schema:       cfg.Schema,
		Warehouse:    cfg.Warehouse,
		Role:         cfg.Role,
		LoginTimeout: cfg.Timeout,
	})
}

// Open opens a pooled connection to the warehouse. The connection is not
// verified; callers ping it when they need to.
func Open(cfg Config) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("build snowflake dsn: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("open snowflake connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

type Source struct {
	db     *sql.DB
	tables map[string]string
}

var _ ports.RawEventSource = (*Source)(nil)

// NewSource serves ports.DefaultQueryID from RAW_EVENTS plus any extra
// query id to table mappings.
func NewSource(db *sql.DB, tables map[string]string) *Source {
	t := map[string]string{ports.DefaultQueryID: "RAW_EVENTS"}
	for id, table := range tables {
		t[id] = table
	}
	return &Source{db: db, tables: t}
}

func (s *Source) FetchRawEvents(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
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
	where := "EVENT_DATE BETWEEN TO_DATE(?) AND TO_DATE(?)"
	args := []any{p.From.String(), p.To.String()}
	if p.From.IsZero() {
		where = "EVENT_DATE <= TO_DATE(?)"
		args = []any{p.To.String()}
	}

	if len(p.EntityIDs) > 0 {
		where += " AND ENTITY_ID IN (" + placeholders(len(p.EntityIDs)) + ")"
		for _, id := range p.EntityIDs {
			args = append(args, id)
		}
	}
	if len(p.EventTypes) > 0 {
		where += " AND EVENT_TYPE IN (" + placeholders(len(p.EventTypes)) + ")"
		for _, t := range p.EventTypes {
			args = append(args, t)
		}
	}

	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE %s
ORDER BY EVENT_DATE, ENTITY_ID`, strings.ToUpper(sqlrows.SelectList()), table, where)

	return query, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
