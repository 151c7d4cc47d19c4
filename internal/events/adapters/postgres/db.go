package postgres

import (
	"context"
	"database/sql"
)

// DB is the write surface the raw_events writer and schema bootstrap need.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewSQLDB narrows a pooled *sql.DB to DB.
func NewSQLDB(db *sql.DB) DB {
	return db
}
