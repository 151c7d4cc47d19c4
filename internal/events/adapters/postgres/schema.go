package postgres

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS raw_events (
    event_id    TEXT PRIMARY KEY,
    entity_id   TEXT NOT NULL,
    entity_name TEXT,
    event_date  DATE NOT NULL,
    event_type  TEXT NOT NULL,
    measure     NUMERIC CHECK (measure >= 0),
    inserted_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS raw_events_date_type_idx ON raw_events (event_date, event_type);
CREATE INDEX IF NOT EXISTS raw_events_entity_idx ON raw_events (entity_id, event_date);
`

// EnsureSchema creates the fact table and its indexes if they are missing.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure raw_events schema: %w", err)
	}
	return nil
}
