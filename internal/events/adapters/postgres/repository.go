package postgres

import (
	"context"

	"activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/events/core/ports"
)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

// SQL template
const insertEventSQL = `
INSERT INTO raw_events (
    event_id,
    entity_id,
    entity_name,
    event_date,
    event_type,
    measure
) VALUES (
    $1, $2, $3,
    $4, $5, $6
)
ON CONFLICT (event_id) DO NOTHING;
`

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.RawEvent) (bool, error) {

	var entityName any
	if e.EntityName != "" {
		entityName = e.EntityName
	}

	res, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.EntityID,
		entityName,
		e.EventDate.String(),
		e.EventType,
		e.Measure,
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new row
	// rows == 0  -> duplicate event_id (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}
