package ports

import (
	"context"

	"activation-metrics-service/internal/events/core/domain"
)

type EventRepositoryPort interface {
	// InsertEvent:
	//   created = true,  err = nil  -> new row
	//   created = false, err = nil  -> event_id already stored (idempotent)
	//   created = false, err != nil -> DB error
	InsertEvent(ctx context.Context, e *domain.RawEvent) (created bool, err error)
}
