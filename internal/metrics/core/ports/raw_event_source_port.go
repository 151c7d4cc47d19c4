package ports

import (
	"context"

	eventsDomain "activation-metrics-service/internal/events/core/domain"

	"cloud.google.com/go/civil"
)

// DefaultQueryID names the fact table every source serves when the caller
// does not ask for a specific one.
const DefaultQueryID = "raw_events"

type FetchParams struct {
	QueryID    string
	From       civil.Date // inclusive; zero means no lower bound
	To         civil.Date // inclusive
	EntityIDs  []string   // optional
	EventTypes []string   // optional
}

type RawEventSource interface {
	// FetchRawEvents returns the rows of QueryID dated within [From, To].
	// Failures are *domain.SourceUnavailableError; rows that do not decode
	// are *domain.SchemaMismatchError.
	FetchRawEvents(ctx context.Context, p FetchParams) ([]eventsDomain.RawEvent, error)
}
