package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/events/core/ports"
	"activation-metrics-service/internal/platform/observability"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrFutureDate   = errors.New("event_date cannot be in the future")
)

type StoreEventUseCase struct {
	repo ports.EventRepositoryPort
	now  func() time.Time
}

// NewStoreEventUseCase uses now to decide what "today" is; nil means time.Now.
func NewStoreEventUseCase(repo ports.EventRepositoryPort, now func() time.Time) *StoreEventUseCase {
	if now == nil {
		now = time.Now
	}
	return &StoreEventUseCase{repo: repo, now: now}
}

type StoreEventInput struct {
	EventID    string
	EntityID   string
	EntityName string
	EventDate  string // YYYY-MM-DD
	EventType  string
	Measure    decimal.NullDecimal
}

type StoreEventResult struct {
	EventID string
	Created bool
}

func (uc *StoreEventUseCase) Execute(ctx context.Context, in StoreEventInput) (StoreEventResult, error) {
	e, err := uc.toEvent(in)
	if err != nil {
		return StoreEventResult{}, err
	}

	created, err := uc.repo.InsertEvent(ctx, e)
	if err != nil {
		return StoreEventResult{}, err
	}
	observability.ObserveEventStored(created)

	return StoreEventResult{EventID: e.EventID, Created: created}, nil
}

type BulkCreateEventsInput struct {
	Events []StoreEventInput
}

type BulkCreateEventsResult struct {
	Created    int
	Duplicates int
}

// BulkCreateEvents validates every event before storing any of them.
func (uc *StoreEventUseCase) BulkCreateEvents(ctx context.Context, in BulkCreateEventsInput) (BulkCreateEventsResult, error) {
	var res BulkCreateEventsResult

	events := make([]*domain.RawEvent, len(in.Events))
	var result *multierror.Error
	for i, ev := range in.Events {
		e, err := uc.toEvent(ev)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("event %d: %w", i, err))
			continue
		}
		events[i] = e
	}
	if err := result.ErrorOrNil(); err != nil {
		return res, err
	}

	for _, e := range events {
		created, err := uc.repo.InsertEvent(ctx, e)
		if err != nil {
			return res, err
		}
		observability.ObserveEventStored(created)

		if created {
			res.Created++
		} else {
			res.Duplicates++
		}
	}

	return res, nil
}

func (uc *StoreEventUseCase) toEvent(in StoreEventInput) (*domain.RawEvent, error) {
	date, err := civil.ParseDate(in.EventDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidEvent, domain.ErrInvalidEventDate, in.EventDate)
	}

	e := &domain.RawEvent{
		EventID:    in.EventID,
		EntityID:   in.EntityID,
		EntityName: in.EntityName,
		EventDate:  date,
		EventType:  in.EventType,
		Measure:    in.Measure,
	}
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}

	if today := civil.DateOf(uc.now()); date.After(today) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrFutureDate, date, today)
	}

	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	return e, nil
}
