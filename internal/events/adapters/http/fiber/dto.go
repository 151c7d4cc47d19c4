package fiber

import (
	"activation-metrics-service/internal/events/core/usecase"

	"github.com/shopspring/decimal"
)

// CreateEventRequest represents a raw fact event payload
// @Description Raw fact event DTO
type CreateEventRequest struct {
	EventID    string              `json:"event_id" example:"6f1c2f4e-1b7c-4c53-9e7e-2f1d5b0c9a11"`
	EntityID   string              `json:"entity_id" example:"T1"`
	EntityName string              `json:"entity_name" example:"Acme Inc"`
	EventDate  string              `json:"event_date" example:"2024-01-03"`
	EventType  string              `json:"event_type" example:"amps"`
	Measure    decimal.NullDecimal `json:"measure" swaggertype:"number" example:"42.5"`
}

type CreateEventResponse struct {
	Status  string `json:"status"`
	EventID string `json:"event_id,omitempty"`
	Message string `json:"message,omitempty"`
}

type BulkCreateEventsRequest struct {
	Events []CreateEventRequest `json:"events"`
}

type BulkCreateEventsResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message" example:"Event payload is invalid"`
}

func (r CreateEventRequest) toInput() usecase.StoreEventInput {
	return usecase.StoreEventInput{
		EventID:    r.EventID,
		EntityID:   r.EntityID,
		EntityName: r.EntityName,
		EventDate:  r.EventDate,
		EventType:  r.EventType,
		Measure:    r.Measure,
	}
}
