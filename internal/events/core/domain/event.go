package domain

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingEntityID  = errors.New("entity_id is required")
	ErrMissingEventType = errors.New("event_type is required")
	ErrInvalidEventDate = errors.New("event_date is not a valid date")
	ErrNegativeMeasure  = errors.New("measure must not be negative")
)

// RawEvent is one fact row: a single real-world occurrence for an entity on a
// calendar date. Rows are immutable once read from a source.
type RawEvent struct {
	EventID    string              `json:"event_id,omitempty"`
	EntityID   string              `json:"entity_id"`
	EntityName string              `json:"entity_name"`
	EventDate  civil.Date          `json:"event_date"`
	EventType  string              `json:"event_type"`
	Measure    decimal.NullDecimal `json:"measure"`
}

// MeasureOrZero treats a missing measure as 0.
func (e RawEvent) MeasureOrZero() decimal.Decimal {
	if !e.Measure.Valid {
		return decimal.Zero
	}
	return e.Measure.Decimal
}

// Validate reports every problem with the row, not just the first one.
func (e RawEvent) Validate() error {
	var result *multierror.Error

	if e.EntityID == "" {
		result = multierror.Append(result, ErrMissingEntityID)
	}
	if e.EventType == "" {
		result = multierror.Append(result, ErrMissingEventType)
	}
	if !e.EventDate.IsValid() {
		result = multierror.Append(result, fmt.Errorf("%w: %q", ErrInvalidEventDate, e.EventDate.String()))
	}
	if e.Measure.Valid && e.Measure.Decimal.IsNegative() {
		result = multierror.Append(result, fmt.Errorf("%w: %s", ErrNegativeMeasure, e.Measure.Decimal.String()))
	}

	return result.ErrorOrNil()
}
