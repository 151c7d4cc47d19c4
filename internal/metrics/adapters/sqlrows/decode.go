// Package sqlrows decodes raw event rows from any database/sql driver into
// RawEvent values and checks the result set has the expected shape.
package sqlrows

import (
	"fmt"
	"strings"
	"time"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/core/domain"

	"cloud.google.com/go/civil"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

// Columns is the select list every source must return, in order.
var Columns = []string{"event_id", "entity_id", "entity_name", "event_date", "event_type", "measure"}

// SelectList renders Columns for a SELECT clause.
func SelectList() string {
	return strings.Join(Columns, ", ")
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() ([]string, error)
}

// CheckColumns compares got with Columns ignoring case, since warehouses
// report identifiers upper-cased.
func CheckColumns(source string, got []string) error {
	if len(got) != len(Columns) {
		return &domain.SchemaMismatchError{
			Source: source,
			Err:    fmt.Errorf("expected %d columns %v, got %d %v", len(Columns), Columns, len(got), got),
		}
	}
	var result *multierror.Error
	for i, want := range Columns {
		if !strings.EqualFold(got[i], want) {
			result = multierror.Append(result, fmt.Errorf("column %d: expected %q, got %q", i, want, got[i]))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return &domain.SchemaMismatchError{Source: source, Err: err}
	}
	return nil
}

// Decode drains rows. Scan and conversion failures are schema mismatches;
// iteration failures are reported as the source being unavailable. Rows are
// always closed.
func Decode(source string, rows Rows) ([]eventsDomain.RawEvent, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &domain.SourceUnavailableError{Source: source, Err: err}
	}
	if err := CheckColumns(source, cols); err != nil {
		return nil, err
	}

	var events []eventsDomain.RawEvent
	for i := 0; rows.Next(); i++ {
		var (
			eventID    *string
			entityID   string
			entityName *string
			eventDate  any
			eventType  string
			measure    decimal.NullDecimal
		)
		if err := rows.Scan(&eventID, &entityID, &entityName, &eventDate, &eventType, &measure); err != nil {
			return nil, &domain.SchemaMismatchError{Source: source, Err: fmt.Errorf("row %d: %w", i, err)}
		}

		date, err := toDate(eventDate)
		if err != nil {
			return nil, &domain.SchemaMismatchError{Source: source, Err: fmt.Errorf("row %d: %w", i, err)}
		}

		ev := eventsDomain.RawEvent{
			EntityID:  entityID,
			EventDate: date,
			EventType: eventType,
			Measure:   measure,
		}
		if eventID != nil {
			ev.EventID = *eventID
		}
		if entityName != nil {
			ev.EntityName = *entityName
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, &domain.SourceUnavailableError{Source: source, Err: err}
	}

	return events, nil
}

func toDate(v any) (civil.Date, error) {
	switch d := v.(type) {
	case time.Time:
		return civil.DateOf(d), nil
	case string:
		return civil.ParseDate(d)
	case []byte:
		return civil.ParseDate(string(d))
	case nil:
		return civil.Date{}, fmt.Errorf("event_date is null")
	default:
		return civil.Date{}, fmt.Errorf("event_date has unsupported type %T", v)
	}
}
