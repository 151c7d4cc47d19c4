package rollup

import (
	"time"

	eventsDomain "activation-metrics-service/internal/events/core/domain"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func event(entity string, date civil.Date, eventType string) eventsDomain.RawEvent {
	return eventsDomain.RawEvent{
		EntityID:   entity,
		EntityName: entity + " Inc",
		EventDate:  date,
		EventType:  eventType,
	}
}

func measured(entity string, date civil.Date, eventType string, measure int64) eventsDomain.RawEvent {
	ev := event(entity, date, eventType)
	ev.Measure = decimal.NewNullDecimal(decimal.NewFromInt(measure))
	return ev
}

func nd(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}
