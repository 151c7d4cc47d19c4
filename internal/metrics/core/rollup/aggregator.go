package rollup

import (
	eventsDomain "activation-metrics-service/internal/events/core/domain"
)

// AggregateStats counts what happened to each input event.
type AggregateStats struct {
	Included      int
	OutOfRange    int
	UnknownEntity int
}

// Aggregate folds events into the table: count +1 and measure += value for
// the cell keyed by (entity, period containing the event date). Events that
// land outside the grid or belong to an entity the table does not know are
// skipped, which matches windowed reporting.
func Aggregate(t *CellTable, events []eventsDomain.RawEvent) AggregateStats {
	var stats AggregateStats

	for _, ev := range events {
		p, ok := t.Grid.IndexOf(ev.EventDate)
		if !ok {
			stats.OutOfRange++
			continue
		}
		e, ok := t.EntityIndex(ev.EntityID)
		if !ok {
			stats.UnknownEntity++
			continue
		}

		cell := t.Cell(e, p)
		cell.RawCount++
		cell.RawMeasure = cell.RawMeasure.Add(ev.MeasureOrZero())
		stats.Included++
	}

	return stats
}
