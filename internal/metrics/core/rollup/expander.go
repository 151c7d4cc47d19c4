package rollup

import (
	"sort"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/core/domain"

	"github.com/shopspring/decimal"
)

// CellTable is the entity x period cross product, stored entity-major so that
// the cells of one entity are contiguous and in ascending period order.
type CellTable struct {
	Grid     domain.CalendarGrid
	Entities []string
	Cells    []domain.EntityPeriodCell

	index map[string]int
}

// Expand builds one zero-filled cell for every (entity, period) pair.
// Duplicate entity ids (exact, case-sensitive) are collapsed, keeping the
// order of first appearance.
func Expand(entityIDs []string, grid domain.CalendarGrid) *CellTable {
	entities := Distinct(entityIDs)
	index := make(map[string]int, len(entities))
	for i, id := range entities {
		index[id] = i
	}

	periods := grid.Len()
	cells := make([]domain.EntityPeriodCell, 0, len(entities)*periods)
	for _, id := range entities {
		for _, b := range grid.Boundaries {
			cells = append(cells, domain.EntityPeriodCell{
				EntityID:    id,
				PeriodStart: b.Start,
				RawMeasure:  decimal.Zero,
			})
		}
	}

	return &CellTable{
		Grid:     grid,
		Entities: entities,
		Cells:    cells,
		index:    index,
	}
}

// Cell returns the cell for the entity at position e and the period at
// position p.
func (t *CellTable) Cell(e, p int) *domain.EntityPeriodCell {
	return &t.Cells[e*t.Grid.Len()+p]
}

// Row returns all cells of the entity at position e, oldest first.
func (t *CellTable) Row(e int) []domain.EntityPeriodCell {
	n := t.Grid.Len()
	return t.Cells[e*n : (e+1)*n]
}

func (t *CellTable) EntityIndex(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Distinct drops repeated ids, keeping the first occurrence of each.
func Distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// EntitiesOf returns the distinct entity ids in events, sorted so that
// repeated runs over the same input produce the same layout.
func EntitiesOf(events []eventsDomain.RawEvent) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range events {
		if _, ok := seen[e.EntityID]; ok {
			continue
		}
		seen[e.EntityID] = struct{}{}
		out = append(out, e.EntityID)
	}
	sort.Strings(out)
	return out
}

// EntityNames maps entity id to the last non-empty name seen for it.
func EntityNames(events []eventsDomain.RawEvent) map[string]string {
	names := make(map[string]string)
	for _, e := range events {
		if e.EntityName != "" {
			names[e.EntityID] = e.EntityName
		}
	}
	return names
}
