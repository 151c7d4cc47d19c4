package rollup

import (
	"sort"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/core/domain"

	"cloud.google.com/go/civil"
)

// JourneyTenantActivity classifies journey creators and runners per period of
// the grid built from req. An entity is first-time in the period holding its
// earliest create_journey event and additional in every later period where it
// creates one. The earliest event may predate the grid, so callers pass the
// entity's full journey history up to the end of the grid. Periods are in
// grid order; tenant lists are sorted by name, then id.
func JourneyTenantActivity(req Request, events []eventsDomain.RawEvent) ([]domain.JourneyTenantPeriod, error) {
	grid, err := BuildCalendar(req.Period, req.AsOf, req.Count)
	if err != nil {
		return nil, err
	}
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}

	var allowed map[string]struct{}
	if len(req.Entities) > 0 {
		allowed = make(map[string]struct{}, len(req.Entities))
		for _, id := range req.Entities {
			allowed[id] = struct{}{}
		}
	}
	keep := func(ev eventsDomain.RawEvent) bool {
		if ev.EventDate.After(grid.Last()) {
			return false
		}
		if allowed == nil {
			return true
		}
		_, ok := allowed[ev.EntityID]
		return ok
	}

	firstCreate := make(map[string]civil.Date)
	for _, ev := range events {
		if ev.EventType != JourneyCreatedType || !keep(ev) {
			continue
		}
		if first, ok := firstCreate[ev.EntityID]; !ok || ev.EventDate.Before(first) {
			firstCreate[ev.EntityID] = ev.EventDate
		}
	}

	n := grid.Len()
	creators := make([]map[string]struct{}, n)
	runs := make([]map[string]int64, n)
	for p := range creators {
		creators[p] = make(map[string]struct{})
		runs[p] = make(map[string]int64)
	}

	for _, ev := range events {
		if !keep(ev) {
			continue
		}
		p, ok := grid.IndexOf(ev.EventDate)
		if !ok {
			continue
		}
		switch ev.EventType {
		case JourneyCreatedType:
			creators[p][ev.EntityID] = struct{}{}
		case JourneyRunType:
			runs[p][ev.EntityID]++
		}
	}

	names := EntityNames(events)
	tenant := func(id string, p int) domain.JourneyTenant {
		return domain.JourneyTenant{EntityID: id, EntityName: names[id], Runs: runs[p][id]}
	}

	out := make([]domain.JourneyTenantPeriod, n)
	for p, b := range grid.Boundaries {
		period := domain.JourneyTenantPeriod{PeriodStart: b.Start, PeriodEnd: b.End}

		for id := range creators[p] {
			first := firstCreate[id]
			if first.Before(b.Start) {
				period.Additional = append(period.Additional, tenant(id, p))
			} else {
				period.FirstTime = append(period.FirstTime, tenant(id, p))
			}
		}
		for id, count := range runs[p] {
			period.Running = append(period.Running, tenant(id, p))
			period.TotalRuns += count
		}

		sortTenants(period.FirstTime)
		sortTenants(period.Additional)
		sortTenants(period.Running)
		out[p] = period
	}

	return out, nil
}

func sortTenants(tenants []domain.JourneyTenant) {
	sort.Slice(tenants, func(i, j int) bool {
		if tenants[i].EntityName != tenants[j].EntityName {
			return tenants[i].EntityName < tenants[j].EntityName
		}
		return tenants[i].EntityID < tenants[j].EntityID
	})
}
