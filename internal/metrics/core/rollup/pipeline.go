package rollup

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/core/domain"

	"cloud.google.com/go/civil"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"
)

// Request describes one report. AsOf is the caller's notion of "today";
// nothing in this package reads the wall clock.
type Request struct {
	Period   domain.Period
	AsOf     civil.Date
	Count    int
	Entities []string
	Workers  int
}

func (r Request) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// ValidateEvents rejects the whole batch if any row is malformed, listing
// every offending row.
func ValidateEvents(events []eventsDomain.RawEvent) error {
	var result *multierror.Error
	for i, ev := range events {
		if err := ev.Validate(); err != nil {
			result = multierror.Append(result, fmt.Errorf("row %d: %w", i, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return &domain.SchemaMismatchError{Source: "raw events", Err: err}
	}
	return nil
}

// Run turns raw events into the ordered metric rows of a report.
func Run(req Request, events []eventsDomain.RawEvent, catalog Catalog) (*domain.Report, error) {
	grid, err := BuildCalendar(req.Period, req.AsOf, req.Count)
	if err != nil {
		return nil, err
	}
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}
	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metric catalog: %w", err)
	}

	b, err := newSeriesBuilder(req, grid, events)
	if err != nil {
		return nil, err
	}

	ordered := catalog.Sorted()
	series := make(map[string][]decimal.NullDecimal, len(ordered))

	// Ratios read plain metrics and deltas may read ratios.
	for _, def := range ordered {
		if def.Kind.Derived() {
			continue
		}
		values, err := b.series(def)
		if err != nil {
			return nil, err
		}
		series[def.Name] = values
	}
	for _, def := range ordered {
		if def.Kind == KindRatio {
			series[def.Name] = ratioSeries(series[def.Base], series[def.Denominator])
		}
	}
	for _, def := range ordered {
		if def.Kind == KindPeriodDelta {
			series[def.Name] = deltaSeries(series[def.Base])
		}
	}

	report := &domain.Report{
		AsOf:     req.AsOf,
		Period:   req.Period,
		Grid:     grid,
		Entities: len(b.entities),
		Rows:     Assemble(ordered, grid, series),
		Tiles:    Tiles(ordered, grid, series),
		Warnings: b.warnings(),
	}

	return report, nil
}

// Assemble flattens the series into rows ordered by sort order, metric name
// and period end. ordered must already be sorted.
func Assemble(ordered Catalog, grid domain.CalendarGrid, series map[string][]decimal.NullDecimal) []domain.MetricRow {
	rows := make([]domain.MetricRow, 0, len(ordered)*grid.Len())
	for _, def := range ordered {
		values := series[def.Name]
		for i, boundary := range grid.Boundaries {
			rows = append(rows, domain.MetricRow{
				MetricName: def.Name,
				PeriodEnd:  boundary.End,
				Value:      def.Format.Format(values[i]),
				SortOrder:  def.SortOrder,
			})
		}
	}
	return rows
}

// Tiles summarizes the newest period of every metric against the one before.
// Delta uses PeriodDelta's inverted sign and is left empty for metrics that
// are already deltas.
func Tiles(ordered Catalog, grid domain.CalendarGrid, series map[string][]decimal.NullDecimal) []domain.Tile {
	last := grid.Len() - 1
	if last < 0 {
		return nil
	}

	tiles := make([]domain.Tile, 0, len(ordered))
	for _, def := range ordered {
		values := series[def.Name]
		current := values[last]
		var previous decimal.NullDecimal
		if last > 0 {
			previous = values[last-1]
		}
		var delta string
		if def.Kind != KindPeriodDelta {
			delta = FormatPercent.Format(PeriodDelta(previous, current))
		}
		tiles = append(tiles, domain.Tile{
			MetricName: def.Name,
			PeriodEnd:  grid.Boundaries[last].End,
			Value:      def.Format.Format(current),
			Trend:      Trend(previous, current),
			Delta:      delta,
			SortOrder:  def.SortOrder,
		})
	}
	return tiles
}

func ratioSeries(numerator, denominator []decimal.NullDecimal) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(numerator))
	for i := range numerator {
		out[i] = Ratio(numerator[i], denominator[i])
	}
	return out
}

func deltaSeries(base []decimal.NullDecimal) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(base))
	var previous decimal.NullDecimal
	for i, current := range base {
		out[i] = PeriodDelta(previous, current)
		previous = current
	}
	return out
}

// EntityRunningTotals returns, per entity and period, the period value and
// the running total for the events matching eventTypes.
func EntityRunningTotals(req Request, events []eventsDomain.RawEvent, eventTypes []string, m domain.Measure) ([]domain.EntityRunningTotal, error) {
	if len(eventTypes) == 0 {
		return nil, &domain.InvalidRangeError{Reason: "at least one event type is required"}
	}
	grid, err := BuildCalendar(req.Period, req.AsOf, req.Count)
	if err != nil {
		return nil, err
	}
	if err := ValidateEvents(events); err != nil {
		return nil, err
	}

	b, err := newSeriesBuilder(req, grid, events)
	if err != nil {
		return nil, err
	}
	v := b.view(eventTypes)
	running, err := b.runningTotals(v, m)
	if err != nil {
		return nil, err
	}

	names := EntityNames(events)
	n := grid.Len()
	out := make([]domain.EntityRunningTotal, 0, len(running))
	for e, id := range v.report.Entities {
		for p, boundary := range grid.Boundaries {
			out = append(out, domain.EntityRunningTotal{
				EntityID:        id,
				EntityName:      names[id],
				PeriodEnd:       boundary.End,
				PeriodValue:     v.report.Cell(e, p).Value(m),
				CumulativeValue: running[e*n+p].CumulativeValue,
			})
		}
	}
	return out, nil
}

// factView holds the aggregated cells for one event type selector at both
// the report granularity and the daily granularity.
type factView struct {
	report  *CellTable
	daily   *CellTable
	running map[domain.Measure][]domain.RunningTotal
}

type seriesBuilder struct {
	grid     domain.CalendarGrid
	daily    domain.CalendarGrid
	entities []string
	events   []eventsDomain.RawEvent
	workers  int
	views    map[string]*factView
	// included counts events that landed in a cell of any view.
	included int
}

func newSeriesBuilder(req Request, grid domain.CalendarGrid, events []eventsDomain.RawEvent) (*seriesBuilder, error) {
	daily, err := DailyGrid(grid)
	if err != nil {
		return nil, err
	}

	entities := Distinct(req.Entities)
	if len(entities) == 0 {
		entities = EntitiesOf(events)
	}

	return &seriesBuilder{
		grid:     grid,
		daily:    daily,
		entities: entities,
		events:   events,
		workers:  req.workers(),
		views:    make(map[string]*factView),
	}, nil
}

func selectorKey(eventTypes []string) string {
	sorted := append([]string(nil), eventTypes...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

func (b *seriesBuilder) view(eventTypes []string) *factView {
	key := selectorKey(eventTypes)
	if v, ok := b.views[key]; ok {
		return v
	}

	wanted := make(map[string]struct{}, len(eventTypes))
	for _, t := range eventTypes {
		wanted[t] = struct{}{}
	}
	selected := make([]eventsDomain.RawEvent, 0)
	for _, ev := range b.events {
		if _, ok := wanted[ev.EventType]; ok {
			selected = append(selected, ev)
		}
	}

	v := &factView{
		report:  Expand(b.entities, b.grid),
		daily:   Expand(b.entities, b.daily),
		running: make(map[domain.Measure][]domain.RunningTotal),
	}
	Aggregate(v.report, selected)
	stats := Aggregate(v.daily, selected)
	b.included += stats.Included

	b.views[key] = v
	return v
}

func (b *seriesBuilder) runningTotals(v *factView, m domain.Measure) ([]domain.RunningTotal, error) {
	if totals, ok := v.running[m]; ok {
		return totals, nil
	}
	daily, err := RunningTotals(v.daily, m, b.workers)
	if err != nil {
		return nil, err
	}
	totals, err := Downsample(daily, b.daily, b.grid)
	if err != nil {
		return nil, err
	}
	v.running[m] = totals
	return totals, nil
}

func (b *seriesBuilder) series(def MetricDefinition) ([]decimal.NullDecimal, error) {
	v := b.view(def.EventTypes)
	n := b.grid.Len()
	out := make([]decimal.NullDecimal, n)

	switch def.Kind {
	case KindPeriodTotal:
		for p := 0; p < n; p++ {
			sum := decimal.Zero
			for e := range v.report.Entities {
				sum = sum.Add(v.report.Cell(e, p).Value(def.Measure))
			}
			out[p] = decimal.NewNullDecimal(sum)
		}
	case KindActiveEntities:
		for p := 0; p < n; p++ {
			var active int64
			for e := range v.report.Entities {
				if v.report.Cell(e, p).RawCount > 0 {
					active++
				}
			}
			out[p] = decimal.NewNullDecimal(decimal.NewFromInt(active))
		}
	case KindRunningTotal:
		running, err := b.runningTotals(v, def.Measure)
		if err != nil {
			return nil, err
		}
		for p := 0; p < n; p++ {
			sum := decimal.Zero
			for e := range v.report.Entities {
				sum = sum.Add(running[e*n+p].CumulativeValue)
			}
			out[p] = decimal.NewNullDecimal(sum)
		}
	default:
		return nil, fmt.Errorf("metric %q: kind %d is not computed from cells", def.Name, def.Kind)
	}

	return out, nil
}

func (b *seriesBuilder) warnings() []domain.EmptyResultWarning {
	if len(b.entities) == 0 {
		return []domain.EmptyResultWarning{{Message: "no entities for the requested range"}}
	}
	if b.included > 0 {
		return nil
	}
	return []domain.EmptyResultWarning{{Message: "no events in the requested range"}}
}
