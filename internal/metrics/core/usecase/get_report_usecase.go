package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"activation-metrics-service/internal/metrics/core/domain"
	"activation-metrics-service/internal/metrics/core/ports"
	"activation-metrics-service/internal/metrics/core/rollup"
	"activation-metrics-service/internal/platform/observability"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidReportQuery = errors.New("invalid report query")
	ErrUnknownMeasure     = errors.New("unknown measure")
)

const (
	DefaultCount = 12
	MaxCount     = 366
)

type Options struct {
	DefaultCount int
	MaxCount     int
	Workers      int
	Now          func() time.Time
}

type GetReportInput struct {
	QueryID  string
	Period   domain.Period // zero means weekly
	AsOf     civil.Date    // zero means today
	Count    int           // zero means Options.DefaultCount
	Entities []string
}

type RunningTotalsInput struct {
	GetReportInput
	EventTypes []string
	Measure    string // "count" (default) or "sum"
}

type GetReportUseCase struct {
	source  ports.RawEventSource
	catalog rollup.Catalog
	log     zerolog.Logger
	opts    Options
}

func NewGetReportUseCase(source ports.RawEventSource, catalog rollup.Catalog, log zerolog.Logger, opts Options) *GetReportUseCase {
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = DefaultCount
	}
	if opts.MaxCount <= 0 {
		opts.MaxCount = MaxCount
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &GetReportUseCase{
		source:  source,
		catalog: catalog,
		log:     log.With().Str("component", "report").Logger(),
		opts:    opts,
	}
}

// Execute fetches the events covering the requested grid and runs the rollup
// pipeline over them.
func (uc *GetReportUseCase) Execute(ctx context.Context, in GetReportInput) (*domain.Report, error) {
	start := time.Now()

	req, params, err := uc.prepare(in, uc.catalog.EventTypes())
	if err != nil {
		observability.ObserveReport(err, start)
		return nil, err
	}

	events, err := uc.source.FetchRawEvents(ctx, params)
	if err != nil {
		uc.log.Error().Err(err).Str("query_id", params.QueryID).Msg("fetch raw events failed")
		observability.ObserveReport(err, start)
		return nil, err
	}

	report, err := rollup.Run(req, events, uc.catalog)
	if err != nil {
		uc.log.Error().Err(err).Str("query_id", params.QueryID).Int("events", len(events)).Msg("rollup failed")
		observability.ObserveReport(err, start)
		return nil, err
	}

	evt := uc.log.Info()
	if len(report.Warnings) > 0 {
		evt = uc.log.Warn().Str("warning", report.Warnings[0].Message)
	}
	evt.Str("query_id", params.QueryID).
		Str("period", req.Period.String()).
		Str("as_of", req.AsOf.String()).
		Int("count", req.Count).
		Int("events", len(events)).
		Int("entities", report.Entities).
		Int("rows", len(report.Rows)).
		Dur("duration", time.Since(start)).
		Msg("report built")
	observability.ObserveReport(nil, start)

	return report, nil
}

// EntityRunningTotals returns per-entity running totals for the events
// matching in.EventTypes.
func (uc *GetReportUseCase) EntityRunningTotals(ctx context.Context, in RunningTotalsInput) ([]domain.EntityRunningTotal, error) {
	if len(in.EventTypes) == 0 {
		return nil, fmt.Errorf("%w: event_type is required", ErrInvalidReportQuery)
	}

	var m domain.Measure
	switch strings.ToLower(in.Measure) {
	case "", "count":
		m = domain.MeasureCount
	case "sum":
		m = domain.MeasureSum
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMeasure, in.Measure)
	}

	req, params, err := uc.prepare(in.GetReportInput, in.EventTypes)
	if err != nil {
		return nil, err
	}

	events, err := uc.source.FetchRawEvents(ctx, params)
	if err != nil {
		uc.log.Error().Err(err).Str("query_id", params.QueryID).Msg("fetch raw events failed")
		return nil, err
	}

	return rollup.EntityRunningTotals(req, events, in.EventTypes, m)
}

// JourneyTenantActivity lists first-time and additional journey creators and
// journey runners per period. The fetch has no lower bound so that an
// entity's first journey is found even when it predates the grid.
func (uc *GetReportUseCase) JourneyTenantActivity(ctx context.Context, in GetReportInput) ([]domain.JourneyTenantPeriod, error) {
	req, params, err := uc.prepare(in, []string{rollup.JourneyCreatedType, rollup.JourneyRunType})
	if err != nil {
		return nil, err
	}
	params.From = civil.Date{}

	events, err := uc.source.FetchRawEvents(ctx, params)
	if err != nil {
		uc.log.Error().Err(err).Str("query_id", params.QueryID).Msg("fetch raw events failed")
		return nil, err
	}

	periods, err := rollup.JourneyTenantActivity(req, events)
	if err != nil {
		uc.log.Error().Err(err).Str("query_id", params.QueryID).Int("events", len(events)).Msg("journey tenant activity failed")
		return nil, err
	}
	return periods, nil
}

func (uc *GetReportUseCase) prepare(in GetReportInput, eventTypes []string) (rollup.Request, ports.FetchParams, error) {
	req := rollup.Request{
		Period:   in.Period,
		AsOf:     in.AsOf,
		Count:    in.Count,
		Entities: in.Entities,
		Workers:  uc.opts.Workers,
	}
	if req.Period == 0 {
		req.Period = domain.PeriodWeek
	}
	if req.AsOf.IsZero() {
		req.AsOf = civil.DateOf(uc.opts.Now())
	}
	if req.Count == 0 {
		req.Count = uc.opts.DefaultCount
	}
	if req.Count > uc.opts.MaxCount {
		return rollup.Request{}, ports.FetchParams{}, &domain.InvalidRangeError{
			Reason: fmt.Sprintf("count %d exceeds the maximum of %d", req.Count, uc.opts.MaxCount),
		}
	}

	grid, err := rollup.BuildCalendar(req.Period, req.AsOf, req.Count)
	if err != nil {
		return rollup.Request{}, ports.FetchParams{}, err
	}

	queryID := in.QueryID
	if queryID == "" {
		queryID = ports.DefaultQueryID
	}

	params := ports.FetchParams{
		QueryID:    queryID,
		From:       grid.First(),
		To:         grid.Last(),
		EntityIDs:  rollup.Distinct(in.Entities),
		EventTypes: eventTypes,
	}
	return req, params, nil
}
