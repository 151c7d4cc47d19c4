package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/core/domain"
	"activation-metrics-service/internal/metrics/core/ports"
	"activation-metrics-service/internal/metrics/core/rollup"
	"activation-metrics-service/internal/metrics/core/usecase"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// fakeSource fakes RawEventSource for tests.
type fakeSource struct {
	FetchFn    func(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error)
	lastParams ports.FetchParams
	called     bool
}

func (f *fakeSource) FetchRawEvents(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
	f.called = true
	f.lastParams = p
	if f.FetchFn != nil {
		return f.FetchFn(ctx, p)
	}
	return nil, nil
}

// 2024-01-10 is a Wednesday.
func fixedNow() time.Time {
	return time.Date(2024, time.January, 10, 15, 30, 0, 0, time.UTC)
}

func newUseCase(src ports.RawEventSource) *usecase.GetReportUseCase {
	return usecase.NewGetReportUseCase(src, rollup.DefaultCatalog(), zerolog.Nop(), usecase.Options{
		DefaultCount: 2,
		MaxCount:     52,
		Workers:      2,
		Now:          fixedNow,
	})
}

func journey(entity string, d civil.Date) eventsDomain.RawEvent {
	return eventsDomain.RawEvent{EntityID: entity, EntityName: entity, EventDate: d, EventType: "create_journey"}
}

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestGetReport_Success_Defaults(t *testing.T) {
	src := &fakeSource{
		FetchFn: func(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
			return []eventsDomain.RawEvent{
				journey("T1", civil.Date{Year: 2024, Month: time.January, Day: 3}),
				journey("T1", civil.Date{Year: 2024, Month: time.January, Day: 10}),
			}, nil
		},
	}

	report, err := newUseCase(src).Execute(context.Background(), usecase.GetReportInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !src.called {
		t.Fatalf("expected FetchRawEvents to be called")
	}
	if src.lastParams.QueryID != ports.DefaultQueryID {
		t.Fatalf("expected query id %s, got %s", ports.DefaultQueryID, src.lastParams.QueryID)
	}
	wantFrom := civil.Date{Year: 2024, Month: time.January, Day: 1}
	wantTo := civil.Date{Year: 2024, Month: time.January, Day: 14}
	if src.lastParams.From != wantFrom || src.lastParams.To != wantTo {
		t.Fatalf("expected range %s..%s, got %s..%s", wantFrom, wantTo, src.lastParams.From, src.lastParams.To)
	}
	if len(src.lastParams.EventTypes) == 0 {
		t.Fatalf("expected catalog event types to be pushed down")
	}

	if report.Period != domain.PeriodWeek {
		t.Fatalf("expected weekly report, got %s", report.Period)
	}
	if report.AsOf != (civil.Date{Year: 2024, Month: time.January, Day: 10}) {
		t.Fatalf("expected as_of from clock, got %s", report.AsOf)
	}

	var got []string
	for _, r := range report.Rows {
		if r.MetricName == "Total Journeys" {
			got = append(got, r.Value)
		}
	}
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("unexpected Total Journeys values: %v", got)
	}
}

func TestGetReport_Success_ExplicitInput(t *testing.T) {
	src := &fakeSource{}

	in := usecase.GetReportInput{
		QueryID:  "warehouse_events",
		Period:   domain.PeriodDay,
		AsOf:     civil.Date{Year: 2024, Month: time.March, Day: 5},
		Count:    7,
		Entities: []string{"T1", "T2", "T1"},
	}

	report, err := newUseCase(src).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.lastParams.QueryID != "warehouse_events" {
		t.Fatalf("expected query id to be forwarded, got %s", src.lastParams.QueryID)
	}
	if len(src.lastParams.EntityIDs) != 2 {
		t.Fatalf("expected deduplicated entity filter, got %v", src.lastParams.EntityIDs)
	}
	if src.lastParams.From != (civil.Date{Year: 2024, Month: time.February, Day: 28}) {
		t.Fatalf("unexpected from: %s", src.lastParams.From)
	}
	if report.Entities != 2 {
		t.Fatalf("expected 2 entities, got %d", report.Entities)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected empty-result warning, got %v", report.Warnings)
	}
}

// ------------------------------------------------------------
// VALIDATION
// ------------------------------------------------------------

func TestGetReport_CountAboveMax(t *testing.T) {
	src := &fakeSource{}

	out, err := newUseCase(src).Execute(context.Background(), usecase.GetReportInput{Count: 53})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil result on error")
	}
	if src.called {
		t.Fatalf("source should not be called on invalid input")
	}
}

func TestGetReport_NegativeCount(t *testing.T) {
	src := &fakeSource{}

	_, err := newUseCase(src).Execute(context.Background(), usecase.GetReportInput{Count: -1})
	if !errors.Is(err, domain.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if src.called {
		t.Fatalf("source should not be called on invalid input")
	}
}

// ------------------------------------------------------------
// SOURCE ERRORS
// ------------------------------------------------------------

func TestGetReport_SourceUnavailable(t *testing.T) {
	src := &fakeSource{
		FetchFn: func(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
			return nil, &domain.SourceUnavailableError{Source: "postgres", Err: errors.New("connection refused")}
		},
	}

	out, err := newUseCase(src).Execute(context.Background(), usecase.GetReportInput{})
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil result on error")
	}
}

func TestGetReport_SchemaMismatchFromRows(t *testing.T) {
	src := &fakeSource{
		FetchFn: func(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
			bad := journey("T1", civil.Date{Year: 2024, Month: time.January, Day: 3})
			bad.Measure = decimal.NewNullDecimal(decimal.NewFromInt(-1))
			return []eventsDomain.RawEvent{bad}, nil
		},
	}

	_, err := newUseCase(src).Execute(context.Background(), usecase.GetReportInput{})
	if !errors.Is(err, domain.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

// ------------------------------------------------------------
// RUNNING TOTALS
// ------------------------------------------------------------

func TestEntityRunningTotals_Success(t *testing.T) {
	src := &fakeSource{
		FetchFn: func(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
			if len(p.EventTypes) != 1 || p.EventTypes[0] != "create_journey" {
				t.Fatalf("expected event type filter create_journey, got %v", p.EventTypes)
			}
			return []eventsDomain.RawEvent{
				journey("T1", civil.Date{Year: 2024, Month: time.January, Day: 3}),
				journey("T1", civil.Date{Year: 2024, Month: time.January, Day: 9}),
			}, nil
		},
	}

	rows, err := newUseCase(src).EntityRunningTotals(context.Background(), usecase.RunningTotalsInput{
		EventTypes: []string{"create_journey"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[1].CumulativeValue.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected cumulative 2, got %s", rows[1].CumulativeValue)
	}
}

func TestEntityRunningTotals_Validation(t *testing.T) {
	src := &fakeSource{}
	uc := newUseCase(src)

	_, err := uc.EntityRunningTotals(context.Background(), usecase.RunningTotalsInput{})
	if !errors.Is(err, usecase.ErrInvalidReportQuery) {
		t.Fatalf("expected ErrInvalidReportQuery, got %v", err)
	}

	_, err = uc.EntityRunningTotals(context.Background(), usecase.RunningTotalsInput{
		EventTypes: []string{"amps"},
		Measure:    "median",
	})
	if !errors.Is(err, usecase.ErrUnknownMeasure) {
		t.Fatalf("expected ErrUnknownMeasure, got %v", err)
	}
	if src.called {
		t.Fatalf("source should not be called on invalid input")
	}
}

// ------------------------------------------------------------
// JOURNEY TENANTS
// ------------------------------------------------------------

func TestJourneyTenantActivity_FetchesFullHistory(t *testing.T) {
	src := &fakeSource{
		FetchFn: func(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
			return []eventsDomain.RawEvent{
				journey("T1", civil.Date{Year: 2023, Month: time.March, Day: 1}),
				journey("T1", civil.Date{Year: 2024, Month: time.January, Day: 9}),
				journey("T2", civil.Date{Year: 2024, Month: time.January, Day: 9}),
			}, nil
		},
	}

	periods, err := newUseCase(src).JourneyTenantActivity(context.Background(), usecase.GetReportInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !src.lastParams.From.IsZero() {
		t.Fatalf("expected no lower bound, got %s", src.lastParams.From)
	}
	if want := (civil.Date{Year: 2024, Month: time.January, Day: 14}); src.lastParams.To != want {
		t.Fatalf("expected upper bound %s, got %s", want, src.lastParams.To)
	}
	if len(src.lastParams.EventTypes) != 2 ||
		src.lastParams.EventTypes[0] != rollup.JourneyCreatedType ||
		src.lastParams.EventTypes[1] != rollup.JourneyRunType {
		t.Fatalf("unexpected event type filter: %v", src.lastParams.EventTypes)
	}

	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	last := periods[1]
	if len(last.FirstTime) != 1 || last.FirstTime[0].EntityID != "T2" {
		t.Fatalf("expected T2 first-time, got %+v", last.FirstTime)
	}
	if len(last.Additional) != 1 || last.Additional[0].EntityID != "T1" {
		t.Fatalf("expected T1 additional, got %+v", last.Additional)
	}
}

func TestJourneyTenantActivity_SourceUnavailable(t *testing.T) {
	src := &fakeSource{
		FetchFn: func(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
			return nil, &domain.SourceUnavailableError{Source: "fake", Err: errors.New("down")}
		},
	}

	_, err := newUseCase(src).JourneyTenantActivity(context.Background(), usecase.GetReportInput{})
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
