package fiber_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	httpadapter "activation-metrics-service/internal/metrics/adapters/http/fiber"
	"activation-metrics-service/internal/metrics/core/domain"
	"activation-metrics-service/internal/metrics/core/usecase"

	"cloud.google.com/go/civil"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Fake usecase implementing the interface that handler depends on.
type fakeReportUseCase struct {
	ExecuteFn       func(ctx context.Context, in usecase.GetReportInput) (*domain.Report, error)
	RunningTotalsFn func(ctx context.Context, in usecase.RunningTotalsInput) ([]domain.EntityRunningTotal, error)
	JourneyFn       func(ctx context.Context, in usecase.GetReportInput) ([]domain.JourneyTenantPeriod, error)
	lastInput       usecase.GetReportInput
	lastTotalsInput usecase.RunningTotalsInput
	called          bool
}

func (f *fakeReportUseCase) Execute(ctx context.Context, in usecase.GetReportInput) (*domain.Report, error) {
	f.called = true
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return &domain.Report{}, nil
}

func (f *fakeReportUseCase) EntityRunningTotals(ctx context.Context, in usecase.RunningTotalsInput) ([]domain.EntityRunningTotal, error) {
	f.called = true
	f.lastTotalsInput = in
	if f.RunningTotalsFn != nil {
		return f.RunningTotalsFn(ctx, in)
	}
	return nil, nil
}

func (f *fakeReportUseCase) JourneyTenantActivity(ctx context.Context, in usecase.GetReportInput) ([]domain.JourneyTenantPeriod, error) {
	f.called = true
	f.lastInput = in
	if f.JourneyFn != nil {
		return f.JourneyFn(ctx, in)
	}
	return nil, nil
}

func setupApp(t *testing.T, uc httpadapter.ReportUseCase) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := httpadapter.NewMetricsHandler(uc)
	app.Get("/metrics/report", h.GetReport)
	app.Get("/metrics/running-totals", h.GetRunningTotals)
	app.Get("/metrics/journey-tenants", h.GetJourneyTenants)
	return app
}

func get(t *testing.T, app *fiber.App, path string, params url.Values) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path+"?"+params.Encode(), nil)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()
	return resp, body
}

var jan14 = civil.Date{Year: 2024, Month: time.January, Day: 14}

// ------------------------------------------------------------
// REPORT: SUCCESS
// ------------------------------------------------------------

func TestGetReport_Success(t *testing.T) {
	uc := &fakeReportUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetReportInput) (*domain.Report, error) {
			return &domain.Report{
				AsOf:     in.AsOf,
				Period:   in.Period,
				Entities: 1,
				Rows: []domain.MetricRow{
					{MetricName: "Journeys", PeriodEnd: jan14, Value: "1", SortOrder: 10},
				},
				Tiles: []domain.Tile{
					{MetricName: "Journeys", PeriodEnd: jan14, Value: "1", Trend: "→", Delta: "0.0%", SortOrder: 10},
					{MetricName: "Amps - Delta", PeriodEnd: jan14, Value: "25.0%", Trend: "▲", SortOrder: 41},
				},
			}, nil
		},
	}

	app := setupApp(t, uc)

	params := url.Values{}
	params.Set("as_of", "2024-01-14")
	params.Set("period", "week")
	params.Set("count", "2")
	params.Set("entities", "T1, T2,,")
	params.Set("query_id", "raw_events")

	resp, body := get(t, app, "/metrics/report", params)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", resp.StatusCode, body)
	}

	in := uc.lastInput
	if in.AsOf != jan14 || in.Period != domain.PeriodWeek || in.Count != 2 || in.QueryID != "raw_events" {
		t.Fatalf("unexpected input: %+v", in)
	}
	if len(in.Entities) != 2 || in.Entities[0] != "T1" || in.Entities[1] != "T2" {
		t.Fatalf("unexpected entities: %v", in.Entities)
	}

	var out httpadapter.ReportResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if out.AsOf != "2024-01-14" || out.Period != "week" {
		t.Fatalf("unexpected header fields: %+v", out)
	}
	if len(out.Rows) != 1 || out.Rows[0].PeriodEnd != "2024-01-14" || out.Rows[0].Value != "1" {
		t.Fatalf("unexpected rows: %+v", out.Rows)
	}
	if len(out.Tiles) != 2 || out.Tiles[0].Trend != "→" || out.Tiles[0].Delta != "0.0%" {
		t.Fatalf("unexpected tiles: %+v", out.Tiles)
	}

	var raw struct {
		Tiles []map[string]any `json:"tiles"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if _, ok := raw.Tiles[1]["delta"]; ok {
		t.Fatalf("expected no delta on a delta metric tile, got %v", raw.Tiles[1])
	}
}

func TestGetReport_Defaults(t *testing.T) {
	uc := &fakeReportUseCase{}
	app := setupApp(t, uc)

	resp, _ := get(t, app, "/metrics/report", url.Values{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !uc.lastInput.AsOf.IsZero() || uc.lastInput.Count != 0 || uc.lastInput.Period != domain.PeriodWeek {
		t.Fatalf("expected defaults to be left to the use case, got %+v", uc.lastInput)
	}
}

// ------------------------------------------------------------
// REPORT: BAD PARAMETERS
// ------------------------------------------------------------

func TestGetReport_InvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad as_of", "as_of", "14/01/2024"},
		{"bad period", "period", "fortnight"},
		{"zero count", "count", "0"},
		{"non numeric count", "count", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeReportUseCase{}
			app := setupApp(t, uc)

			params := url.Values{}
			params.Set(tt.key, tt.value)

			resp, _ := get(t, app, "/metrics/report", params)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", resp.StatusCode)
			}
			if uc.called {
				t.Fatalf("usecase should not be called on invalid params")
			}
		})
	}
}

// ------------------------------------------------------------
// REPORT: ERROR MAPPING
// ------------------------------------------------------------

func TestGetReport_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid range", &domain.InvalidRangeError{Reason: "count too large"}, http.StatusBadRequest, "invalid_query"},
		{"unknown query", domain.ErrUnknownQuery, http.StatusBadRequest, "invalid_query"},
		{"schema mismatch", &domain.SchemaMismatchError{Source: "postgres", Err: errors.New("bad row")}, http.StatusBadGateway, "schema_mismatch"},
		{"source unavailable", &domain.SourceUnavailableError{Source: "snowflake", Err: errors.New("timeout")}, http.StatusServiceUnavailable, "source_unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeReportUseCase{
				ExecuteFn: func(ctx context.Context, in usecase.GetReportInput) (*domain.Report, error) {
					return nil, tt.err
				},
			}
			app := setupApp(t, uc)

			resp, body := get(t, app, "/metrics/report", url.Values{})
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}

			var out httpadapter.ErrorResponse
			if err := json.Unmarshal(body, &out); err != nil {
				t.Fatalf("invalid json response: %v", err)
			}
			if out.Error != tt.wantCode {
				t.Fatalf("expected error code %s, got %s", tt.wantCode, out.Error)
			}
		})
	}
}

// ------------------------------------------------------------
// RUNNING TOTALS
// ------------------------------------------------------------

func TestGetRunningTotals_Success(t *testing.T) {
	uc := &fakeReportUseCase{
		RunningTotalsFn: func(ctx context.Context, in usecase.RunningTotalsInput) ([]domain.EntityRunningTotal, error) {
			return []domain.EntityRunningTotal{
				{EntityID: "T1", EntityName: "Acme", PeriodEnd: jan14, PeriodValue: decimal.NewFromInt(2), CumulativeValue: decimal.NewFromInt(5)},
			}, nil
		},
	}
	app := setupApp(t, uc)

	params := url.Values{}
	params.Set("event_type", "campaign_send,segment_send")
	params.Set("measure", "sum")

	resp, body := get(t, app, "/metrics/running-totals", params)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", resp.StatusCode, body)
	}
	if len(uc.lastTotalsInput.EventTypes) != 2 || uc.lastTotalsInput.Measure != "sum" {
		t.Fatalf("unexpected input: %+v", uc.lastTotalsInput)
	}

	var out httpadapter.RunningTotalsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(out.Rows) != 1 || out.Rows[0].CumulativeValue != "5" || out.Rows[0].EntityName != "Acme" {
		t.Fatalf("unexpected rows: %+v", out.Rows)
	}
}

func TestGetRunningTotals_RequiresEventType(t *testing.T) {
	uc := &fakeReportUseCase{}
	app := setupApp(t, uc)

	resp, _ := get(t, app, "/metrics/running-totals", url.Values{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if uc.called {
		t.Fatalf("usecase should not be called without event_type")
	}
}

func TestGetRunningTotals_UnknownMeasure(t *testing.T) {
	uc := &fakeReportUseCase{
		RunningTotalsFn: func(ctx context.Context, in usecase.RunningTotalsInput) ([]domain.EntityRunningTotal, error) {
			return nil, usecase.ErrUnknownMeasure
		},
	}
	app := setupApp(t, uc)

	params := url.Values{}
	params.Set("event_type", "amps")
	params.Set("measure", "median")

	resp, _ := get(t, app, "/metrics/running-totals", params)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
}

// ------------------------------------------------------------
// JOURNEY TENANTS
// ------------------------------------------------------------

func TestGetJourneyTenants_NewestFirst(t *testing.T) {
	jan1 := civil.Date{Year: 2024, Month: time.January, Day: 1}
	jan7 := civil.Date{Year: 2024, Month: time.January, Day: 7}
	jan8 := civil.Date{Year: 2024, Month: time.January, Day: 8}

	uc := &fakeReportUseCase{
		JourneyFn: func(ctx context.Context, in usecase.GetReportInput) ([]domain.JourneyTenantPeriod, error) {
			return []domain.JourneyTenantPeriod{
				{PeriodStart: jan1, PeriodEnd: jan7, FirstTime: []domain.JourneyTenant{{EntityID: "T1", EntityName: "Acme"}}},
				{
					PeriodStart: jan8,
					PeriodEnd:   jan14,
					Additional:  []domain.JourneyTenant{{EntityID: "T1", EntityName: "Acme", Runs: 2}},
					Running:     []domain.JourneyTenant{{EntityID: "T1", EntityName: "Acme", Runs: 2}},
					TotalRuns:   2,
				},
			}, nil
		},
	}
	app := setupApp(t, uc)

	params := url.Values{}
	params.Set("count", "2")
	params.Set("entities", "T1")

	resp, body := get(t, app, "/metrics/journey-tenants", params)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d (body: %s)", resp.StatusCode, body)
	}
	if uc.lastInput.Count != 2 || len(uc.lastInput.Entities) != 1 {
		t.Fatalf("unexpected input: %+v", uc.lastInput)
	}

	var out httpadapter.JourneyTenantsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(out.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(out.Periods))
	}
	newest := out.Periods[0]
	if newest.PeriodEnd != "2024-01-14" || newest.TotalRuns != 2 {
		t.Fatalf("expected newest period first, got %+v", newest)
	}
	if len(newest.Running) != 1 || newest.Running[0].Runs != 2 || newest.FirstTime == nil {
		t.Fatalf("unexpected tenant lists: %+v", newest)
	}
	if out.Periods[1].FirstTime[0].EntityName != "Acme" {
		t.Fatalf("unexpected oldest period: %+v", out.Periods[1])
	}
}

func TestGetJourneyTenants_Errors(t *testing.T) {
	uc := &fakeReportUseCase{}
	app := setupApp(t, uc)

	params := url.Values{}
	params.Set("count", "-1")
	resp, _ := get(t, app, "/metrics/journey-tenants", params)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if uc.called {
		t.Fatalf("usecase should not be called on invalid input")
	}

	uc.JourneyFn = func(ctx context.Context, in usecase.GetReportInput) ([]domain.JourneyTenantPeriod, error) {
		return nil, &domain.SourceUnavailableError{Source: "fake", Err: errors.New("down")}
	}
	resp, _ = get(t, app, "/metrics/journey-tenants", url.Values{})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.StatusCode)
	}
}
