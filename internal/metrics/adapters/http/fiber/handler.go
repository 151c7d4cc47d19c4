package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"activation-metrics-service/internal/metrics/core/domain"
	"activation-metrics-service/internal/metrics/core/usecase"

	"cloud.google.com/go/civil"
	"github.com/gofiber/fiber/v2"
)

type ReportUseCase interface {
	Execute(ctx context.Context, in usecase.GetReportInput) (*domain.Report, error)
	EntityRunningTotals(ctx context.Context, in usecase.RunningTotalsInput) ([]domain.EntityRunningTotal, error)
	JourneyTenantActivity(ctx context.Context, in usecase.GetReportInput) ([]domain.JourneyTenantPeriod, error)
}

type MetricsHandler struct {
	uc ReportUseCase
}

func NewMetricsHandler(uc ReportUseCase) *MetricsHandler {
	return &MetricsHandler{uc: uc}
}

// GetReport godoc
// @Summary Build a metrics report
// @Description Rolls raw events up into zero-filled period rows, one per metric and period
// @Tags Metrics
// @Produce json
// @Param as_of query string false "Report date (YYYY-MM-DD), defaults to today"
// @Param period query string false "Period: week | day" default(week)
// @Param count query int false "Number of periods"
// @Param entities query string false "Comma-separated entity ids"
// @Param query_id query string false "Fact table to read" default(raw_events)
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/report [get]
func (h *MetricsHandler) GetReport(c *fiber.Ctx) error {
	in, err := parseReportInput(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	}

	report, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	resp := ReportResponse{
		AsOf:     report.AsOf.String(),
		Period:   report.Period.String(),
		Entities: report.Entities,
		Rows:     make([]MetricRowResponse, 0, len(report.Rows)),
		Tiles:    make([]TileResponse, 0, len(report.Tiles)),
	}
	for _, r := range report.Rows {
		resp.Rows = append(resp.Rows, MetricRowResponse{
			MetricName: r.MetricName,
			PeriodEnd:  r.PeriodEnd.String(),
			Value:      r.Value,
			SortOrder:  r.SortOrder,
		})
	}
	for _, t := range report.Tiles {
		resp.Tiles = append(resp.Tiles, TileResponse{
			MetricName: t.MetricName,
			PeriodEnd:  t.PeriodEnd.String(),
			Value:      t.Value,
			Trend:      t.Trend,
			Delta:      t.Delta,
			SortOrder:  t.SortOrder,
		})
	}
	for _, w := range report.Warnings {
		resp.Warnings = append(resp.Warnings, w.Message)
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// GetRunningTotals godoc
// @Summary Per-entity running totals
// @Description Returns each entity's period value and running total for the selected event types
// @Tags Metrics
// @Produce json
// @Param event_type query string true "Comma-separated event types"
// @Param measure query string false "Measure: count | sum" default(count)
// @Param as_of query string false "Report date (YYYY-MM-DD), defaults to today"
// @Param period query string false "Period: week | day" default(week)
// @Param count query int false "Number of periods"
// @Param entities query string false "Comma-separated entity ids"
// @Param query_id query string false "Fact table to read" default(raw_events)
// @Success 200 {object} RunningTotalsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/running-totals [get]
func (h *MetricsHandler) GetRunningTotals(c *fiber.Ctx) error {
	eventTypes := splitList(c.Query("event_type", ""))
	if len(eventTypes) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "event_type is required",
		})
	}

	base, err := parseReportInput(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	}

	measure := c.Query("measure", "count")
	rows, err := h.uc.EntityRunningTotals(c.UserContext(), usecase.RunningTotalsInput{
		GetReportInput: base,
		EventTypes:     eventTypes,
		Measure:        measure,
	})
	if err != nil {
		return writeError(c, err)
	}

	resp := RunningTotalsResponse{
		EventTypes: eventTypes,
		Measure:    measure,
		Rows:       make([]EntityRunningTotalResponse, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, EntityRunningTotalResponse{
			EntityID:        r.EntityID,
			EntityName:      r.EntityName,
			PeriodEnd:       r.PeriodEnd.String(),
			PeriodValue:     r.PeriodValue.String(),
			CumulativeValue: r.CumulativeValue.String(),
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

// GetJourneyTenants godoc
// @Summary Journey tenant activity
// @Description Lists, per period and newest first, the tenants that created their first journey, the tenants that created additional journeys and the tenants that ran journeys with their run counts
// @Tags Metrics
// @Produce json
// @Param as_of query string false "Report date (YYYY-MM-DD), defaults to today"
// @Param period query string false "Period: week | day" default(week)
// @Param count query int false "Number of periods"
// @Param entities query string false "Comma-separated entity ids"
// @Param query_id query string false "Fact table to read" default(raw_events)
// @Success 200 {object} JourneyTenantsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /metrics/journey-tenants [get]
func (h *MetricsHandler) GetJourneyTenants(c *fiber.Ctx) error {
	in, err := parseReportInput(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	}

	periods, err := h.uc.JourneyTenantActivity(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}

	resp := JourneyTenantsResponse{Periods: make([]JourneyTenantPeriodResponse, 0, len(periods))}
	for i := len(periods) - 1; i >= 0; i-- {
		p := periods[i]
		resp.Periods = append(resp.Periods, JourneyTenantPeriodResponse{
			PeriodStart: p.PeriodStart.String(),
			PeriodEnd:   p.PeriodEnd.String(),
			FirstTime:   toTenantResponses(p.FirstTime),
			Additional:  toTenantResponses(p.Additional),
			Running:     toTenantResponses(p.Running),
			TotalRuns:   p.TotalRuns,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}

func toTenantResponses(tenants []domain.JourneyTenant) []JourneyTenantResponse {
	out := make([]JourneyTenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, JourneyTenantResponse{
			EntityID:   t.EntityID,
			EntityName: t.EntityName,
			Runs:       t.Runs,
		})
	}
	return out
}

func parseReportInput(c *fiber.Ctx) (usecase.GetReportInput, error) {
	var in usecase.GetReportInput

	if s := c.Query("as_of", ""); s != "" {
		d, err := civil.ParseDate(s)
		if err != nil {
			return in, fmt.Errorf("invalid 'as_of' parameter: %q", s)
		}
		in.AsOf = d
	}

	period, err := domain.ParsePeriod(c.Query("period", ""))
	if err != nil {
		return in, err
	}
	in.Period = period

	if s := c.Query("count", ""); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return in, fmt.Errorf("invalid 'count' parameter: %q", s)
		}
		in.Count = n
	}

	in.Entities = splitList(c.Query("entities", ""))
	in.QueryID = c.Query("query_id", "")

	return in, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrUnknownQuery),
		errors.Is(err, usecase.ErrInvalidReportQuery),
		errors.Is(err, usecase.ErrUnknownMeasure):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrSchemaMismatch):
		return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
			Error:   "schema_mismatch",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrSourceUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "source_unavailable",
			Message: "the event source is unavailable, try again later",
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
