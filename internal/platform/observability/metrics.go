// Package observability holds the Prometheus instruments shared by the
// ingest and reporting paths.
package observability

import (
	"errors"
	"time"

	"activation-metrics-service/internal/metrics/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activation_report_duration_seconds",
			Help:    "Duration of report builds in seconds, fetch included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "activation_source_fetch_duration_seconds",
			Help:    "Duration of raw event fetches per source in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "outcome"},
	)

	SourceRowsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_source_rows_total",
			Help: "Total number of raw event rows read per source",
		},
		[]string{"source"},
	)

	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_cache_requests_total",
			Help: "Report source cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error"
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activation_circuit_breaker_state",
			Help: "Circuit breaker state per source (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	EventsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activation_events_stored_total",
			Help: "Raw events accepted by the ingest API",
		},
		[]string{"result"}, // "created", "duplicate"
	)
)

// Outcome classifies err into a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, domain.ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, domain.ErrSourceUnavailable):
		return "source_unavailable"
	default:
		return "error"
	}
}

func ObserveReport(err error, start time.Time) {
	ReportDuration.WithLabelValues(Outcome(err)).Observe(time.Since(start).Seconds())
}

func ObserveFetch(source string, rows int, err error, start time.Time) {
	SourceFetchDuration.WithLabelValues(source, Outcome(err)).Observe(time.Since(start).Seconds())
	if err == nil {
		SourceRowsFetched.WithLabelValues(source).Add(float64(rows))
	}
}

func ObserveEventStored(created bool) {
	if created {
		EventsStored.WithLabelValues("created").Inc()
		return
	}
	EventsStored.WithLabelValues("duplicate").Inc()
}
