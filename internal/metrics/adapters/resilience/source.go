// Package resilience wraps a RawEventSource with a circuit breaker and
// bounded exponential retry of transient fetch failures.
package resilience

import (
	"context"
	"errors"
	"time"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/core/domain"
	"activation-metrics-service/internal/metrics/core/ports"
	"activation-metrics-service/internal/platform/observability"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

type Config struct {
	// Name identifies the breaker in logs and metrics.
	Name string

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic reset period for counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// MaxRetries bounds retries after the first attempt; 0 disables retry.
	MaxRetries uint64

	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
		MaxRetries:       2,
		InitialInterval:  200 * time.Millisecond,
		MaxInterval:      2 * time.Second,
	}
}

type Source struct {
	next ports.RawEventSource
	cfg  Config
	cb   *gobreaker.CircuitBreaker[[]eventsDomain.RawEvent]
	log  zerolog.Logger
}

var _ ports.RawEventSource = (*Source)(nil)

func NewSource(next ports.RawEventSource, cfg Config, log zerolog.Logger) *Source {
	s := &Source{
		next: next,
		cfg:  cfg,
		log:  log.With().Str("component", "breaker").Str("breaker", cfg.Name).Logger(),
	}

	observability.BreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	s.cb = gobreaker.NewCircuitBreaker[[]eventsDomain.RawEvent](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.BreakerState.WithLabelValues(name).Set(float64(to))
			s.log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
		// Bad rows and bad requests say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrSourceUnavailable)
		},
	})

	return s
}

// State reports the breaker state, mainly for health endpoints.
func (s *Source) State() gobreaker.State {
	return s.cb.State()
}

func (s *Source) FetchRawEvents(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
	attempt := 0
	op := func() ([]eventsDomain.RawEvent, error) {
		attempt++
		events, err := s.cb.Execute(func() ([]eventsDomain.RawEvent, error) {
			return s.next.FetchRawEvents(ctx, p)
		})
		if err == nil {
			return events, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, backoff.Permanent(&domain.SourceUnavailableError{Source: s.cfg.Name, Err: err})
		}
		if !errors.Is(err, domain.ErrSourceUnavailable) || ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}

		s.log.Debug().Err(err).Int("attempt", attempt).Str("query_id", p.QueryID).Msg("fetch failed, will retry")
		return nil, err
	}

	return backoff.RetryWithData(op, s.policy(ctx))
}

func (s *Source) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if s.cfg.InitialInterval > 0 {
		b.InitialInterval = s.cfg.InitialInterval
	}
	if s.cfg.MaxInterval > 0 {
		b.MaxInterval = s.cfg.MaxInterval
	}
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, s.cfg.MaxRetries), ctx)
}
