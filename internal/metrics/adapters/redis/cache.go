// Package redis caches raw event fetches in Redis so repeated report
// requests over the same range do not hit the warehouse.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"time"

	eventsDomain "activation-metrics-service/internal/events/core/domain"
	"activation-metrics-service/internal/metrics/core/ports"
	"activation-metrics-service/internal/platform/observability"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultTTL    = 600 * time.Second
	DefaultPrefix = "activation:raw_events:"
)

// Cache is a read-through decorator. Redis failures are logged and the
// request falls through to the wrapped source; they never fail a report.
type Cache struct {
	next   ports.RawEventSource
	client goredis.UniversalClient
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
}

var _ ports.RawEventSource = (*Cache)(nil)

func NewCache(next ports.RawEventSource, client goredis.UniversalClient, ttl time.Duration, log zerolog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: DefaultPrefix,
		log:    log.With().Str("component", "cache").Logger(),
	}
}

func (c *Cache) FetchRawEvents(ctx context.Context, p ports.FetchParams) ([]eventsDomain.RawEvent, error) {
	key, err := Key(c.prefix, p)
	if err != nil {
		c.log.Warn().Err(err).Msg("build cache key failed")
		return c.next.FetchRawEvents(ctx, p)
	}

	if events, ok := c.lookup(ctx, key); ok {
		return events, nil
	}

	events, err := c.next.FetchRawEvents(ctx, p)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(events)
	if err != nil {
		c.log.Warn().Err(err).Msg("encode cache payload failed")
		return events, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	return events, nil
}

func (c *Cache) lookup(ctx context.Context, key string) ([]eventsDomain.RawEvent, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		observability.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		observability.CacheRequests.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	}

	var events []eventsDomain.RawEvent
	if err := json.Unmarshal(payload, &events); err != nil {
		observability.CacheRequests.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return nil, false
	}

	observability.CacheRequests.WithLabelValues("hit").Inc()
	return events, true
}

type keyFields struct {
	QueryID    string   `json:"q"`
	From       string   `json:"f"`
	To         string   `json:"t"`
	EntityIDs  []string `json:"e"`
	EventTypes []string `json:"y"`
}

// Key derives a stable cache key from p; filter order does not matter.
func Key(prefix string, p ports.FetchParams) (string, error) {
	fields := keyFields{
		QueryID:    p.QueryID,
		From:       p.From.String(),
		To:         p.To.String(),
		EntityIDs:  sortedCopy(p.EntityIDs),
		EventTypes: sortedCopy(p.EventTypes),
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return prefix + hex.EncodeToString(sum[:]), nil
}

func sortedCopy(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}
