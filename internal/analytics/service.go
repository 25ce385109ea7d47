package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cometstats/internal/domain"
	"cometstats/internal/metrics"
	"cometstats/internal/pubsub"

	"gitlab.com/nevasik7/alerting/logger"
)

// Cache is the key-value collaborator: get, set-with-expiry, ping
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// DataSource is the relational collaborator exposing the four
// ledger-derived aggregation views
type DataSource interface {
	Swaps(ctx context.Context, req *domain.StatsRequest) ([]domain.SwapRow, error)
	Ohlcv(ctx context.Context, req *domain.StatsRequest) ([]domain.Candle, error)
	PoolStats(ctx context.Context, req *domain.StatsRequest) ([]domain.PoolStatRow, error)
	BorrowStats(ctx context.Context, req *domain.StatsRequest) ([]domain.BorrowStatRow, error)
	Ping(ctx context.Context) error
}

// RefreshNotice is broadcast after a miss repopulates the cache so
// downstream caches and gateways can re-pull
type RefreshNotice struct {
	Key        string    `json:"key"`
	TTLSeconds int64     `json:"ttl_seconds"`
	At         time.Time `json:"at"`
}

/*
	The only orchestration point of the read path:
	validate → derive key + TTL → cache lookup → on miss query the
	store, repopulate, broadcast. Per request: one cache read, at most
	one cache write, at most one store query. No retries anywhere;
	a failed request is simply retried whole by the caller.
*/
type Service struct {
	log         logger.Logger
	cache       Cache
	source      DataSource
	broadcaster pubsub.Broadcaster // optional
	prefix      string             // broadcast subject prefix
	swapsTTL    time.Duration
	clock       func() time.Time
}

func NewService(
	log logger.Logger,
	cache Cache,
	source DataSource,
	broadcaster pubsub.Broadcaster,
	prefix string,
	swapsTTL time.Duration,
) *Service {
	if swapsTTL <= 0 {
		swapsTTL = DefaultSwapsTTL
	}
	if prefix == "" {
		prefix = "stats"
	}

	return &Service{
		log:         log,
		cache:       cache,
		source:      source,
		broadcaster: broadcaster,
		prefix:      prefix,
		swapsTTL:    swapsTTL,
		clock:       time.Now,
	}
}

func (s *Service) SwapHistory(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	req, err := ParseSwaps(params)
	if err != nil {
		return nil, err
	}
	return s.lookup(ctx, req, func(ctx context.Context) (any, error) {
		return s.source.Swaps(ctx, req)
	})
}

func (s *Service) Ohlcv(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	req, err := ParseOhlcv(params)
	if err != nil {
		return nil, err
	}
	return s.lookup(ctx, req, func(ctx context.Context) (any, error) {
		return s.source.Ohlcv(ctx, req)
	})
}

func (s *Service) PoolStats(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	req, err := ParsePoolStats(params)
	if err != nil {
		return nil, err
	}
	return s.lookup(ctx, req, func(ctx context.Context) (any, error) {
		return s.source.PoolStats(ctx, req)
	})
}

func (s *Service) BorrowStats(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	req, err := ParseBorrowStats(params)
	if err != nil {
		return nil, err
	}
	return s.lookup(ctx, req, func(ctx context.Context) (any, error) {
		return s.source.BorrowStats(ctx, req)
	})
}

// CheckDependency pings both collaborators, for the readiness probe
func (s *Service) CheckDependency(ctx context.Context) error {
	if err := s.cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache ping: %w", err)
	}
	if err := s.source.Ping(ctx); err != nil {
		return fmt.Errorf("datasource ping: %w", err)
	}
	return nil
}

// lookup is the cache-aside loop shared by the four views. On a hit the
// cached bytes are returned as stored, so hit and miss bodies for the
// same entry are byte-identical
func (s *Service) lookup(ctx context.Context, req *domain.StatsRequest, query func(context.Context) (any, error)) (json.RawMessage, error) {
	key := Key(req)
	ttl := s.ttl(req)
	kind := string(req.Kind)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "redis", Op: "get", Err: err}
	}
	if ok {
		metrics.CacheHits.WithLabelValues(kind).Inc()
		s.log.Debugf("Cache hit for key=%s", key)
		return cached, nil
	}
	metrics.CacheMisses.WithLabelValues(kind).Inc()

	started := s.clock()
	rows, err := query(ctx)
	if err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "clickhouse", Op: "query", Err: err}
	}
	metrics.QueryDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())

	body, err := json.Marshal(rows)
	if err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "clickhouse", Op: "encode", Err: err}
	}

	if err = s.cache.Set(ctx, key, body, ttl); err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "redis", Op: "set", Err: err}
	}
	s.log.Debugf("Cache fill for key=%s ttl=%s", key, ttl)

	// Broadcast failures are non-critical, subscribers catch up on the
	// next refresh
	if s.broadcaster != nil {
		subject := fmt.Sprintf("%s.refresh.%s", s.prefix, kind)
		notice := RefreshNotice{Key: key, TTLSeconds: int64(ttl.Seconds()), At: s.clock().UTC()}
		if err = s.broadcaster.Publish(ctx, subject, notice); err != nil {
			s.log.Errorf("Failed to broadcast refresh for key=%s, error=%v", key, err)
		}
	}

	return body, nil
}

// ttl is boundary-aligned for bucketed views, fixed for the listing
func (s *Service) ttl(req *domain.StatsRequest) time.Duration {
	if req.Kind == domain.KindSwaps {
		return s.swapsTTL
	}
	return UntilBoundary(s.clock(), req.Interval)
}
