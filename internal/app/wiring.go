package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	httpapi "cometstats/internal/api/http"
	"cometstats/internal/api/http/handlers"
	"cometstats/internal/api/http/mw"
	"cometstats/internal/analytics"
	"cometstats/internal/config"
	"cometstats/internal/metrics"
	"cometstats/internal/pubsub"
	natsbroadcast "cometstats/internal/pubsub/nats"
	"cometstats/internal/stores/clickhouse"
	"cometstats/internal/stores/redis"

	"github.com/grafana/pyroscope-go"
	lgcfg "gitlab.com/nevasik7/alerting/config"
	"gitlab.com/nevasik7/alerting/logger"
)

type Container struct {
	app *App

	// infra
	redis *redis.Client
	ch    *clickhouse.Conn
	nc    *natsbroadcast.Client // nil when broadcasting disabled

	// servers
	httpSrv *httpapi.Server

	// metrics
	profiler *pyroscope.Profiler

	cleanupF func()
}

func (c *Container) Start() error {
	return c.app.Start()
}

func (c *Container) Stop(ctx context.Context) error {
	if err := c.app.Shutdown(ctx); err != nil {
		return fmt.Errorf("app shutdown is failed, error=%w", err)
	}

	if c.cleanupF != nil {
		c.cleanupF()
	}
	return nil
}

// Construct image app
func Build(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	lg := logger.New(lgcfg.LoggerCfg{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	lg.Info("Successfully initialize logger")

	profiler, err := metrics.InitPProf(cfg.App.InstanceID, &cfg.Metrics.Pyroscope)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize pyroscope: %w", err)
	}
	if profiler != nil {
		lg.Infof("Successfully initialize Pyroscope to %s as %s", cfg.Metrics.Pyroscope.ServerAddr, cfg.Metrics.Pyroscope.AppName)
	}

	// Redis client
	rdb, err := redis.New(ctx, &cfg.Stores.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize redis client: %w", err)
	}
	lg.Infof("Successfully initialize redis client, addr=%s", cfg.Stores.Redis.Addr)

	// Cache on top of it
	cache, err := redis.NewCache(rdb, cfg.Stores.Redis.Prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	// ClickHouse client
	ch, err := clickhouse.New(ctx, &cfg.Stores.ClickHouse)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize clickhouse client: %w", err)
	}
	url := strings.Split(cfg.Stores.ClickHouse.DSN, "?")
	lg.Infof("Successfully initialize clickhouse client, url=%s", url[0])

	store, err := clickhouse.NewAnalyticsStore(ch)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize analytics store: %w", err)
	}

	// NATS broadcaster, optional
	var (
		broadcaster pubsub.Broadcaster
		natsCl      *natsbroadcast.Client
	)
	if cfg.PubSub.NATS.URL != "" {
		natsCl, err = natsbroadcast.New(lg, &cfg.PubSub.NATS)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize nats client: %w", err)
		}
		broadcaster = natsCl
	}

	// Service layer
	statsService := analytics.NewService(lg, cache, store, broadcaster,
		cfg.PubSub.NATS.BroadcastPrefix, cfg.Cache.SwapsTTL)
	lg.Info("Successfully initialize stats service")

	// HTTP server
	h := handlers.NewHandler(lg, statsService)
	router := httpapi.BuildRouter(h,
		mw.NewLogging(lg),
		mw.NewGzip(0, lg),
		corsOrNil(cfg),
	)
	httpSrv := httpapi.NewServer(lg, &cfg.API.HTTP, router)
	lg.Info("Successfully initialize HTTP server")

	c := &Container{
		app:      NewApp(lg, httpSrv),
		redis:    rdb,
		ch:       ch,
		nc:       natsCl,
		httpSrv:  httpSrv,
		profiler: profiler,
	}

	cleanupF := func() {
		ctxClean, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if c.profiler != nil {
			if err = c.profiler.Stop(); err != nil {
				lg.Errorf("Failed to stop profiler: %v", err)
			}
		}

		if err = httpSrv.Shutdown(ctxClean); err != nil {
			lg.Errorf("Failed to shutdown by cleanupF HTTP server: %v", err)
		}

		if natsCl != nil {
			if err = natsCl.Close(); err != nil {
				lg.Errorf("Failed to close by cleanupF nats client: %v", err)
			}
		}

		if err = ch.Close(); err != nil {
			lg.Errorf("Failed to close by cleanupF clickhouse client: %v", err)
		}

		if err = rdb.Close(); err != nil {
			lg.Errorf("Failed to close by cleanupF redis client: %v", err)
		}

		lg.Info("Successfully cleaned up dependency")
	}
	c.cleanupF = cleanupF

	lg.Info("Successfully initialize Wiring")
	return c, cleanupF, nil
}

func corsOrNil(cfg *config.Config) *mw.CORSMiddleware {
	if !cfg.API.HTTP.CORS.Enabled {
		return nil
	}
	return mw.NewCORS(&cfg.API.HTTP.CORS)
}
