package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/turtacn/EnviroLens/internal/application/dashboard"
	"github.com/turtacn/EnviroLens/internal/config"
	"github.com/turtacn/EnviroLens/internal/infrastructure/cache"
	"github.com/turtacn/EnviroLens/internal/infrastructure/database/redis"
	"github.com/turtacn/EnviroLens/internal/infrastructure/llm"
	"github.com/turtacn/EnviroLens/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/EnviroLens/internal/infrastructure/source"
	"github.com/turtacn/EnviroLens/internal/infrastructure/synthetic"
	httpserver "github.com/turtacn/EnviroLens/internal/interfaces/http"
	"github.com/turtacn/EnviroLens/internal/interfaces/http/handlers"
	"github.com/turtacn/EnviroLens/internal/interfaces/http/middleware"
)

// limiterCleanupInterval drops idle refresh buckets.
const limiterCleanupInterval = 10 * time.Minute

// App is the wired dependency graph shared by every command.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Service   *dashboard.Service
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	Checkers  []handlers.HealthChecker

	closers []func() error
}

// NewApp builds the store, loader, plugins, insight client, metrics and
// snapshot publisher described by cfg.  A redis store that cannot be reached
// falls back to the in-memory store; a kafka publisher that cannot be built
// is skipped.  Both are logged at WARN.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	logger = logging.OrDefault(logger)
	app := &App{Config: cfg, Logger: logger}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		app.Collector = collector
		app.Metrics = prometheus.NewAppMetrics(collector)
	}

	store, backend := app.newStore(ctx)
	app.Checkers = append(app.Checkers, handlers.PingChecker("cache_"+backend, store))

	gen := synthetic.NewGenerator(cfg.Synthetic.Seed, synthetic.Options{
		StartYear: cfg.Synthetic.StartYear,
		EndYear:   cfg.Synthetic.EndYear,
		States:    cfg.Synthetic.States,
	})
	loader := source.NewLoader(gen, logger, source.WithTimeout(cfg.Datasets.FetchTimeout))
	plugins := []dashboard.Plugin{
		dashboard.NewMineralPlugin(loader, cfg.Datasets.MineralExtraction.Source),
		dashboard.NewWaterPlugin(loader, cfg.Datasets.WaterQuality.Source),
		dashboard.NewTimberPlugin(loader, cfg.Datasets.TimberProduction.Source),
	}

	llmOpts := []llm.Option{}
	if app.Metrics != nil {
		llmOpts = append(llmOpts, llm.WithObserver(app.Metrics))
	}
	insight, err := llm.NewClient(cfg.Insight, logger, llmOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}

	opts := []dashboard.Option{
		dashboard.WithInsights(insight),
		dashboard.WithMetrics(app.Metrics),
		dashboard.WithBackend(backend),
	}
	if cfg.Kafka.Enabled {
		pub, err := kafka.NewSnapshotPublisher(cfg.Kafka, logger)
		if err != nil {
			logger.Warn("snapshot publishing disabled", logging.Err(err))
		} else {
			opts = append(opts, dashboard.WithPublisher(pub))
			app.closers = append(app.closers, pub.Close)
		}
	}

	svc, err := dashboard.NewService(store, plugins, logger, opts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Service = svc
	return app, nil
}

type pingStore interface {
	dashboard.ResultStore
	handlers.Pinger
}

func (a *App) newStore(ctx context.Context) (pingStore, string) {
	if a.Config.Cache.Backend != "redis" {
		return cache.NewMemoryStore(), "memory"
	}
	client, err := redis.NewClient(a.Config.Redis, a.Logger)
	if err == nil {
		var store *redis.ResultStore
		store, err = redis.NewResultStore(ctx, client, a.Config.Redis.KeyPrefix, a.Logger)
		if err == nil {
			a.closers = append(a.closers, client.Close)
			return store, "redis"
		}
		_ = client.Close()
	}
	a.Logger.Warn("redis result store unavailable, using memory store",
		logging.String("addr", a.Config.Redis.Addr), logging.Err(err))
	return cache.NewMemoryStore(), "memory"
}

// Router builds the HTTP handler tree for the serve commands.  The returned
// stop function releases the refresh limiter.
func (a *App) Router() (http.Handler, func(), error) {
	static, err := handlers.NewStaticHandler(a.Config.Server.StaticDir)
	if err != nil {
		return nil, nil, err
	}
	cors := middleware.CORSConfigFrom(a.Config.CORS)

	rc := httpserver.RouterConfig{
		DataHandler:   handlers.NewDataHandler(a.Service, a.Logger),
		HealthHandler: handlers.NewHealthHandler(Version, a.Metrics, a.Checkers...),
		StaticHandler: static,
		Version:       Version,
		CORS:          &cors,
		Logging:       middleware.DefaultLoggingConfig(),
		Metrics:       a.Metrics,
		MetricsPath:   a.Config.Metrics.Path,
		Logger:        a.Logger,
	}
	if a.Collector != nil {
		rc.MetricsCollector = a.Collector
	}

	stop := func() {}
	if a.Config.Server.RefreshRate > 0 {
		limiter := middleware.NewTokenBucketLimiter(a.Config.Server.RefreshRate, a.Config.Server.RefreshBurst, limiterCleanupInterval)
		rc.RefreshLimiter = limiter
		stop = limiter.Stop
	}
	return httpserver.NewRouter(rc), stop, nil
}

// Close releases external connections in reverse order of creation.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

//Personal.AI order the ending
