package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventsHttp "activation-metrics-service/internal/events/adapters/http/fiber"
	eventsRepoPg "activation-metrics-service/internal/events/adapters/postgres"
	eventsUsecase "activation-metrics-service/internal/events/core/usecase"

	metricsHttp "activation-metrics-service/internal/metrics/adapters/http/fiber"
	metricsRepoPg "activation-metrics-service/internal/metrics/adapters/postgres"
	metricsRedis "activation-metrics-service/internal/metrics/adapters/redis"
	metricsResilience "activation-metrics-service/internal/metrics/adapters/resilience"
	metricsSnowflake "activation-metrics-service/internal/metrics/adapters/snowflake"
	metricsPorts "activation-metrics-service/internal/metrics/core/ports"
	metricsRollup "activation-metrics-service/internal/metrics/core/rollup"
	metricsUsecase "activation-metrics-service/internal/metrics/core/usecase"

	"activation-metrics-service/internal/platform/config"
	"activation-metrics-service/internal/platform/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "activation-metrics-service/docs"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		l := logging.Logger()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	log := logging.Logger()

	// DB connection
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open postgres")
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping postgres")
	}

	// Adapter-level DB wrappers
	eventsDB := eventsRepoPg.NewSQLDB(db)

	if cfg.Postgres.EnsureSchema {
		if err := eventsRepoPg.EnsureSchema(context.Background(), eventsDB); err != nil {
			log.Fatal().Err(err).Msg("failed to create raw_events schema")
		}
	}

	// Repositories
	eventRepository := eventsRepoPg.NewEventRepository(eventsDB)

	source, closeSource, err := buildSource(cfg, db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build raw event source")
	}
	defer closeSource()

	// Usecases
	storeEventUC := eventsUsecase.NewStoreEventUseCase(eventRepository, time.Now)
	getReportUC := metricsUsecase.NewGetReportUseCase(
		source,
		metricsRollup.DefaultCatalog(),
		logging.With("report"),
		metricsUsecase.Options{
			DefaultCount: cfg.Report.DefaultCount,
			MaxCount:     cfg.Report.MaxCount,
			Workers:      cfg.Report.Workers,
			Now:          time.Now,
		},
	)

	// HTTP (Fiber) app + handlers
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logging.RequestLogger(logging.With("http")))

	// events endpoints
	eventsHandler := eventsHttp.NewEventHandler(storeEventUC)
	app.Post("/events", eventsHandler.CreateEvent)
	app.Post("/events/bulk", eventsHandler.BulkCreateEvents)

	// metrics endpoints
	metricsHandler := metricsHttp.NewMetricsHandler(getReportUC)
	app.Get("/metrics/report", metricsHandler.GetReport)
	app.Get("/metrics/running-totals", metricsHandler.GetRunningTotals)
	app.Get("/metrics/journey-tenants", metricsHandler.GetJourneyTenants)

	// Prometheus
	app.Get("/prometheus", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			log.Error().Err(err).Msg("fiber stopped")
		}
	}()

	log.Info().
		Str("addr", cfg.Server.Addr).
		Str("warehouse", cfg.Warehouse.Driver).
		Bool("cache", cfg.Redis.Enabled).
		Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Info().Msg("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("fiber shutdown error")
	}

	log.Info().Msg("server exiting")
}

// buildSource assembles the report read path: warehouse adapter, then
// breaker and retry, then the optional redis cache in front.
func buildSource(cfg *config.Config, pg *sql.DB, log zerolog.Logger) (metricsPorts.RawEventSource, func(), error) {
	var (
		source  metricsPorts.RawEventSource
		closers []func()
	)

	switch cfg.Warehouse.Driver {
	case config.DriverSnowflake:
		sf, err := metricsSnowflake.Open(metricsSnowflake.Config{
			Account:   cfg.Snowflake.Account,
			User:      cfg.Snowflake.User,
			Password:  cfg.Snowflake.Password,
			Database:  cfg.Snowflake.Database,
			Schema:    cfg.Snowflake.Schema,
			Warehouse: cfg.Snowflake.Warehouse,
			Role:      cfg.Snowflake.Role,
			Timeout:   cfg.Snowflake.Timeout,
		})
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = sf.Close() })
		source = metricsSnowflake.NewSource(sf, map[string]string{
			metricsPorts.DefaultQueryID: cfg.Snowflake.Table,
		})
	default:
		source = metricsRepoPg.NewRawEventSource(metricsRepoPg.NewSQLDB(pg), nil)
	}

	breaker := metricsResilience.DefaultConfig(cfg.Warehouse.Driver)
	breaker.MaxRequests = cfg.Breaker.MaxRequests
	breaker.Interval = cfg.Breaker.Interval
	breaker.Timeout = cfg.Breaker.Timeout
	breaker.FailureThreshold = cfg.Breaker.FailureThreshold
	breaker.MaxRetries = cfg.Breaker.MaxRetries
	breaker.InitialInterval = cfg.Breaker.InitialInterval
	breaker.MaxInterval = cfg.Breaker.MaxInterval
	source = metricsResilience.NewSource(source, breaker, logging.With("breaker"))

	if cfg.Redis.Enabled {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, cache will fall through until it recovers")
		}
		source = metricsRedis.NewCache(source, client, cfg.Redis.TTL, logging.With("cache"))
	}

	return source, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}
