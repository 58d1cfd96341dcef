package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/daybook/internal/adapter/http"
	"github.com/iho/daybook/internal/adapter/http/handler"
	"github.com/iho/daybook/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/daybook/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/daybook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/daybook/internal/adapter/repository/redis"
	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/infrastructure/auth"
	"github.com/iho/daybook/internal/infrastructure/config"
	"github.com/iho/daybook/internal/infrastructure/eventbus"
	"github.com/iho/daybook/internal/infrastructure/eventpublisher"
	"github.com/iho/daybook/internal/infrastructure/logger"
	"github.com/iho/daybook/internal/infrastructure/metrics"
	"github.com/iho/daybook/internal/infrastructure/postgres"
	"github.com/iho/daybook/internal/infrastructure/redis"
	"github.com/iho/daybook/internal/usecase"
)

const rateLimitCleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "daybook"})
	log.Logger = appLogger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}

	appLogger.Info().Msg("server stopped")
}

// storage is the set of ports backed by the configured driver.
type storage struct {
	entries     usecase.EntryStore
	sales       usecase.SalesSource
	subscribers usecase.SubscriberSource
	purchases   usecase.PurchaseSource
	retrier     usecase.Retrier
	checks      map[string]handler.Check
	close       func()
}

// openStorage connects the configured driver. Postgres is migrated first.
func openStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn().Msg("using in-memory storage, data is lost on restart")
		sources := memoryRepo.NewRevenueSources()
		return &storage{
			entries:     memoryRepo.NewEntryStore(),
			sales:       sources,
			subscribers: sources,
			purchases:   sources,
			checks:      map[string]handler.Check{},
			close:       func() {},
		}, nil
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	sources := postgresRepo.NewRevenueSources(pool)
	return &storage{
		entries:     postgresRepo.NewEntryStore(pool),
		sales:       sources,
		subscribers: sources,
		purchases:   sources,
		retrier:     postgresRepo.NewRetrier(logger),
		checks:      map[string]handler.Check{"postgres": pingPool(pool)},
		close:       pool.Close,
	}, nil
}

func pingPool(pool *pgxpool.Pool) handler.Check {
	return func(ctx context.Context) error { return pool.Ping(ctx) }
}

func pingRedis(client *goredis.Client) handler.Check {
	return func(ctx context.Context) error { return redis.Ping(ctx, client) }
}

// newEventSink picks Kafka when brokers are configured, the log otherwise.
func newEventSink(cfg *config.Config, logger zerolog.Logger) (eventpublisher.Publisher, io.Closer) {
	if len(cfg.KafkaBrokers) > 0 {
		kp := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("forwarding ledger events to kafka")
		return kp, kp
	}
	return eventpublisher.NewLogPublisher(logger), nopCloser{}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.close()

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		store.checks["redis"] = pingRedis(redisClient)
	}

	appMetrics := metrics.New(prometheus.DefaultRegisterer)

	bus := eventbus.New[domain.LedgerEvent]()
	defer bus.Close()
	appMetrics.TrackDroppedEvents(bus.Dropped)

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(store.entries, postgresRepo.NewULIDGenerator(), bus, store.retrier, appMetrics, logger)
	daybookUC := usecase.NewDayBookUseCase(store.sales, store.subscribers, store.purchases, appMetrics)
	reportUC := usecase.NewReportUseCase(ledgerUC, daybookUC, cache, cfg.SummaryCacheTTL, appMetrics, logger)

	sink, sinkCloser := newEventSink(cfg, logger)
	defer sinkCloser.Close()
	forwarder := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Source:    bus.Subscribe(eventbus.DefaultBuffer),
		Publisher: sink,
		Logger:    logger,
		Interval:  time.Second,
	})

	routerCfg := httpAdapter.RouterConfig{
		LedgerHandler: handler.NewLedgerHandler(ledgerUC),
		ReportHandler: handler.NewReportHandler(daybookUC, reportUC),
		EventsHandler: handler.NewEventsHandler(func(buffer int) usecase.EventSubscription {
			return bus.Subscribe(buffer)
		}, logger),
		HealthHandler:    handler.NewHealthHandler(store.checks),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		AuthFailures:     appMetrics,
		Logger:           &logger,
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnReject(appMetrics.RateLimited)
		routerCfg.RateLimiter = rateLimiter
	}
	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := forwarder.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if rateLimiter != nil {
		g.Go(func() error {
			rateLimiter.RunCleanup(gctx, rateLimitCleanupInterval)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
