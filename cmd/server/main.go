package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/assetsync/internal/adapter/http"
	"github.com/iho/assetsync/internal/adapter/http/handler"
	"github.com/iho/assetsync/internal/adapter/http/middleware"
	"github.com/iho/assetsync/internal/adapter/messaging"
	postgresRepo "github.com/iho/assetsync/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/assetsync/internal/adapter/repository/redis"
	"github.com/iho/assetsync/internal/adapter/resilience"
	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/infrastructure/config"
	"github.com/iho/assetsync/internal/infrastructure/eventpublisher"
	"github.com/iho/assetsync/internal/infrastructure/logger"
	"github.com/iho/assetsync/internal/infrastructure/metrics"
	"github.com/iho/assetsync/internal/infrastructure/postgres"
	"github.com/iho/assetsync/internal/infrastructure/redis"
	"github.com/iho/assetsync/internal/usecase"
)

func main() {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	tables, err := config.LoadAssetTables(cfg.AssetTablesPath)
	if err != nil {
		return fmt.Errorf("load asset tables: %w", err)
	}
	log.Info().
		Int("profiles", len(tables.Profiles)).
		Int("subsidiaries", len(tables.Subsidiaries)).
		Msg("asset tables loaded")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:      cfg.DatabaseURL,
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		ConnectTimeout:   cfg.DatabaseConnectTimeout,
		StatementTimeout: cfg.DatabaseTimeout,
		Logger:           log,
		Metrics:          m,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return err
		}
	}

	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, m)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	app := buildApp(cfg, tables, pool, redisClient, m, log)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ReceiptHandler:   handler.NewReceiptHandler(app.dispatcher, m),
		AssetHandler:     handler.NewAssetHandler(app.queries),
		HealthHandler:    handler.NewHealthHandler(healthChecks(pool, redisClient)),
		IdempotencyStore: app.idempotency,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      app.rateLimiter,
		Metrics:          m,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Logger:           log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if app.rateLimiter != nil {
		g.Go(func() error {
			app.rateLimiter.RunCleanup(gctx, time.Hour)
			return nil
		})
	}

	if app.outboxPublisher != nil {
		g.Go(func() error {
			return ignoreCanceled(app.outboxPublisher.Start(gctx))
		})
	}

	if app.consumer != nil {
		g.Go(func() error {
			defer app.consumer.Close()
			return ignoreCanceled(app.consumer.Run(gctx))
		})
	}

	err = g.Wait()

	if app.producer != nil {
		if cerr := app.producer.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close kafka producer")
		}
	}

	return err
}

// app holds the wired components that run alongside the HTTP server.
type app struct {
	dispatcher      *usecase.Dispatcher
	queries         *usecase.AssetQueryUseCase
	idempotency     usecase.IdempotencyStore
	rateLimiter     *middleware.RateLimiter
	outboxPublisher *eventpublisher.EventPublisher
	producer        *messaging.Producer
	consumer        *messaging.Consumer
}

func buildApp(
	cfg *config.Config,
	tables *domain.AssetConfig,
	pool *pgxpool.Pool,
	redisClient *goredis.Client,
	m *metrics.Metrics,
	log zerolog.Logger,
) *app {
	a := &app{}

	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(log)
	idGen := postgresRepo.NewULIDGenerator()
	clock := usecase.SystemClock{}

	assets := postgresRepo.NewAssetRepository(pool)
	receipts := postgresRepo.NewReceiptRepository(pool)
	transactions := postgresRepo.NewTransactionRepository(pool)
	bills := postgresRepo.NewBillRepository(pool)

	var items usecase.ItemCatalog = postgresRepo.NewItemRepository(pool)
	if redisClient != nil {
		a.idempotency = redisRepo.NewIdempotencyStore(redisClient)
		if cfg.ItemCacheTTL > 0 {
			items = usecase.NewCachedItemCatalog(items, redisRepo.NewCache(redisClient), cfg.ItemCacheTTL, log)
		}
	}

	rates := resilience.NewRateBreaker(postgresRepo.NewCurrencyRateRepository(pool), resilience.BreakerConfig{
		Name:          "exchange-rates",
		MaxFailures:   cfg.RateBreakerMaxFailures,
		Timeout:       cfg.RateBreakerTimeout,
		Interval:      cfg.RateBreakerInterval,
		OnStateChange: breakerGauge(m),
	}, log)

	var outbox usecase.OutboxRepository = postgresRepo.NewNullOutboxRepository()
	if cfg.OutboxEnabled {
		repo := postgresRepo.NewOutboxRepository(pool)
		outbox = repo

		var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
		if cfg.KafkaEnabled() {
			a.producer = messaging.NewProducer(messaging.ProducerConfig{
				Brokers: cfg.KafkaBrokers,
				Topic:   cfg.KafkaAssetTopic,
			})
			publisher = a.producer
		}

		a.outboxPublisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: repo,
			Publisher:  publisher,
			Logger:     log,
			Metrics:    m,
			BatchSize:  cfg.OutboxBatchSize,
			Interval:   cfg.OutboxInterval,
			Retention:  cfg.OutboxRetention,
		})
	}

	resolver := usecase.NewExchangeRateResolver(tables, transactions, bills, rates, clock, log)

	creator := usecase.NewAssetCreator(tables, txManager, items, assets, outbox, resolver, idGen, a.idempotency, clock, log).
		WithRetrier(retrier)
	reconciler := usecase.NewTransferReconciler(txManager, assets, outbox, idGen, a.idempotency, clock, log).
		WithRetrier(retrier)
	allocator := usecase.NewLandedCostAllocator(txManager, receipts, items, assets, outbox, idGen, a.idempotency, clock, log).
		WithRetrier(retrier)

	a.dispatcher = usecase.NewDispatcher(tables, receipts, transactions, creator, reconciler, allocator, log)
	a.queries = usecase.NewAssetQueryUseCase(assets)

	if cfg.HTTPRateLimit > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst)
	}

	if cfg.KafkaEnabled() {
		a.consumer = messaging.NewConsumer(messaging.ConsumerConfig{
			Brokers:    cfg.KafkaBrokers,
			Topic:      cfg.KafkaReceiptTopic,
			GroupID:    cfg.KafkaConsumerGroup,
			MaxRetries: cfg.KafkaMaxRetries,
		}, a.dispatcher, log, m)
	}

	return a
}

// breakerGauge publishes rate breaker transitions to the state gauge.
func breakerGauge(m *metrics.Metrics) func(gobreaker.State) {
	return func(to gobreaker.State) {
		m.RateBreakerState.Set(breakerStateValue(to))
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func healthChecks(pool *pgxpool.Pool, redisClient *goredis.Client) map[string]handler.Check {
	checks := map[string]handler.Check{
		"postgres": pool.Ping,
	}

	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	return checks
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
