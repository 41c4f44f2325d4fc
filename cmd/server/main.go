package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/adapter/events/kafka"
	httpAdapter "github.com/iho/gowallet/internal/adapter/http"
	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/gowallet/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gowallet/internal/adapter/repository/redis"
	"github.com/iho/gowallet/internal/infrastructure/config"
	"github.com/iho/gowallet/internal/infrastructure/eventpublisher"
	"github.com/iho/gowallet/internal/infrastructure/logger"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
	"github.com/iho/gowallet/internal/infrastructure/postgres"
	"github.com/iho/gowallet/internal/infrastructure/redis"
	"github.com/iho/gowallet/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()

	// Ledger store
	var (
		store usecase.LedgerStore
		pool  *pgxpool.Pool
	)
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err = postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		store = postgresRepo.NewLedgerStore(pool)
		log.Info().Msg("using postgres ledger store")

	case config.StoreDriverMemory:
		memStore := memory.New()
		defer memStore.Close()
		store = memStore
		log.Info().Msg("using in-memory ledger store")

	default:
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("unknown store driver")
	}

	// Redis-backed idempotency (optional)
	var (
		redisClient      *goredis.Client
		idempotencyStore usecase.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		log.Info().Msg("idempotency caching enabled")
	}

	// Transaction events: kafka when brokers are configured, otherwise
	// the dispatcher falls back to logging events.
	var publisher eventpublisher.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()

		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")
	}

	dispatcher := eventpublisher.NewDispatcher(eventpublisher.Config{
		Publisher: publisher,
		Metrics:   m,
		QueueSize: cfg.EventQueueSize,
	})
	go func() {
		if err := dispatcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event dispatcher stopped")
		}
	}()

	// Core service
	walletUC := usecase.NewWalletUseCase(store, eventpublisher.NewULIDGenerator(), dispatcher, m)

	// HTTP layer
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		WalletHandler:    handler.NewWalletHandler(walletUC),
		HealthHandler:    handler.NewHealthHandler(readinessChecks(pool, redisClient)),
		Logging:          middleware.NewLoggingMiddleware(log.Logger),
		Metrics:          middleware.NewMetricsMiddleware(m),
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		MetricsHandler:   promhttp.Handler(),
	})

	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	// Stop the event dispatcher once no new requests can arrive.
	cancel()

	log.Info().Msg("server stopped")
}

// serverAddr renders the listen address for a configured port.
func serverAddr(port string) string {
	return fmt.Sprintf(":%s", port)
}

// readinessChecks assembles the /ready probes. Only configured backends
// are probed; an empty map means the service is always ready.
func readinessChecks(pool *pgxpool.Pool, redisClient *goredis.Client) map[string]handler.Pinger {
	checks := map[string]handler.Pinger{}

	if pool != nil {
		checks["postgres"] = pool
	}
	if redisClient != nil {
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	return checks
}
