package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/logdeltra/delivery-api/internal/adapter/cache"
	"github.com/logdeltra/delivery-api/internal/adapter/http/fiber/router"
	"github.com/logdeltra/delivery-api/internal/adapter/queue"
	"github.com/logdeltra/delivery-api/internal/adapter/vault"
	"github.com/logdeltra/delivery-api/internal/observability/telemetry"
	"github.com/logdeltra/delivery-api/internal/service/auth"
	"github.com/logdeltra/delivery-api/internal/service/credential"
	"github.com/logdeltra/delivery-api/internal/service/health"
	"github.com/logdeltra/delivery-api/internal/service/location"
	"github.com/logdeltra/delivery-api/internal/service/order"
	"github.com/logdeltra/delivery-api/pkg/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting delivery API",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Secrets from Vault override the environment
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault)
		if err != nil {
			logger.Fatal("Failed to create Vault client", zap.Error(err))
		}
		for _, err := range sm.Apply(cfg) {
			logger.Warn("Vault secret not applied", zap.Error(err))
		}
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	if cfg.JWT.Secret == config.DefaultJWTSecret {
		logger.Warn("Using the default JWT secret; set SECRET_KEY before deploying")
	}

	// 4. Initialize OpenTelemetry
	tracerProvider, err := telemetry.InitTracer(cfg.App.Name, cfg.App.Version, cfg.OpenTelemetry)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	healthService := health.NewService(cfg.App.Version, logger)

	// 5. Initialize Storage
	store, err := openStore(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.close()
	healthService.Register("database", store.ping, true)

	// 6. Initialize Cache (rate limiter counters)
	appCache := cache.New(cfg.Redis.URL, logger)
	defer appCache.Close()
	healthService.Register("cache", func(context.Context) error { return appCache.Ping() }, false)

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()
	startEventLoggers(messageQueue, logger)

	// 8. Initialize Services
	credentials := credential.NewStore(store.users, cfg.JWT.BcryptCost, logger)
	tokens := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.TokenDuration, logger)
	authService := auth.NewService(credentials, tokens, messageQueue, logger)
	locationService := location.NewLedger(store.users, logger)
	orderService := order.NewService(store.orders, credentials, messageQueue, logger)

	// 9. Initialize Fiber HTTP Server
	app := router.New(cfg, router.Services{
		Auth:           authService,
		Credentials:    credentials,
		Locations:      locationService,
		Orders:         orderService,
		Health:         healthService,
		LimiterStorage: cache.NewStorage(appCache, "ratelimit:"),
	}, logger)

	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// startEventLoggers logs every domain event seen on the queue.
func startEventLoggers(mq queue.MessageQueue, logger *zap.Logger) {
	for _, subject := range []string{queue.SubjectUserRegistered, queue.SubjectOrderCreated} {
		err := mq.Subscribe(subject, func(data []byte) error {
			evt, err := queue.DecodeEvent(data, nil)
			if err != nil {
				logger.Warn("Dropping malformed event", zap.String("subject", subject), zap.Error(err))
				return nil
			}
			logger.Info("Event received",
				zap.String("subject", evt.Subject),
				zap.String("event_id", evt.ID),
				zap.Time("occurred_at", evt.OccurredAt),
			)
			return nil
		})
		if err != nil {
			logger.Warn("Failed to subscribe", zap.String("subject", subject), zap.Error(err))
		}
	}
}
