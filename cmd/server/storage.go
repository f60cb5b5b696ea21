package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/logdeltra/delivery-api/internal/adapter/storage/mongo"
	"github.com/logdeltra/delivery-api/internal/adapter/storage/postgres"
	"github.com/logdeltra/delivery-api/internal/ports"
	"github.com/logdeltra/delivery-api/pkg/config"
)

type repositories struct {
	users  ports.UserRepository
	orders ports.OrderRepository
	ping   func(ctx context.Context) error
	close  func()
}

// openStore connects the repositories selected by cfg.Driver.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*repositories, error) {
	switch cfg.Driver {
	case "mongo":
		db, err := mongo.NewConnection(ctx, cfg.URL, cfg.Name, cfg.ConnectTimeout, logger)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := mongo.EnsureIndexes(ctx, db); err != nil {
				return nil, fmt.Errorf("failed to create indexes: %w", err)
			}
		}
		return &repositories{
			users:  mongo.NewUserRepository(db, logger),
			orders: mongo.NewOrderRepository(db, logger),
			ping:   func(ctx context.Context) error { return mongo.Ping(ctx, db) },
			close: func() {
				if err := mongo.Close(context.Background(), db); err != nil {
					logger.Error("Error closing MongoDB client", zap.Error(err))
				}
			},
		}, nil

	case "postgres":
		db, err := postgres.NewConnection(cfg, logger)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.RunMigrations(db); err != nil {
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		return &repositories{
			users:  postgres.NewUserRepository(db, logger),
			orders: postgres.NewOrderRepository(db, logger),
			ping:   func(ctx context.Context) error { return postgres.Ping(ctx, db) },
			close: func() {
				if err := postgres.Close(db); err != nil {
					logger.Error("Error closing PostgreSQL pool", zap.Error(err))
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
