// Package store opens the user repository for the configured driver.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/ports"
	"github.com/99minutos/users-api/internal/infrastructure/db/gormdb"
	"github.com/99minutos/users-api/internal/infrastructure/db/mongo"
	"github.com/99minutos/users-api/internal/pkg/config"
)

// Store is an opened repository together with its readiness check and the
// function that releases its connections.
type Store struct {
	Users   ports.UserRepository
	Checker ports.DependencyChecker
	Close   func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.Database.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres, config.DriverMySQL:
		return openRelational(ctx, cfg, log)
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Database.Driver)
	}
}

func openRelational(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	db, err := gormdb.Open(ctx, gormdb.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, log)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := gormdb.Migrate(ctx, db); err != nil {
			_ = gormdb.Close(db)
			return nil, err
		}
	}

	return &Store{
		Users:   gormdb.NewUserRepository(db),
		Checker: gormdb.NewChecker(db),
		Close:   func(context.Context) error { return gormdb.Close(db) },
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Store, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}

	repo := mongo.NewUserRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Store{
		Users:   repo,
		Checker: mongo.NewChecker(client),
		Close:   client.Disconnect,
	}, nil
}
