// Package store opens the configured backend and builds its repositories.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/category"
	"bookshelf/internal/config"
	"bookshelf/internal/platform/mongodb"
	"bookshelf/internal/platform/postgres"
)

// Store bundles the repositories of one backend.
type Store struct {
	Categories category.Repository
	Books      book.Repository

	// Ready pings the backend.
	Ready func(context.Context) error

	close func(context.Context) error
}

// Open connects to cfg.StoreDriver and prepares indexes or tables.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, cfg.StoreDriver)
	}
}

// NewMemory returns a store that lives in process memory.
func NewMemory() *Store {
	return &Store{
		Categories: category.NewMemoryRepo(),
		Books:      book.NewMemoryRepo(),
		Ready:      func(context.Context) error { return nil },
		close:      func(context.Context) error { return nil },
	}
}

func openMongo(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Store, error) {
	client, err := mongodb.Connect(ctx, cfg.Mongo, logger)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Mongo.Database)

	books := book.NewMongoRepo(db, cfg.QueryTimeout)
	if err := books.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("connected to mongo", zap.String("database", cfg.Mongo.Database))
	return &Store{
		Categories: category.NewMongoRepo(db, cfg.QueryTimeout),
		Books:      books,
		Ready:      mongodb.Healthcheck(client),
		close:      client.Disconnect,
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Store, error) {
	pool, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, err
	}

	categories := category.NewPostgresRepo(pool, cfg.QueryTimeout)
	books := book.NewPostgresRepo(pool, cfg.QueryTimeout)
	for _, ensure := range []func(context.Context) error{categories.EnsureSchema, books.EnsureSchema} {
		if err := ensure(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}

	logger.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.Postgres.DSN)))
	return &Store{
		Categories: categories,
		Books:      books,
		Ready:      postgres.Healthcheck(pool),
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	return s.close(ctx)
}
