package kvstore

import (
	"context"
	"fmt"
	"io"

	"github.com/mabrurgoods/storefront/pkg/config"
	"github.com/mabrurgoods/storefront/pkg/db"
	"github.com/mabrurgoods/storefront/pkg/logger"
	"github.com/mabrurgoods/storefront/pkg/redis"
	"go.uber.org/multierr"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Backend is a configured Store together with the connections that back it.
type Backend struct {
	Store
	driver  string
	pingers []pinger
	closers []io.Closer
}

// Open builds the Store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	backend := &Backend{driver: cfg.Storage.Driver}

	var store Store
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store = NewMemory()
	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis storage: %w", err)
		}
		store = NewRedis(client)
		backend.pingers = append(backend.pingers, client)
		backend.closers = append(backend.closers, client)
	case config.StorageDriverSQLite, config.StorageDriverPostgres:
		client, err := db.New(ctx, cfg.Storage.Driver, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap %s storage: %w", cfg.Storage.Driver, err)
		}
		store = NewSQL(client.DB())
		backend.pingers = append(backend.pingers, client)
		backend.closers = append(backend.closers, client)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	backend.Store = Namespaced(store, cfg.Storage.Namespace)
	return backend, nil
}

// Driver names the configured backend.
func (b *Backend) Driver() string {
	return b.driver
}

// Ping checks every underlying connection.
func (b *Backend) Ping(ctx context.Context) error {
	var errs error
	for _, p := range b.pingers {
		errs = multierr.Append(errs, p.Ping(ctx))
	}
	return errs
}

// Close releases every underlying connection.
func (b *Backend) Close() error {
	var errs error
	for _, c := range b.closers {
		errs = multierr.Append(errs, c.Close())
	}
	return errs
}
