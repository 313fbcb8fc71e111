package storage

import (
	"context"
	"fmt"

	"pricy/internal/config"
	"pricy/internal/model"
	"pricy/internal/storage/memory"
	"pricy/internal/storage/postgres"
	"pricy/internal/storage/sqlite"

	"github.com/rs/zerolog"
)

// Store is the storage contract shared by all backends. Conflict and
// not-found conditions are reported as model domain errors; anything else is
// an infrastructure error wrapped with context.
type Store interface {
	// AddProduct inserts a new product. Returns model.ErrDuplicateProduct if
	// a product with the same name already exists.
	AddProduct(ctx context.Context, product model.Product) (model.Product, error)

	// AddConcession inserts a new concession. Returns
	// model.ErrDuplicateConcession on a name conflict.
	AddConcession(ctx context.Context, concession model.Concession) (model.Concession, error)

	// AddPrice inserts a new price observation. Both referenced names must
	// resolve to existing entities at insertion time; returns
	// model.ErrProductNotFound or model.ErrConcessionNotFound otherwise.
	// Observations are never overwritten; repeated inserts for the same
	// pair and date accumulate.
	AddPrice(ctx context.Context, price model.Price) (model.Price, error)

	// DeleteProduct removes the named product and, atomically, every price
	// observation referencing it. Returns model.ErrProductNotFound if absent.
	DeleteProduct(ctx context.Context, name string) error

	// DeleteConcession is symmetric to DeleteProduct.
	DeleteConcession(ctx context.Context, name string) error

	// ListProducts returns all products in insertion order.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// ListConcessions returns all concessions in insertion order.
	ListConcessions(ctx context.Context) ([]model.Concession, error)

	// ListPrices returns all price observations in insertion order, with
	// product and concession names resolved.
	ListPrices(ctx context.Context) ([]model.Price, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Open creates the storage backend selected by the configuration.
func Open(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Info().Str("driver", cfg.Driver).Msg("using in-memory storage, data will not survive restarts")
		return memory.New(logger), nil
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.Postgres, logger)
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.SQLite.Path, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
