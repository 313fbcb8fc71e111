// Package postgres provides the hosted relational storage backend.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pricy/internal/config"
	"pricy/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes for constraint violations.
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS concessions (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS prices (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	product_id BIGINT NOT NULL REFERENCES products(id),
	concession_id BIGINT NOT NULL REFERENCES concessions(id),
	amount DOUBLE PRECISION NOT NULL CHECK (amount >= 0),
	effective_date DATE NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store persists the three collections in PostgreSQL via a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// Open creates a connection pool, verifies connectivity and ensures the
// schema exists.
func Open(ctx context.Context, cfg config.PostgresConfig, logger zerolog.Logger) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewWithPool(pool, logger)
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info().Msg("postgres storage ready")
	return store, nil
}

// NewWithPool wraps an existing pool. The caller owns schema creation; used
// by tests that provision their own database.
func NewWithPool(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: logger.With().Str("storage", "postgres").Logger(),
	}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// AddProduct inserts a new product, mapping unique violations to the
// duplicate domain error.
func (s *Store) AddProduct(ctx context.Context, product model.Product) (model.Product, error) {
	query := `
		INSERT INTO products (name, category, notes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := s.pool.QueryRow(ctx, query, product.Name, string(product.Category), product.Notes).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Debug().Str("name", product.Name).Msg("duplicate product name")
			return model.Product{}, model.ErrDuplicateProduct
		}
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to insert product")
		return model.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	return product, nil
}

// AddConcession inserts a new concession, mapping unique violations to the
// duplicate domain error.
func (s *Store) AddConcession(ctx context.Context, concession model.Concession) (model.Concession, error) {
	query := `
		INSERT INTO concessions (name, location, notes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := s.pool.QueryRow(ctx, query, concession.Name, string(concession.Location), concession.Notes).
		Scan(&concession.ID, &concession.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Debug().Str("name", concession.Name).Msg("duplicate concession name")
			return model.Concession{}, model.ErrDuplicateConcession
		}
		s.logger.Error().Err(err).Str("name", concession.Name).Msg("failed to insert concession")
		return model.Concession{}, fmt.Errorf("failed to insert concession: %w", err)
	}

	return concession, nil
}

// AddPrice resolves both referenced names and inserts a new observation.
// Resolution and insert run in one transaction so the foreign keys cannot go
// stale between the lookup and the write.
func (s *Store) AddPrice(ctx context.Context, price model.Price) (model.Price, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return model.Price{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID int64
	err = tx.QueryRow(ctx, `SELECT id FROM products WHERE name = $1`, price.Product).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Price{}, model.ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product", price.Product).Msg("failed to resolve product")
		return model.Price{}, fmt.Errorf("failed to resolve product: %w", err)
	}

	var concessionID int64
	err = tx.QueryRow(ctx, `SELECT id FROM concessions WHERE name = $1`, price.Concession).Scan(&concessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Price{}, model.ErrConcessionNotFound
		}
		s.logger.Error().Err(err).Str("concession", price.Concession).Msg("failed to resolve concession")
		return model.Price{}, fmt.Errorf("failed to resolve concession: %w", err)
	}

	query := `
		INSERT INTO prices (product_id, concession_id, amount, effective_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, query, productID, concessionID, price.Amount, price.Date, price.Notes).
		Scan(&price.ID, &price.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			// Referenced row vanished under a concurrent delete.
			return model.Price{}, model.ErrProductNotFound
		}
		s.logger.Error().Err(err).
			Str("product", price.Product).
			Str("concession", price.Concession).
			Msg("failed to insert price")
		return model.Price{}, fmt.Errorf("failed to insert price: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return model.Price{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return price, nil
}

// DeleteProduct removes the named product and its observations in a single
// transaction.
func (s *Store) DeleteProduct(ctx context.Context, name string) error {
	return s.deleteCascade(ctx, name,
		`DELETE FROM prices WHERE product_id IN (SELECT id FROM products WHERE name = $1)`,
		`DELETE FROM products WHERE name = $1`,
		model.ErrProductNotFound,
	)
}

// DeleteConcession removes the named concession and its observations in a
// single transaction.
func (s *Store) DeleteConcession(ctx context.Context, name string) error {
	return s.deleteCascade(ctx, name,
		`DELETE FROM prices WHERE concession_id IN (SELECT id FROM concessions WHERE name = $1)`,
		`DELETE FROM concessions WHERE name = $1`,
		model.ErrConcessionNotFound,
	)
}

// deleteCascade runs the dependent-row delete and the parent delete in one
// transaction; the whole operation rolls back if the parent row is absent.
func (s *Store) deleteCascade(ctx context.Context, name, pricesQuery, parentQuery string, notFound error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	pricesTag, err := tx.Exec(ctx, pricesQuery, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to delete dependent prices")
		return fmt.Errorf("failed to delete dependent prices: %w", err)
	}

	parentTag, err := tx.Exec(ctx, parentQuery, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to delete entity")
		return fmt.Errorf("failed to delete entity: %w", err)
	}

	if parentTag.RowsAffected() == 0 {
		return notFound
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug().
		Str("name", name).
		Int64("prices_removed", pricesTag.RowsAffected()).
		Msg("cascade delete completed")
	return nil
}

// ListProducts returns all products in insertion order.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT id, name, category, notes, created_at
		FROM products
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var category string
		if err := rows.Scan(&p.ID, &p.Name, &category, &p.Notes, &p.CreatedAt); err != nil {
			s.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Category = model.Category(category)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListConcessions returns all concessions in insertion order.
func (s *Store) ListConcessions(ctx context.Context) ([]model.Concession, error) {
	query := `
		SELECT id, name, location, notes, created_at
		FROM concessions
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query concessions")
		return nil, fmt.Errorf("failed to query concessions: %w", err)
	}
	defer rows.Close()

	var concessions []model.Concession
	for rows.Next() {
		var c model.Concession
		var location string
		if err := rows.Scan(&c.ID, &c.Name, &location, &c.Notes, &c.CreatedAt); err != nil {
			s.logger.Error().Err(err).Msg("failed to scan concession row")
			return nil, fmt.Errorf("failed to scan concession: %w", err)
		}
		c.Location = model.Location(location)
		concessions = append(concessions, c)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating concession rows")
		return nil, fmt.Errorf("error iterating concessions: %w", err)
	}

	return concessions, nil
}

// ListPrices returns all observations in insertion order with names resolved.
func (s *Store) ListPrices(ctx context.Context) ([]model.Price, error) {
	query := `
		SELECT pr.id, p.name, c.name, pr.amount, pr.effective_date, pr.notes, pr.created_at
		FROM prices pr
		JOIN products p ON p.id = pr.product_id
		JOIN concessions c ON c.id = pr.concession_id
		ORDER BY pr.id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query prices")
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []model.Price
	for rows.Next() {
		var pr model.Price
		if err := rows.Scan(&pr.ID, &pr.Product, &pr.Concession, &pr.Amount, &pr.Date, &pr.Notes, &pr.CreatedAt); err != nil {
			s.logger.Error().Err(err).Msg("failed to scan price row")
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		prices = append(prices, pr)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating price rows")
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}

	return prices, nil
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrForeignKeyViolation
}
