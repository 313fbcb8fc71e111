// Package sqlite provides the embedded file-backed storage backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pricy/internal/model"

	"github.com/rs/zerolog"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS concessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS prices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL REFERENCES products(id),
	concession_id INTEGER NOT NULL REFERENCES concessions(id),
	amount REAL NOT NULL CHECK (amount >= 0),
	effective_date TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
`

// Store persists the three collections in a local SQLite file.
type Store struct {
	sqlDB  *sql.DB
	logger zerolog.Logger
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (or creates) the SQLite database at path and ensures the schema.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger = logger.With().Str("storage", "sqlite").Logger()
	logger.Info().Str("path", cleanPath).Msg("sqlite storage ready")

	return &Store{sqlDB: sqlDB, logger: logger}, nil
}

// AddProduct inserts a new product, mapping unique violations to the
// duplicate domain error.
func (s *Store) AddProduct(ctx context.Context, product model.Product) (model.Product, error) {
	product.CreatedAt = time.Now().UTC()

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO products (name, category, notes, created_at) VALUES (?, ?, ?, ?)`,
		product.Name, string(product.Category), product.Notes, toMillis(product.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Debug().Str("name", product.Name).Msg("duplicate product name")
			return model.Product{}, model.ErrDuplicateProduct
		}
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to insert product")
		return model.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}

	product.ID, err = res.LastInsertId()
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to read product id: %w", err)
	}
	return product, nil
}

// AddConcession inserts a new concession, mapping unique violations to the
// duplicate domain error.
func (s *Store) AddConcession(ctx context.Context, concession model.Concession) (model.Concession, error) {
	concession.CreatedAt = time.Now().UTC()

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO concessions (name, location, notes, created_at) VALUES (?, ?, ?, ?)`,
		concession.Name, string(concession.Location), concession.Notes, toMillis(concession.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.Debug().Str("name", concession.Name).Msg("duplicate concession name")
			return model.Concession{}, model.ErrDuplicateConcession
		}
		s.logger.Error().Err(err).Str("name", concession.Name).Msg("failed to insert concession")
		return model.Concession{}, fmt.Errorf("failed to insert concession: %w", err)
	}

	concession.ID, err = res.LastInsertId()
	if err != nil {
		return model.Concession{}, fmt.Errorf("failed to read concession id: %w", err)
	}
	return concession, nil
}

// AddPrice resolves both referenced names and inserts a new observation
// within one transaction.
func (s *Store) AddPrice(ctx context.Context, price model.Price) (model.Price, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return model.Price{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var productID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM products WHERE name = ?`, price.Product).Scan(&productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Price{}, model.ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product", price.Product).Msg("failed to resolve product")
		return model.Price{}, fmt.Errorf("failed to resolve product: %w", err)
	}

	var concessionID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM concessions WHERE name = ?`, price.Concession).Scan(&concessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Price{}, model.ErrConcessionNotFound
		}
		s.logger.Error().Err(err).Str("concession", price.Concession).Msg("failed to resolve concession")
		return model.Price{}, fmt.Errorf("failed to resolve concession: %w", err)
	}

	price.CreatedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO prices (product_id, concession_id, amount, effective_date, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		productID, concessionID, price.Amount, price.Date.Format(model.DateLayout), price.Notes, toMillis(price.CreatedAt))
	if err != nil {
		s.logger.Error().Err(err).
			Str("product", price.Product).
			Str("concession", price.Concession).
			Msg("failed to insert price")
		return model.Price{}, fmt.Errorf("failed to insert price: %w", err)
	}

	price.ID, err = res.LastInsertId()
	if err != nil {
		return model.Price{}, fmt.Errorf("failed to read price id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return model.Price{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return price, nil
}

// DeleteProduct removes the named product and its observations in a single
// transaction.
func (s *Store) DeleteProduct(ctx context.Context, name string) error {
	return s.deleteCascade(ctx, name,
		`DELETE FROM prices WHERE product_id IN (SELECT id FROM products WHERE name = ?)`,
		`DELETE FROM products WHERE name = ?`,
		model.ErrProductNotFound,
	)
}

// DeleteConcession removes the named concession and its observations in a
// single transaction.
func (s *Store) DeleteConcession(ctx context.Context, name string) error {
	return s.deleteCascade(ctx, name,
		`DELETE FROM prices WHERE concession_id IN (SELECT id FROM concessions WHERE name = ?)`,
		`DELETE FROM concessions WHERE name = ?`,
		model.ErrConcessionNotFound,
	)
}

func (s *Store) deleteCascade(ctx context.Context, name, pricesQuery, parentQuery string, notFound error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pricesRes, err := tx.ExecContext(ctx, pricesQuery, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to delete dependent prices")
		return fmt.Errorf("failed to delete dependent prices: %w", err)
	}

	parentRes, err := tx.ExecContext(ctx, parentQuery, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to delete entity")
		return fmt.Errorf("failed to delete entity: %w", err)
	}

	affected, err := parentRes.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	removed, _ := pricesRes.RowsAffected()
	s.logger.Debug().Str("name", name).Int64("prices_removed", removed).Msg("cascade delete completed")
	return nil
}

// ListProducts returns all products in insertion order.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, category, notes, created_at FROM products ORDER BY id`)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var category string
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Name, &category, &p.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Category = model.Category(category)
		p.CreatedAt = fromMillis(createdAt)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListConcessions returns all concessions in insertion order.
func (s *Store) ListConcessions(ctx context.Context) ([]model.Concession, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, location, notes, created_at FROM concessions ORDER BY id`)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query concessions")
		return nil, fmt.Errorf("failed to query concessions: %w", err)
	}
	defer rows.Close()

	var concessions []model.Concession
	for rows.Next() {
		var c model.Concession
		var location string
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.Name, &location, &c.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan concession: %w", err)
		}
		c.Location = model.Location(location)
		c.CreatedAt = fromMillis(createdAt)
		concessions = append(concessions, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating concessions: %w", err)
	}

	return concessions, nil
}

// ListPrices returns all observations in insertion order with names resolved.
func (s *Store) ListPrices(ctx context.Context) ([]model.Price, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
		SELECT pr.id, p.name, c.name, pr.amount, pr.effective_date, pr.notes, pr.created_at
		FROM prices pr
		JOIN products p ON p.id = pr.product_id
		JOIN concessions c ON c.id = pr.concession_id
		ORDER BY pr.id`)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to query prices")
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer rows.Close()

	var prices []model.Price
	for rows.Next() {
		var pr model.Price
		var date string
		var createdAt int64
		if err := rows.Scan(&pr.ID, &pr.Product, &pr.Concession, &pr.Amount, &date, &pr.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		pr.Date, err = time.Parse(model.DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored date %q: %w", date, err)
		}
		pr.CreatedAt = fromMillis(createdAt)
		prices = append(prices, pr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices: %w", err)
	}

	return prices, nil
}

// Ping verifies the database file is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
