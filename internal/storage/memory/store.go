// Package memory provides a per-process, session-scoped storage backend.
// Data lives only as long as the store itself; there is no persistence
// contract.
package memory

import (
	"context"
	"sync"
	"time"

	"pricy/internal/model"

	"github.com/rs/zerolog"
)

// Store keeps all three collections in process memory behind a single mutex.
// Holding one lock across the cascade keeps deletes atomic with respect to
// concurrent readers.
type Store struct {
	mu sync.RWMutex

	products    []model.Product
	concessions []model.Concession
	prices      []model.Price

	nextProductID    int64
	nextConcessionID int64
	nextPriceID      int64

	logger zerolog.Logger
}

// New creates an empty in-memory store.
func New(logger zerolog.Logger) *Store {
	return &Store{
		nextProductID:    1,
		nextConcessionID: 1,
		nextPriceID:      1,
		logger:           logger.With().Str("storage", "memory").Logger(),
	}
}

// AddProduct inserts a new product, rejecting duplicate names.
func (s *Store) AddProduct(ctx context.Context, product model.Product) (model.Product, error) {
	if err := ctx.Err(); err != nil {
		return model.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.Name == product.Name {
			return model.Product{}, model.ErrDuplicateProduct
		}
	}

	product.ID = s.nextProductID
	s.nextProductID++
	product.CreatedAt = time.Now().UTC()
	s.products = append(s.products, product)

	s.logger.Debug().Str("name", product.Name).Msg("product added")
	return product, nil
}

// AddConcession inserts a new concession, rejecting duplicate names.
func (s *Store) AddConcession(ctx context.Context, concession model.Concession) (model.Concession, error) {
	if err := ctx.Err(); err != nil {
		return model.Concession{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.concessions {
		if c.Name == concession.Name {
			return model.Concession{}, model.ErrDuplicateConcession
		}
	}

	concession.ID = s.nextConcessionID
	s.nextConcessionID++
	concession.CreatedAt = time.Now().UTC()
	s.concessions = append(s.concessions, concession)

	s.logger.Debug().Str("name", concession.Name).Msg("concession added")
	return concession, nil
}

// AddPrice inserts a new price observation after resolving both references.
func (s *Store) AddPrice(ctx context.Context, price model.Price) (model.Price, error) {
	if err := ctx.Err(); err != nil {
		return model.Price{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasProduct(price.Product) {
		return model.Price{}, model.ErrProductNotFound
	}
	if !s.hasConcession(price.Concession) {
		return model.Price{}, model.ErrConcessionNotFound
	}

	price.ID = s.nextPriceID
	s.nextPriceID++
	price.CreatedAt = time.Now().UTC()
	s.prices = append(s.prices, price)

	s.logger.Debug().
		Str("product", price.Product).
		Str("concession", price.Concession).
		Float64("amount", price.Amount).
		Msg("price observation added")
	return price, nil
}

// DeleteProduct removes the named product and all observations referencing it.
func (s *Store) DeleteProduct(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, p := range s.products {
		if p.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ErrProductNotFound
	}

	s.products = append(s.products[:idx], s.products[idx+1:]...)

	kept := s.prices[:0]
	removed := 0
	for _, price := range s.prices {
		if price.Product == name {
			removed++
			continue
		}
		kept = append(kept, price)
	}
	s.prices = kept

	s.logger.Debug().Str("name", name).Int("prices_removed", removed).Msg("product deleted")
	return nil
}

// DeleteConcession removes the named concession and all observations referencing it.
func (s *Store) DeleteConcession(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.concessions {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ErrConcessionNotFound
	}

	s.concessions = append(s.concessions[:idx], s.concessions[idx+1:]...)

	kept := s.prices[:0]
	removed := 0
	for _, price := range s.prices {
		if price.Concession == name {
			removed++
			continue
		}
		kept = append(kept, price)
	}
	s.prices = kept

	s.logger.Debug().Str("name", name).Int("prices_removed", removed).Msg("concession deleted")
	return nil
}

// ListProducts returns a snapshot of all products in insertion order.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// ListConcessions returns a snapshot of all concessions in insertion order.
func (s *Store) ListConcessions(ctx context.Context) ([]model.Concession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Concession, len(s.concessions))
	copy(out, s.concessions)
	return out, nil
}

// ListPrices returns a snapshot of all price observations in insertion order.
func (s *Store) ListPrices(ctx context.Context) ([]model.Price, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Price, len(s.prices))
	copy(out, s.prices)
	return out, nil
}

// Ping always succeeds for the in-memory backend.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error {
	return nil
}

func (s *Store) hasProduct(name string) bool {
	for _, p := range s.products {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) hasConcession(name string) bool {
	for _, c := range s.concessions {
		if c.Name == name {
			return true
		}
	}
	return false
}
