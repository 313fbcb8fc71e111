package service

import (
	"context"
	"fmt"
	"strings"

	"pricy/internal/model"
	"pricy/internal/storage"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store storage.Store, logger zerolog.Logger) CatalogService {
	return &catalogService{
		store:  store,
		logger: logger.With().Str("service", "catalog").Logger(),
	}
}

// AddProduct validates and inserts a new product.
func (s *catalogService) AddProduct(ctx context.Context, req *model.AddProductRequest) (*model.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.logger.Warn().Msg("product name is empty")
		return nil, model.ErrProductNameRequired
	}

	category := model.Category(req.Category)
	if !category.Valid() {
		s.logger.Warn().Str("category", req.Category).Msg("invalid product category")
		return nil, model.ErrInvalidCategory
	}

	product, err := s.store.AddProduct(ctx, model.Product{
		Name:     name,
		Category: category,
		Notes:    req.Notes,
	})
	if err != nil {
		if err == model.ErrDuplicateProduct {
			return nil, err
		}
		s.logger.Error().Err(err).Str("name", name).Msg("failed to add product")
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.Info().Str("name", product.Name).Str("category", string(product.Category)).Msg("product added")
	return &product, nil
}

// DeleteProduct removes a product and cascades to its observations.
func (s *catalogService) DeleteProduct(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ErrProductNameRequired
	}

	if err := s.store.DeleteProduct(ctx, name); err != nil {
		if err == model.ErrProductNotFound {
			return err
		}
		s.logger.Error().Err(err).Str("name", name).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Str("name", name).Msg("product deleted")
	return nil
}

// ListProducts retrieves all products.
func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")
	return products, nil
}

// AddConcession validates and inserts a new concession.
func (s *catalogService) AddConcession(ctx context.Context, req *model.AddConcessionRequest) (*model.Concession, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.logger.Warn().Msg("concession name is empty")
		return nil, model.ErrConcessionNameRequired
	}

	location := model.Location(req.Location)
	if !location.Valid() {
		s.logger.Warn().Str("location", req.Location).Msg("invalid concession location")
		return nil, model.ErrInvalidLocation
	}

	concession, err := s.store.AddConcession(ctx, model.Concession{
		Name:     name,
		Location: location,
		Notes:    req.Notes,
	})
	if err != nil {
		if err == model.ErrDuplicateConcession {
			return nil, err
		}
		s.logger.Error().Err(err).Str("name", name).Msg("failed to add concession")
		return nil, fmt.Errorf("failed to add concession: %w", err)
	}

	s.logger.Info().Str("name", concession.Name).Str("location", string(concession.Location)).Msg("concession added")
	return &concession, nil
}

// DeleteConcession removes a concession and cascades to its observations.
func (s *catalogService) DeleteConcession(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ErrConcessionNameRequired
	}

	if err := s.store.DeleteConcession(ctx, name); err != nil {
		if err == model.ErrConcessionNotFound {
			return err
		}
		s.logger.Error().Err(err).Str("name", name).Msg("failed to delete concession")
		return fmt.Errorf("failed to delete concession: %w", err)
	}

	s.logger.Info().Str("name", name).Msg("concession deleted")
	return nil
}

// ListConcessions retrieves all concessions.
func (s *catalogService) ListConcessions(ctx context.Context) ([]model.Concession, error) {
	concessions, err := s.store.ListConcessions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list concessions")
		return nil, fmt.Errorf("failed to list concessions: %w", err)
	}

	s.logger.Debug().Int("count", len(concessions)).Msg("retrieved concessions")
	return concessions, nil
}
