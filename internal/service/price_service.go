package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pricy/internal/model"
	"pricy/internal/report"
	"pricy/internal/storage"

	"github.com/rs/zerolog"
)

// priceService implements PriceService.
type priceService struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewPriceService creates a new price service.
func NewPriceService(store storage.Store, logger zerolog.Logger) PriceService {
	return &priceService{
		store:  store,
		logger: logger.With().Str("service", "price").Logger(),
	}
}

// AddPrice validates and records a new price observation.
func (s *priceService) AddPrice(ctx context.Context, req *model.AddPriceRequest) (*model.Price, error) {
	product := strings.TrimSpace(req.Product)
	if product == "" {
		s.logger.Warn().Msg("price product name is empty")
		return nil, model.ErrProductNameRequired
	}

	concession := strings.TrimSpace(req.Concession)
	if concession == "" {
		s.logger.Warn().Msg("price concession name is empty")
		return nil, model.ErrConcessionNameRequired
	}

	if req.Amount < 0 {
		s.logger.Warn().Float64("amount", req.Amount).Msg("negative price amount")
		return nil, model.ErrNegativeAmount
	}

	// The entry form defaults the date to today when left blank.
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date != "" {
		parsed, err := time.Parse(model.DateLayout, req.Date)
		if err != nil {
			s.logger.Warn().Str("date", req.Date).Msg("invalid price date")
			return nil, model.ErrInvalidDate
		}
		date = parsed
	}

	price, err := s.store.AddPrice(ctx, model.Price{
		Product:    product,
		Concession: concession,
		Amount:     req.Amount,
		Date:       date,
		Notes:      req.Notes,
	})
	if err != nil {
		if err == model.ErrProductNotFound || err == model.ErrConcessionNotFound {
			return nil, err
		}
		s.logger.Error().Err(err).
			Str("product", product).
			Str("concession", concession).
			Msg("failed to add price")
		return nil, fmt.Errorf("failed to add price: %w", err)
	}

	s.logger.Info().
		Str("product", price.Product).
		Str("concession", price.Concession).
		Float64("amount", price.Amount).
		Str("date", price.Date.Format(model.DateLayout)).
		Msg("price observation recorded")
	return &price, nil
}

// ListPrices retrieves observations matching the filter.
func (s *priceService) ListPrices(ctx context.Context, filter report.Filter) ([]model.Price, error) {
	prices, err := s.store.ListPrices(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list prices")
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	if filter == (report.Filter{}) {
		return prices, nil
	}

	var concessions []model.Concession
	if filter.Location != report.All {
		concessions, err = s.store.ListConcessions(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to list concessions for filter")
			return nil, fmt.Errorf("failed to list concessions: %w", err)
		}
	}

	filtered := filter.Apply(prices, concessions)
	s.logger.Debug().
		Int("total", len(prices)).
		Int("matched", len(filtered)).
		Msg("filtered prices")
	return filtered, nil
}
