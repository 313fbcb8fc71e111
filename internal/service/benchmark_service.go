package service

import (
	"context"
	"fmt"
	"strings"

	"pricy/internal/export"
	"pricy/internal/model"
	"pricy/internal/report"
	"pricy/internal/storage"

	"github.com/rs/zerolog"
)

// benchmarkService implements BenchmarkService.
type benchmarkService struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewBenchmarkService creates a new benchmark service.
func NewBenchmarkService(store storage.Store, logger zerolog.Logger) BenchmarkService {
	return &benchmarkService{
		store:  store,
		logger: logger.With().Str("service", "benchmark").Logger(),
	}
}

// Dashboard assembles the aggregate view for the dashboard screen.
func (s *benchmarkService) Dashboard(ctx context.Context, filter report.Filter) (*Dashboard, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products for dashboard")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	concessions, err := s.store.ListConcessions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list concessions for dashboard")
		return nil, fmt.Errorf("failed to list concessions: %w", err)
	}

	prices, err := s.store.ListPrices(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list prices for dashboard")
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	dashboard := &Dashboard{
		Totals: Totals{
			Products:     len(products),
			Concessions:  len(concessions),
			Observations: len(prices),
		},
		Latest:   report.Latest(prices),
		Stats:    report.Stats(prices),
		Filtered: filter.Apply(prices, concessions),
	}

	s.logger.Debug().
		Int("products", dashboard.Totals.Products).
		Int("concessions", dashboard.Totals.Concessions).
		Int("observations", dashboard.Totals.Observations).
		Msg("dashboard assembled")
	return dashboard, nil
}

// Benchmark assembles the time-series view for one product.
func (s *benchmarkService) Benchmark(ctx context.Context, product string) (*Benchmark, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, model.ErrProductNameRequired
	}

	if err := s.requireProduct(ctx, product); err != nil {
		return nil, err
	}

	prices, err := s.store.ListPrices(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list prices for benchmark")
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	productPrices := report.ForProduct(prices, product)

	return &Benchmark{
		Product: product,
		Series:  report.TimeSeries(prices, product),
		Latest:  report.Latest(productPrices),
	}, nil
}

// Export serialises one product's observations to the requested format.
func (s *benchmarkService) Export(ctx context.Context, product, format string) (*ExportFile, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, model.ErrProductNameRequired
	}

	if format != FormatCSV && format != FormatExcel {
		s.logger.Warn().Str("format", format).Msg("unknown export format")
		return nil, model.ErrInvalidExportFormat
	}

	if err := s.requireProduct(ctx, product); err != nil {
		return nil, err
	}

	prices, err := s.store.ListPrices(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list prices for export")
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	productPrices := report.ForProduct(prices, product)

	var file *ExportFile
	switch format {
	case FormatCSV:
		data, err := export.CSV(productPrices)
		if err != nil {
			s.logger.Error().Err(err).Str("product", product).Msg("failed to build csv export")
			return nil, fmt.Errorf("failed to build csv export: %w", err)
		}
		file = &ExportFile{
			Filename: export.CSVFilename(product),
			MIME:     export.MIMECSV,
			Data:     data,
		}
	case FormatExcel:
		data, err := export.Workbook(productPrices)
		if err != nil {
			s.logger.Error().Err(err).Str("product", product).Msg("failed to build workbook export")
			return nil, fmt.Errorf("failed to build workbook export: %w", err)
		}
		file = &ExportFile{
			Filename: export.WorkbookFilename(product),
			MIME:     export.MIMEWorkbook,
			Data:     data,
		}
	}

	s.logger.Info().
		Str("product", product).
		Str("format", format).
		Int("rows", len(productPrices)).
		Int("bytes", len(file.Data)).
		Msg("export generated")
	return file, nil
}

func (s *benchmarkService) requireProduct(ctx context.Context, name string) error {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return fmt.Errorf("failed to list products: %w", err)
	}
	for _, p := range products {
		if p.Name == name {
			return nil
		}
	}
	s.logger.Debug().Str("name", name).Msg("product not found")
	return model.ErrProductNotFound
}
