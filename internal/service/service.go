package service

import (
	"context"

	"pricy/internal/model"
	"pricy/internal/report"
)

// CatalogService defines operations for product and concession management.
type CatalogService interface {
	// AddProduct validates and inserts a new product.
	AddProduct(ctx context.Context, req *model.AddProductRequest) (*model.Product, error)

	// DeleteProduct removes a product and all its price observations.
	DeleteProduct(ctx context.Context, name string) error

	// ListProducts retrieves all products in insertion order.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// AddConcession validates and inserts a new concession.
	AddConcession(ctx context.Context, req *model.AddConcessionRequest) (*model.Concession, error)

	// DeleteConcession removes a concession and all its price observations.
	DeleteConcession(ctx context.Context, name string) error

	// ListConcessions retrieves all concessions in insertion order.
	ListConcessions(ctx context.Context) ([]model.Concession, error)
}

// PriceService defines operations for recording and reading observations.
type PriceService interface {
	// AddPrice validates and records a new price observation.
	AddPrice(ctx context.Context, req *model.AddPriceRequest) (*model.Price, error)

	// ListPrices retrieves observations matching the filter, in insertion order.
	ListPrices(ctx context.Context, filter report.Filter) ([]model.Price, error)
}

// BenchmarkService derives the dashboard and benchmark views and the export
// blobs.
type BenchmarkService interface {
	// Dashboard assembles totals, the latest-price view, per-product
	// statistics and the filtered observation rows.
	Dashboard(ctx context.Context, filter report.Filter) (*Dashboard, error)

	// Benchmark assembles the per-concession time series and latest
	// comparison for one product.
	Benchmark(ctx context.Context, product string) (*Benchmark, error)

	// Export serialises one product's observations to the requested format.
	Export(ctx context.Context, product, format string) (*ExportFile, error)
}

// Totals are the dashboard's aggregate counters.
type Totals struct {
	Products     int `json:"products"`
	Concessions  int `json:"concessions"`
	Observations int `json:"observations"`
}

// Dashboard is the aggregate view backing the dashboard screen.
type Dashboard struct {
	Totals   Totals               `json:"totals"`
	Latest   []model.Price        `json:"latest"`
	Stats    []report.ProductStats `json:"stats"`
	Filtered []model.Price        `json:"filtered"`
}

// Benchmark is the per-product view backing the benchmark screen.
type Benchmark struct {
	Product string          `json:"product"`
	Series  []report.Series `json:"series"`
	Latest  []model.Price   `json:"latest"`
}

// ExportFile is a downloadable serialisation of one product's observations.
type ExportFile struct {
	Filename string
	MIME     string
	Data     []byte
}

// Export format names accepted by BenchmarkService.Export.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)
