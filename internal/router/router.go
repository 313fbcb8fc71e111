package router

import (
	"net/http"
	"strings"

	"pricy/internal/handler"
	"pricy/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	concessionHandler *handler.ConcessionHandler,
	priceHandler *handler.PriceHandler,
	benchmarkHandler *handler.BenchmarkHandler,
	healthHandler *handler.HealthHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", healthHandler.Health)

	// Product routes: collection GET/POST, member DELETE
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" && r.URL.Path != "/api/products/" {
			productHandler.Delete(w, r)
			return
		}
		if r.Method == http.MethodPost {
			productHandler.Create(w, r)
			return
		}
		productHandler.List(w, r)
	}
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Concession routes, same shape as products
	concessionRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/concessions" && r.URL.Path != "/api/concessions/" {
			concessionHandler.Delete(w, r)
			return
		}
		if r.Method == http.MethodPost {
			concessionHandler.Create(w, r)
			return
		}
		concessionHandler.List(w, r)
	}
	mux.HandleFunc("/api/concessions", concessionRouteHandler)
	mux.HandleFunc("/api/concessions/", concessionRouteHandler)

	// Price routes: collection GET (with filters) / POST only
	priceRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			priceHandler.Create(w, r)
			return
		}
		priceHandler.List(w, r)
	}
	mux.HandleFunc("/api/prices", priceRouteHandler)
	mux.HandleFunc("/api/prices/", priceRouteHandler)

	// Dashboard and benchmark routes
	mux.HandleFunc("/api/dashboard", benchmarkHandler.Dashboard)
	mux.HandleFunc("/api/benchmark/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/benchmark/") && r.URL.Path != "/api/benchmark/" {
			benchmarkHandler.Benchmark(w, r)
			return
		}
		http.Error(w, "not found", http.StatusNotFound)
	})

	// Apply middleware in order: Recovery -> RequestID -> Logging -> CORS -> APIKeyAuth.
	// RequestID sits outside Logging so the request logger sees the correlation ID.
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.RequestID(h)
	h = middleware.Recovery(logger)(h)

	return h
}
