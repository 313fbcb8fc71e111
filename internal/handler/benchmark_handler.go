package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pricy/internal/model"
	"pricy/internal/service"

	"github.com/rs/zerolog"
)

// BenchmarkHandler handles dashboard, benchmark and export HTTP requests.
type BenchmarkHandler struct {
	service service.BenchmarkService
	logger  zerolog.Logger
}

// NewBenchmarkHandler creates a new benchmark handler.
func NewBenchmarkHandler(service service.BenchmarkService, logger zerolog.Logger) *BenchmarkHandler {
	return &BenchmarkHandler{
		service: service,
		logger:  logger.With().Str("handler", "benchmark").Logger(),
	}
}

// Dashboard handles GET /api/dashboard requests.
func (h *BenchmarkHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	filter, ok := filterFromQuery(w, r, h.logger)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// Benchmark handles GET /api/benchmark/{product} and
// GET /api/benchmark/{product}/export requests.
func (h *BenchmarkHandler) Benchmark(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	suffix, ok := pathSuffix(r.URL.Path, "/api/benchmark/")
	if !ok {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "product name is required", h.logger)
		return
	}

	if product, found := strings.CutSuffix(suffix, "/export"); found {
		h.export(w, r, product)
		return
	}

	benchmark, err := h.service.Benchmark(r.Context(), suffix)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, benchmark)
}

// export streams the download blob for one product.
func (h *BenchmarkHandler) export(w http.ResponseWriter, r *http.Request, product string) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = service.FormatCSV
	}

	file, err := h.service.Export(r.Context(), product, format)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", file.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.Error().Err(err).Str("product", product).Msg("failed to stream export")
	}
}
