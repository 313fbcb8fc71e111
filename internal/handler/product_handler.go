package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"pricy/internal/model"
	"pricy/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req model.AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	product, err := h.service.AddProduct(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Delete handles DELETE /api/products/{name} requests.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	name, ok := pathSuffix(r.URL.Path, "/api/products/")
	if !ok {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "product name is required", h.logger)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), name); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathSuffix extracts and unescapes the path segment after prefix. Names may
// contain spaces and other escaped characters.
func pathSuffix(path, prefix string) (string, bool) {
	if len(path) <= len(prefix) {
		return "", false
	}
	suffix, err := url.PathUnescape(path[len(prefix):])
	if err != nil || suffix == "" {
		return "", false
	}
	return suffix, true
}
