package handler

import (
	"encoding/json"
	"net/http"

	"pricy/internal/model"
	"pricy/internal/report"
	"pricy/internal/service"

	"github.com/rs/zerolog"
)

// PriceHandler handles price observation HTTP requests.
type PriceHandler struct {
	service service.PriceService
	logger  zerolog.Logger
}

// NewPriceHandler creates a new price handler.
func NewPriceHandler(service service.PriceService, logger zerolog.Logger) *PriceHandler {
	return &PriceHandler{
		service: service,
		logger:  logger.With().Str("handler", "price").Logger(),
	}
}

// List handles GET /api/prices requests with optional product, concession and
// location filters.
func (h *PriceHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	filter, ok := filterFromQuery(w, r, h.logger)
	if !ok {
		return
	}

	prices, err := h.service.ListPrices(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if prices == nil {
		prices = []model.Price{}
	}

	writeJSON(w, http.StatusOK, prices)
}

// Create handles POST /api/prices requests.
func (h *PriceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req model.AddPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	price, err := h.service.AddPrice(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, price)
}

// filterFromQuery parses the shared filter query parameters. An unknown
// location value is rejected rather than silently matching nothing.
func filterFromQuery(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (report.Filter, bool) {
	query := r.URL.Query()
	filter := report.Filter{
		Product:    query.Get("product"),
		Concession: query.Get("concession"),
	}

	if location := query.Get("location"); location != "" {
		tag := model.Location(location)
		if !tag.Valid() {
			writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidLocation,
				"invalid location filter", logger)
			return report.Filter{}, false
		}
		filter.Location = tag
	}

	return filter, true
}
