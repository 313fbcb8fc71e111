package handler

import (
	"encoding/json"
	"net/http"

	"pricy/internal/model"
	"pricy/internal/service"

	"github.com/rs/zerolog"
)

// ConcessionHandler handles concession-related HTTP requests.
type ConcessionHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewConcessionHandler creates a new concession handler.
func NewConcessionHandler(service service.CatalogService, logger zerolog.Logger) *ConcessionHandler {
	return &ConcessionHandler{
		service: service,
		logger:  logger.With().Str("handler", "concession").Logger(),
	}
}

// List handles GET /api/concessions requests.
func (h *ConcessionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	concessions, err := h.service.ListConcessions(r.Context())
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if concessions == nil {
		concessions = []model.Concession{}
	}

	writeJSON(w, http.StatusOK, concessions)
}

// Create handles POST /api/concessions requests.
func (h *ConcessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	var req model.AddConcessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	concession, err := h.service.AddConcession(r.Context(), &req)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, concession)
}

// Delete handles DELETE /api/concessions/{name} requests.
func (h *ConcessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, r, http.StatusMethodNotAllowed, model.ErrCodeInternalError, "method not allowed", h.logger)
		return
	}

	name, ok := pathSuffix(r.URL.Path, "/api/concessions/")
	if !ok {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "concession name is required", h.logger)
		return
	}

	if err := h.service.DeleteConcession(r.Context(), name); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
