package handler

import (
	"net/http"

	"pricy/internal/storage"

	"github.com/rs/zerolog"
)

// HealthHandler reports process liveness and storage reachability.
type HealthHandler struct {
	store  storage.Store
	logger zerolog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store storage.Store, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("storage ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
