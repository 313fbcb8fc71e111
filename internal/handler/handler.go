package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"pricy/internal/middleware"
	"pricy/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	correlationID := middleware.CorrelationID(r.Context())
	logger.Error().
		Str("error", message).
		Int("status", status).
		Str("correlation_id", correlationID).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: correlationID,
	})
}

// writeDomainError maps a service error to an HTTP response. Domain errors
// carry their own code; anything else is an infrastructure failure.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, r, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// statusForCode translates the error taxonomy to HTTP status codes:
// validation 400, conflict 409, not-found 404.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeDuplicateName:
		return http.StatusConflict
	case model.ErrCodeProductNotFound, model.ErrCodeConcessionNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeInvalidCategory,
		model.ErrCodeInvalidLocation, model.ErrCodeInvalidAmount, model.ErrCodeInvalidDate,
		model.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
