package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/searchrail/searchrail/internal/model"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// WriteError writes a standardized error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteDomainError maps the typed error taxonomy onto HTTP statuses:
// NotFound→404, Unauthorized→403, InvalidPosition/Validation→400,
// ConflictRetryExhausted→409, anything else→500.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrUnauthorized):
		WriteForbidden(w, err.Error())
	case errors.Is(err, model.ErrInvalidPosition), errors.Is(err, model.ErrValidation):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflictRetryExhausted):
		WriteError(w, http.StatusConflict, err.Error())
	default:
		WriteInternalError(w, err.Error())
	}
}
