package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/homedash-core/internal/automation"
	"github.com/nerrad567/homedash-core/internal/device"
	"github.com/nerrad567/homedash-core/internal/storage"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeInternal       = "internal_error"
	ErrCodeValidation     = "validation_error"
	ErrCodeUnprocessable  = "unsupported_operation"
	ErrCodeUnavailable    = "unavailable"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeDomainError maps the sentinel errors of the domain packages onto
// HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, device.ErrRoomNotFound),
		errors.Is(err, device.ErrDeviceNotFound),
		errors.Is(err, automation.ErrSceneNotFound),
		errors.Is(err, automation.ErrUnknownRoom),
		errors.Is(err, storage.ErrNotFound):
		writeNotFound(w, err.Error())
	case errors.Is(err, device.ErrWrongDeviceType):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeUnprocessable, err.Error())
	case errors.Is(err, device.ErrInvalidDirection),
		errors.Is(err, device.ErrInvalidConfig),
		errors.Is(err, automation.ErrInvalidScene),
		errors.Is(err, automation.ErrInvalidName),
		errors.Is(err, automation.ErrNoActions),
		errors.Is(err, automation.ErrInvalidAction),
		errors.Is(err, automation.ErrUnknownProperty),
		errors.Is(err, storage.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, storage.ErrRemoteUnavailable):
		writeError(w, http.StatusBadGateway, ErrCodeUnavailable, err.Error())
	default:
		writeInternalError(w, "internal server error")
	}
}
