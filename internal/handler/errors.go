package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tripmanagement/backend/internal/domain"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code, a human-readable message,
// and, for validation failures, the per-field violations keyed by
// transfer-shape field name (plus "dateRange" for the cross-field rule).
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON writes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeDomainError maps service errors onto HTTP responses.
// Anything not explicitly classified is an opaque 500 — the cause is logged,
// never leaked to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code:    "validation_error",
			Message: "Input validation failed",
			Fields:  ve.Fields,
		}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code:    "validation_error",
			Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrInvalidRange):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code:    "invalid_range",
			Message: unwrapMessage(err),
		}})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{
			Code:    "not_found",
			Message: "trip not found",
		}})
	default:
		slog.Error("unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{
			Code:    "internal_error",
			Message: "internal server error",
		}})
	}
}

// writeRequestError rejects a request before it reaches the service layer
// (e.g. missing or malformed body).
func writeRequestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
		Code:    "validation_error",
		Message: message,
	}})
}

// writeFieldError rejects a request over a single bad parameter, reporting
// it in the same fields map shape validation failures use.
func writeFieldError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
		Code:    "validation_error",
		Message: "Input validation failed",
		Fields:  map[string]string{field: message},
	}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.ListInRange: invalid date range: end date must be
// after start date" → "end date must be after start date".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sep := range []string{"invalid date range: ", "validation error: "} {
		if i := strings.Index(msg, sep); i >= 0 {
			return msg[i+len(sep):]
		}
	}
	return msg
}
