package domain

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// trip does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, end date before start date).
// Handlers should map this to HTTP 400.
var ErrValidation = errors.New("validation error")

// ErrInvalidRange is returned when a date-range query is requested with an
// end date before its start date. It is distinct from ErrValidation because
// it concerns query parameters, not record content.
var ErrInvalidRange = errors.New("invalid date range")

// ValidationError carries the individual violations behind a failed
// validation. Keys are transfer-shape field names; the cross-field
// start/end ordering rule is reported under the dedicated "dateRange" key.
// It unwraps to ErrValidation so errors.Is keeps working on wrapped chains.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
