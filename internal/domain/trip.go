// Package domain contains the core data types for the trip management service.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"fmt"
	"time"
)

// TripStatus is the closed set of lifecycle states a trip can be in.
type TripStatus string

const (
	StatusPlanned   TripStatus = "PLANNED"
	StatusOngoing   TripStatus = "ONGOING"
	StatusCompleted TripStatus = "COMPLETED"
)

// Valid reports whether s is one of the known status values.
func (s TripStatus) Valid() bool {
	switch s {
	case StatusPlanned, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// ParseTripStatus converts a raw string (e.g. a query parameter) into a
// TripStatus, rejecting anything outside the known set.
func ParseTripStatus(raw string) (TripStatus, error) {
	s := TripStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: status must be one of PLANNED, ONGOING, COMPLETED", ErrValidation)
	}
	return s, nil
}

// Trip is the stored record shape. ID is 0 until the repository assigns one
// on first save and is immutable afterwards. StartDate and EndDate are
// calendar dates carried at UTC midnight; no time-of-day component is kept.
type Trip struct {
	ID          int64
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Price       float64
	Status      TripStatus
}

// DateRangeValid is the shared cross-field predicate for both the stored and
// the transfer shape: the end date must be strictly after the start date.
// A zero start or end means the rule is not applicable and the range counts
// as valid; the per-field required checks report missing dates separately.
func DateRangeValid(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return true
	}
	return end.After(start)
}

// TripSummary is the derived price-statistics view over all trips.
// It is never persisted. On an empty store the three price statistics are
// reported as 0.0 rather than absent, matching the established API contract.
type TripSummary struct {
	TotalTrips   int64   `json:"totalTrips"`
	MinPrice     float64 `json:"minPrice"`
	MaxPrice     float64 `json:"maxPrice"`
	AveragePrice float64 `json:"averagePrice"`
}
