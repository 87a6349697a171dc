// Package service contains the business logic for the trip management API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tripmanagement/backend/internal/domain"
	"github.com/tripmanagement/backend/internal/repo"
)

// TripService implements the query and validation layer over the trip store.
// It owns all validation and field mapping; the repository owns physical
// representation and id assignment.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip. The returned record carries the
// repository-assigned id. Returns a *domain.ValidationError (wrapping
// domain.ErrValidation) when the input violates any rule; nothing is
// persisted in that case.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.ID = 0 // ids are assigned by the repository, never by the caller
	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip by id.
// Returns domain.ErrNotFound if no trip with that id exists.
func (s *TripService) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// Update replaces all mutable fields of an existing trip with the input's
// values. The stored id is preserved; any id on the input is ignored.
// Returns domain.ErrNotFound if the trip does not exist, or a validation
// error (nothing persisted) if the input is invalid.
func (s *TripService) Update(ctx context.Context, id int64, in domain.Trip) (domain.Trip, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := validateTrip(in); err != nil {
		return domain.Trip{}, err
	}

	existing.Destination = in.Destination
	existing.StartDate = in.StartDate
	existing.EndDate = in.EndDate
	existing.Price = in.Price
	existing.Status = in.Status

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trip by id. The trip must exist: deleting an already
// deleted id fails with domain.ErrNotFound.
func (s *TripService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// List returns one page of all trips, ordered per the request.
func (s *TripService) List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Trip], error) {
	trips, total, err := s.repo.List(ctx, page)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.List: %w", err)
	}
	return newPage(trips, page, total), nil
}

// SearchByDestination returns one page of trips whose destination contains
// the given text (case-insensitive substring match).
func (s *TripService) SearchByDestination(ctx context.Context, destination string, page domain.PageRequest) (domain.Page[domain.Trip], error) {
	trips, total, err := s.repo.SearchByDestination(ctx, destination, page)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.SearchByDestination: %w", err)
	}
	return newPage(trips, page, total), nil
}

// FilterByStatus returns one page of trips with exactly the given status.
func (s *TripService) FilterByStatus(ctx context.Context, status domain.TripStatus, page domain.PageRequest) (domain.Page[domain.Trip], error) {
	trips, total, err := s.repo.FilterByStatus(ctx, status, page)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.FilterByStatus: %w", err)
	}
	return newPage(trips, page, total), nil
}

// ListInRange returns all trips fully contained in the [start, end] window,
// unpaginated. Returns domain.ErrInvalidRange when end is before start;
// end equal to start is permitted (this bound check is independent of the
// per-record strict ordering rule). Always returns a non-nil slice so
// callers can safely range over it.
func (s *TripService) ListInRange(ctx context.Context, start, end time.Time) ([]domain.Trip, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", domain.ErrInvalidRange)
	}
	trips, err := s.repo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListInRange: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Summary returns the trip count plus min/max/average price over all trips.
// On an empty store the price statistics are 0.0, not absent — the long-
// standing API contract conflates "no data" with zero and clients depend
// on it, so the nil aggregates from the repo are defaulted here.
func (s *TripService) Summary(ctx context.Context) (domain.TripSummary, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}
	minPrice, err := s.repo.MinPrice(ctx)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}
	maxPrice, err := s.repo.MaxPrice(ctx)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}
	avgPrice, err := s.repo.AveragePrice(ctx)
	if err != nil {
		return domain.TripSummary{}, fmt.Errorf("service.TripService.Summary: %w", err)
	}

	return domain.TripSummary{
		TotalTrips:   total,
		MinPrice:     orZero(minPrice),
		MaxPrice:     orZero(maxPrice),
		AveragePrice: orZero(avgPrice),
	}, nil
}

// validateTrip enforces the rules common to Create and Update:
//   - Destination must be non-blank (whitespace-only is rejected).
//   - Start date, end date, price, and status must be present.
//   - Price must be strictly positive.
//   - When both dates are present, the end date must be strictly after the
//     start date (reported under the cross-field "dateRange" key).
//
// All violations are collected into a single *domain.ValidationError so a
// caller sees the full picture in one response.
func validateTrip(t domain.Trip) error {
	fields := map[string]string{}

	if strings.TrimSpace(t.Destination) == "" {
		fields["destination"] = "Destination cannot be empty"
	}
	if t.StartDate.IsZero() {
		fields["startDate"] = "Start date cannot be null"
	}
	if t.EndDate.IsZero() {
		fields["endDate"] = "End date cannot be null"
	}
	if t.Price <= 0 {
		fields["price"] = "Price must be positive"
	}
	if t.Status == "" {
		fields["status"] = "Status cannot be null"
	} else if !t.Status.Valid() {
		fields["status"] = "Status must be one of PLANNED, ONGOING, COMPLETED"
	}
	if !domain.DateRangeValid(t.StartDate, t.EndDate) {
		fields["dateRange"] = "End date must be after start date"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// newPage wraps a repo result slice in page metadata, normalizing nil
// content to an empty slice.
func newPage(trips []domain.Trip, page domain.PageRequest, total int64) domain.Page[domain.Trip] {
	if trips == nil {
		trips = []domain.Trip{}
	}
	return domain.Page[domain.Trip]{
		Content: trips,
		Page:    page.Page,
		Size:    page.Size,
		Total:   total,
	}
}

// orZero converts an absent aggregate to the 0.0 the API reports.
func orZero(v *float64) float64 {
	if v == nil {
		return 0.0
	}
	return *v
}
