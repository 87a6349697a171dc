// Package handler implements the HTTP layer for the trip management API.
// Handlers decode requests into the transfer shape, call the service, and
// encode results or map domain errors onto HTTP responses. Methods are split
// into domain-specific files (health.go, trip.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tripmanagement/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id int64) (domain.Trip, error)
	Update(ctx context.Context, id int64, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.Trip], error)
	SearchByDestination(ctx context.Context, destination string, page domain.PageRequest) (domain.Page[domain.Trip], error)
	FilterByStatus(ctx context.Context, status domain.TripStatus, page domain.PageRequest) (domain.Page[domain.Trip], error)
	ListInRange(ctx context.Context, start, end time.Time) ([]domain.Trip, error)
	Summary(ctx context.Context) (domain.TripSummary, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	trips TripServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer) *Server {
	return &Server{trips: trips}
}

// Routes registers every endpoint on the given router.
// Fixed paths (summary, search, filter, daterange) are registered alongside
// the {id} routes; chi matches exact segments before the wildcard.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Get("/summary", s.GetTripSummary)
		r.Get("/search", s.SearchTrips)
		r.Get("/filter", s.FilterTrips)
		r.Get("/daterange", s.ListTripsInRange)
		r.Get("/{id}", s.GetTrip)
		r.Put("/{id}", s.UpdateTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})
}
