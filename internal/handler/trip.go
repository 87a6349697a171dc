package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripmanagement/backend/internal/domain"
)

// TripRequest is the transfer shape for create and update input. All fields
// are pointers so a missing JSON key maps to the zero value during mapping
// and is then caught by service-side validation — the handler itself never
// validates record content. Dates use the date-only "2006-01-02" encoding.
type TripRequest struct {
	ID          *int64              `json:"id,omitempty"`
	Destination *string             `json:"destination"`
	StartDate   *openapi_types.Date `json:"startDate"`
	EndDate     *openapi_types.Date `json:"endDate"`
	Price       *float64            `json:"price"`
	Status      *string             `json:"status"`
}

// TripResponse is the transfer shape returned for a single trip.
type TripResponse struct {
	ID          int64              `json:"id"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	Price       float64            `json:"price"`
	Status      string             `json:"status"`
}

// TripPageResponse is one page of trips plus pagination metadata.
// TotalElements counts the full filtered result set, not just this page.
type TripPageResponse struct {
	Content       []TripResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
}

// CreateTrip handles POST /api/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "request body is missing or malformed")
		return
	}

	created, err := s.trips.Create(r.Context(), requestToTrip(body))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// GetTrip handles GET /api/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /api/trips/{id}.
// The path id wins: any id in the request body is ignored.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var body TripRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "request body is missing or malformed")
		return
	}

	updated, err := s.trips.Update(r.Context(), id, requestToTrip(body))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /api/trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := s.trips.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTrips handles GET /api/trips.
// Supports ?page= (0-indexed, default 0), ?size= (default 10),
// ?sort= (default id), and ?direction= (asc|desc, default asc).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	result, err := s.trips.List(r.Context(), page)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(result))
}

// SearchTrips handles GET /api/trips/search?destination=.
// The destination parameter is required; matching is a case-insensitive
// substring match.
func (s *Server) SearchTrips(w http.ResponseWriter, r *http.Request) {
	destination := r.URL.Query().Get("destination")
	if destination == "" {
		writeFieldError(w, "destination", "Destination query parameter is required")
		return
	}

	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	result, err := s.trips.SearchByDestination(r.Context(), destination, page)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(result))
}

// FilterTrips handles GET /api/trips/filter?status=.
func (s *Server) FilterTrips(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseTripStatus(r.URL.Query().Get("status"))
	if err != nil {
		writeFieldError(w, "status", "Status must be one of PLANNED, ONGOING, COMPLETED")
		return
	}

	page, ok := pageParams(w, r)
	if !ok {
		return
	}

	result, err := s.trips.FilterByStatus(r.Context(), status, page)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pageToResponse(result))
}

// ListTripsInRange handles GET /api/trips/daterange?start=&end=.
// Both parameters are required dates in "2006-01-02" form. Returns every
// trip fully contained in the window, unpaginated.
func (s *Server) ListTripsInRange(w http.ResponseWriter, r *http.Request) {
	start, ok := dateQuery(w, r, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(w, r, "end")
	if !ok {
		return
	}

	trips, err := s.trips.ListInRange(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, tripToResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTripSummary handles GET /api/trips/summary.
func (s *Server) GetTripSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.trips.Summary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// --- parameter helpers ------------------------------------------------------

// idParam parses the {id} path parameter, writing a 400 response on failure.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeFieldError(w, "id", "Id must be an integer")
		return 0, false
	}
	return id, true
}

// pageParams builds a validated PageRequest from the query string, writing a
// 400 response when any paging parameter is invalid.
func pageParams(w http.ResponseWriter, r *http.Request) (domain.PageRequest, bool) {
	q := r.URL.Query()

	page, ok := intQuery(w, q.Get("page"), "page", 0)
	if !ok {
		return domain.PageRequest{}, false
	}
	size, ok := intQuery(w, q.Get("size"), "size", 10)
	if !ok {
		return domain.PageRequest{}, false
	}

	req, err := domain.NewPageRequest(page, size, q.Get("sort"), q.Get("direction"))
	if err != nil {
		writeDomainError(w, err)
		return domain.PageRequest{}, false
	}
	return req, true
}

// intQuery parses an optional integer query parameter, falling back to def
// when absent and writing a 400 response when present but not an integer.
func intQuery(w http.ResponseWriter, raw, name string, def int) (int, bool) {
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeFieldError(w, name, "Parameter "+name+" must be an integer")
		return 0, false
	}
	return v, true
}

// dateQuery parses a required "2006-01-02" query parameter, writing a 400
// response when missing or malformed.
func dateQuery(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeFieldError(w, name, "Parameter "+name+" is required")
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeFieldError(w, name, "Parameter "+name+" must be a date in YYYY-MM-DD form")
		return time.Time{}, false
	}
	return t, true
}

// --- mapping helpers --------------------------------------------------------

// requestToTrip converts the transfer shape into the stored shape. It is a
// pure mapping: missing fields become zero values and no rule is checked
// here — validation happens in the service, before persistence. The body id
// is deliberately not mapped; ids come from the path or the repository.
func requestToTrip(body TripRequest) domain.Trip {
	var t domain.Trip
	if body.Destination != nil {
		t.Destination = *body.Destination
	}
	if body.StartDate != nil {
		t.StartDate = body.StartDate.Time
	}
	if body.EndDate != nil {
		t.EndDate = body.EndDate.Time
	}
	if body.Price != nil {
		t.Price = *body.Price
	}
	if body.Status != nil {
		t.Status = domain.TripStatus(*body.Status)
	}
	return t
}

// tripToResponse converts the stored shape into the transfer shape,
// field for field.
func tripToResponse(t domain.Trip) TripResponse {
	return TripResponse{
		ID:          t.ID,
		Destination: t.Destination,
		StartDate:   openapi_types.Date{Time: t.StartDate},
		EndDate:     openapi_types.Date{Time: t.EndDate},
		Price:       t.Price,
		Status:      string(t.Status),
	}
}

// pageToResponse converts a domain page into its transfer shape.
func pageToResponse(p domain.Page[domain.Trip]) TripPageResponse {
	content := make([]TripResponse, 0, len(p.Content))
	for _, t := range p.Content {
		content = append(content, tripToResponse(t))
	}
	return TripPageResponse{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.Total,
	}
}
