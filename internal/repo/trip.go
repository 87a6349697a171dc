// Package repo contains all database access logic for the trip management API.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripmanagement/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record with the
	// DB-generated id populated.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its integer primary key.
	// Returns domain.ErrNotFound if no trip with that id exists.
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that id exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by id. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// List returns one page of trips ordered per the request, plus the total
	// row count across all pages.
	List(ctx context.Context, page domain.PageRequest) ([]domain.Trip, int64, error)

	// SearchByDestination returns one page of trips whose destination contains
	// the given text, matched case-insensitively, plus the total match count.
	SearchByDestination(ctx context.Context, destination string, page domain.PageRequest) ([]domain.Trip, int64, error)

	// FilterByStatus returns one page of trips with exactly the given status,
	// plus the total match count.
	FilterByStatus(ctx context.Context, status domain.TripStatus, page domain.PageRequest) ([]domain.Trip, int64, error)

	// ListInRange returns all trips fully contained in [start, end]:
	// start_date >= start AND end_date <= end. Unpaginated.
	ListInRange(ctx context.Context, start, end time.Time) ([]domain.Trip, error)

	// Count returns the total number of trips.
	Count(ctx context.Context) (int64, error)

	// MinPrice, MaxPrice, and AveragePrice return the respective aggregate over
	// all trips, or nil when the table is empty. Interpreting nil is the
	// service's concern.
	MinPrice(ctx context.Context) (*float64, error)
	MaxPrice(ctx context.Context) (*float64, error)
	AveragePrice(ctx context.Context) (*float64, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = "id, destination, start_date, end_date, price, status"

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (destination, start_date, end_date, price, status)
		VALUES (@destination, @start_date, @end_date, @price, @status)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"destination": trip.Destination,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"price":       trip.Price,
		"status":      string(trip.Status),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET destination = @destination,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    price       = @price,
		    status      = @status
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"destination": trip.Destination,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"price":       trip.Price,
		"status":      string(trip.Status),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// List returns one page of all trips plus the total row count.
func (r *pgTripRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Trip, int64, error) {
	trips, total, err := r.pagedQuery(ctx, "TRUE", pgx.NamedArgs{}, page)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return trips, total, nil
}

// SearchByDestination returns one page of trips matching the destination
// substring, case-insensitively.
func (r *pgTripRepo) SearchByDestination(ctx context.Context, destination string, page domain.PageRequest) ([]domain.Trip, int64, error) {
	where := `destination ILIKE '%' || @destination || '%'`
	trips, total, err := r.pagedQuery(ctx, where, pgx.NamedArgs{"destination": destination}, page)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.SearchByDestination: %w", err)
	}
	return trips, total, nil
}

// FilterByStatus returns one page of trips with exactly the given status.
func (r *pgTripRepo) FilterByStatus(ctx context.Context, status domain.TripStatus, page domain.PageRequest) ([]domain.Trip, int64, error) {
	trips, total, err := r.pagedQuery(ctx, "status = @status", pgx.NamedArgs{"status": string(status)}, page)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.FilterByStatus: %w", err)
	}
	return trips, total, nil
}

// ListInRange returns all trips whose dates fall fully inside [start, end].
func (r *pgTripRepo) ListInRange(ctx context.Context, start, end time.Time) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE start_date >= @start AND end_date <= @end
		ORDER BY start_date ASC, id ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"start": start, "end": end})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListInRange: %w", err)
	}
	defer rows.Close()

	trips, err := scanTrips(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListInRange: %w", err)
	}
	return trips, nil
}

// Count returns the total number of trip rows.
func (r *pgTripRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips`).Scan(&total); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Count: %w", err)
	}
	return total, nil
}

func (r *pgTripRepo) MinPrice(ctx context.Context) (*float64, error) {
	return r.priceAggregate(ctx, `SELECT MIN(price) FROM trips`)
}

func (r *pgTripRepo) MaxPrice(ctx context.Context) (*float64, error) {
	return r.priceAggregate(ctx, `SELECT MAX(price) FROM trips`)
}

func (r *pgTripRepo) AveragePrice(ctx context.Context) (*float64, error) {
	return r.priceAggregate(ctx, `SELECT AVG(price) FROM trips`)
}

// priceAggregate runs a single-value aggregate query and surfaces SQL NULL
// (empty table) as a nil pointer.
func (r *pgTripRepo) priceAggregate(ctx context.Context, q string) (*float64, error) {
	var v pgtype.Float8
	if err := r.db.QueryRow(ctx, q).Scan(&v); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.priceAggregate: %w", err)
	}
	if !v.Valid {
		return nil, nil
	}
	f := v.Float64
	return &f, nil
}

// pagedQuery runs the shared count-then-page pattern behind List,
// SearchByDestination, and FilterByStatus. The where clause must only
// reference placeholders present in args; the sort column and direction come
// from an already-validated PageRequest, never from raw caller input.
func (r *pgTripRepo) pagedQuery(ctx context.Context, where string, args pgx.NamedArgs, page domain.PageRequest) ([]domain.Trip, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM trips WHERE `+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	dir := "ASC"
	if page.Direction == domain.SortDesc {
		dir = "DESC"
	}
	// The id tiebreaker keeps page boundaries stable when the sort column
	// has duplicate values.
	q := fmt.Sprintf(`SELECT %s FROM trips WHERE %s ORDER BY %s %s, id ASC LIMIT @limit OFFSET @offset`,
		tripColumns, where, page.SortColumn(), dir)

	qargs := pgx.NamedArgs{"limit": page.Size, "offset": page.Offset()}
	for k, v := range args {
		qargs[k] = v
	}

	rows, err := r.db.Query(ctx, q, qargs)
	if err != nil {
		return nil, 0, fmt.Errorf("page: %w", err)
	}
	defer rows.Close()

	trips, err := scanTrips(rows)
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// DATE columns come back as pgtype.Date and are carried at UTC midnight.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		startDate pgtype.Date
		endDate   pgtype.Date
		status    string
	)

	err := s.Scan(&t.ID, &t.Destination, &startDate, &endDate, &t.Price, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	t.Status = domain.TripStatus(status)
	return t, nil
}

// scanTrips drains rows into a slice, checking rows.Err at the end.
func scanTrips(rows pgx.Rows) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return trips, nil
}
