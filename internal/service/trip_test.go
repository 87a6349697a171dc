package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmanagement/backend/internal/domain"
	"github.com/tripmanagement/backend/internal/repo"
	"github.com/tripmanagement/backend/internal/service"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.
type mockTripRepo struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id int64) (domain.Trip, error)
	update       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete       func(ctx context.Context, id int64) error
	list         func(ctx context.Context, page domain.PageRequest) ([]domain.Trip, int64, error)
	search       func(ctx context.Context, destination string, page domain.PageRequest) ([]domain.Trip, int64, error)
	filter       func(ctx context.Context, status domain.TripStatus, page domain.PageRequest) ([]domain.Trip, int64, error)
	listInRange  func(ctx context.Context, start, end time.Time) ([]domain.Trip, error)
	count        func(ctx context.Context) (int64, error)
	minPrice     func(ctx context.Context) (*float64, error)
	maxPrice     func(ctx context.Context) (*float64, error)
	averagePrice func(ctx context.Context) (*float64, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Trip, int64, error) {
	return m.list(ctx, page)
}
func (m *mockTripRepo) SearchByDestination(ctx context.Context, destination string, page domain.PageRequest) ([]domain.Trip, int64, error) {
	return m.search(ctx, destination, page)
}
func (m *mockTripRepo) FilterByStatus(ctx context.Context, status domain.TripStatus, page domain.PageRequest) ([]domain.Trip, int64, error) {
	return m.filter(ctx, status, page)
}
func (m *mockTripRepo) ListInRange(ctx context.Context, start, end time.Time) ([]domain.Trip, error) {
	return m.listInRange(ctx, start, end)
}
func (m *mockTripRepo) Count(ctx context.Context) (int64, error) {
	return m.count(ctx)
}
func (m *mockTripRepo) MinPrice(ctx context.Context) (*float64, error) {
	return m.minPrice(ctx)
}
func (m *mockTripRepo) MaxPrice(ctx context.Context) (*float64, error) {
	return m.maxPrice(ctx)
}
func (m *mockTripRepo) AveragePrice(ctx context.Context) (*float64, error) {
	return m.averagePrice(ctx)
}

// compile-time check: mockTripRepo must satisfy repo.TripRepo.
var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validTrip() domain.Trip {
	return domain.Trip{
		Destination: "Paris",
		StartDate:   date(2025, 9, 10),
		EndDate:     date(2025, 9, 20),
		Price:       1500.0,
		Status:      domain.StatusPlanned,
	}
}

// echoRepo echoes whatever it receives back — useful for Create/Update tests
// that only care about validation logic, not what the DB returns.
func echoRepo() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			t.ID = 1
			return t, nil
		},
		getByID: func(_ context.Context, id int64) (domain.Trip, error) {
			t := validTrip()
			t.ID = id
			return t, nil
		},
		update: func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
}

func ptr(v float64) *float64 { return &v }

// requireFieldError asserts err is a ValidationError reporting the given field.
func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, field)
	require.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Create tests ----------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	got, err := svc.Create(context.Background(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "Paris", got.Destination)
	assert.Equal(t, 1500.0, got.Price)
	assert.Equal(t, domain.StatusPlanned, got.Status)
}

// The caller cannot pick an id; the repository assigns it.
func TestTripService_Create_IgnoresCallerID(t *testing.T) {
	var received domain.Trip
	svc := service.NewTripService(&mockTripRepo{
		create: func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
			received = tr
			tr.ID = 42
			return tr, nil
		},
	})

	in := validTrip()
	in.ID = 999
	got, err := svc.Create(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, int64(0), received.ID)
	assert.Equal(t, int64(42), got.ID)
}

func TestTripService_Create_BlankDestination(t *testing.T) {
	called := false
	svc := service.NewTripService(&mockTripRepo{
		create: func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
			called = true
			return tr, nil
		},
	})

	in := validTrip()
	in.Destination = "   "
	_, err := svc.Create(context.Background(), in)

	requireFieldError(t, err, "destination")
	assert.False(t, called, "invalid trip must not reach the repo")
}

func TestTripService_Create_MissingDates(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	in := validTrip()
	in.StartDate = time.Time{}
	in.EndDate = time.Time{}
	_, err := svc.Create(context.Background(), in)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "startDate")
	assert.Contains(t, ve.Fields, "endDate")
	// A missing date must not additionally trigger the cross-field rule.
	assert.NotContains(t, ve.Fields, "dateRange")
}

func TestTripService_Create_EndBeforeStart(t *testing.T) {
	called := false
	svc := service.NewTripService(&mockTripRepo{
		create: func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
			called = true
			return tr, nil
		},
	})

	in := validTrip()
	in.StartDate = date(2025, 9, 20)
	in.EndDate = date(2025, 9, 10)
	_, err := svc.Create(context.Background(), in)

	requireFieldError(t, err, "dateRange")
	assert.False(t, called)
}

// A same-day trip violates the strict ordering rule.
func TestTripService_Create_EndEqualsStart(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	in := validTrip()
	in.EndDate = in.StartDate
	_, err := svc.Create(context.Background(), in)

	requireFieldError(t, err, "dateRange")
}

func TestTripService_Create_NonPositivePrice(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	for _, price := range []float64{0, -10.5} {
		in := validTrip()
		in.Price = price
		_, err := svc.Create(context.Background(), in)

		requireFieldError(t, err, "price")
	}
}

func TestTripService_Create_MissingStatus(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	in := validTrip()
	in.Status = ""
	_, err := svc.Create(context.Background(), in)

	requireFieldError(t, err, "status")
}

func TestTripService_Create_UnknownStatus(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	in := validTrip()
	in.Status = "CANCELLED"
	_, err := svc.Create(context.Background(), in)

	requireFieldError(t, err, "status")
}

func TestTripService_Create_CollectsAllViolations(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	_, err := svc.Create(context.Background(), domain.Trip{})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "destination")
	assert.Contains(t, ve.Fields, "startDate")
	assert.Contains(t, ve.Fields, "endDate")
	assert.Contains(t, ve.Fields, "price")
	assert.Contains(t, ve.Fields, "status")
}

func TestTripService_Create_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := service.NewTripService(&mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, boom
		},
	})

	_, err := svc.Create(context.Background(), validTrip())

	require.ErrorIs(t, err, boom)
}

// ---- GetByID tests ---------------------------------------------------------

func TestTripService_GetByID_Found(t *testing.T) {
	svc := service.NewTripService(echoRepo())

	got, err := svc.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Paris", got.Destination)
}

func TestTripService_GetByID_NotFound(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ int64) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), 999)

	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Update tests ----------------------------------------------------------

func TestTripService_Update_Valid(t *testing.T) {
	var saved domain.Trip
	m := echoRepo()
	m.update = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		saved = tr
		return tr, nil
	}
	svc := service.NewTripService(m)

	in := validTrip()
	in.Destination = "Rome"
	in.Status = domain.StatusOngoing
	got, err := svc.Update(context.Background(), 7, in)

	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.ID, "stored id must be preserved")
	assert.Equal(t, "Rome", got.Destination)
	assert.Equal(t, domain.StatusOngoing, got.Status)
}

// The input's id field carries no weight: the path id identifies the record.
func TestTripService_Update_IgnoresInputID(t *testing.T) {
	var saved domain.Trip
	m := echoRepo()
	m.update = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		saved = tr
		return tr, nil
	}
	svc := service.NewTripService(m)

	in := validTrip()
	in.ID = 999
	_, err := svc.Update(context.Background(), 7, in)

	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.ID)
}

func TestTripService_Update_NotFound(t *testing.T) {
	updateCalled := false
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ int64) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
		update: func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
			updateCalled = true
			return tr, nil
		},
	})

	_, err := svc.Update(context.Background(), 999, validTrip())

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, updateCalled)
}

func TestTripService_Update_InvalidInputNotSaved(t *testing.T) {
	updateCalled := false
	m := echoRepo()
	m.update = func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
		updateCalled = true
		return tr, nil
	}
	svc := service.NewTripService(m)

	in := validTrip()
	in.Price = -1
	_, err := svc.Update(context.Background(), 7, in)

	requireFieldError(t, err, "price")
	assert.False(t, updateCalled)
}

// ---- Delete tests ----------------------------------------------------------

func TestTripService_Delete_Existing(t *testing.T) {
	var deletedID int64
	m := echoRepo()
	m.delete = func(_ context.Context, id int64) error {
		deletedID = id
		return nil
	}
	svc := service.NewTripService(m)

	err := svc.Delete(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), deletedID)
}

// Deleting an id that no longer exists is an error, not a no-op.
func TestTripService_Delete_NotFound(t *testing.T) {
	deleteCalled := false
	svc := service.NewTripService(&mockTripRepo{
		getByID: func(_ context.Context, _ int64) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
		delete: func(_ context.Context, _ int64) error {
			deleteCalled = true
			return nil
		},
	})

	err := svc.Delete(context.Background(), 999)

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, deleteCalled)
}

// ---- List / Search / Filter tests ------------------------------------------

func mustPage(t *testing.T, page, size int) domain.PageRequest {
	t.Helper()
	req, err := domain.NewPageRequest(page, size, "", "")
	require.NoError(t, err)
	return req
}

func TestTripService_List_PageMetadata(t *testing.T) {
	trips := []domain.Trip{validTrip(), validTrip()}
	svc := service.NewTripService(&mockTripRepo{
		list: func(_ context.Context, _ domain.PageRequest) ([]domain.Trip, int64, error) {
			return trips, 12, nil
		},
	})

	got, err := svc.List(context.Background(), mustPage(t, 1, 2))

	require.NoError(t, err)
	assert.Len(t, got.Content, 2)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 2, got.Size)
	assert.Equal(t, int64(12), got.Total)
}

// An empty result page carries an empty slice, never nil, so it encodes
// as [] rather than null.
func TestTripService_List_EmptyPageIsNonNil(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		list: func(_ context.Context, _ domain.PageRequest) ([]domain.Trip, int64, error) {
			return nil, 0, nil
		},
	})

	got, err := svc.List(context.Background(), mustPage(t, 0, 10))

	require.NoError(t, err)
	require.NotNil(t, got.Content)
	assert.Empty(t, got.Content)
}

func TestTripService_SearchByDestination_PassesQueryThrough(t *testing.T) {
	var gotQuery string
	svc := service.NewTripService(&mockTripRepo{
		search: func(_ context.Context, destination string, _ domain.PageRequest) ([]domain.Trip, int64, error) {
			gotQuery = destination
			return []domain.Trip{validTrip()}, 1, nil
		},
	})

	got, err := svc.SearchByDestination(context.Background(), "par", mustPage(t, 0, 10))

	require.NoError(t, err)
	assert.Equal(t, "par", gotQuery)
	assert.Equal(t, int64(1), got.Total)
}

func TestTripService_FilterByStatus_PassesStatusThrough(t *testing.T) {
	var gotStatus domain.TripStatus
	svc := service.NewTripService(&mockTripRepo{
		filter: func(_ context.Context, status domain.TripStatus, _ domain.PageRequest) ([]domain.Trip, int64, error) {
			gotStatus = status
			return nil, 0, nil
		},
	})

	got, err := svc.FilterByStatus(context.Background(), domain.StatusCompleted, mustPage(t, 0, 10))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, gotStatus)
	require.NotNil(t, got.Content)
}

func TestTripService_List_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := service.NewTripService(&mockTripRepo{
		list: func(_ context.Context, _ domain.PageRequest) ([]domain.Trip, int64, error) {
			return nil, 0, boom
		},
	})

	_, err := svc.List(context.Background(), mustPage(t, 0, 10))

	require.ErrorIs(t, err, boom)
}

// ---- ListInRange tests -----------------------------------------------------

func TestTripService_ListInRange_Valid(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		listInRange: func(_ context.Context, _, _ time.Time) ([]domain.Trip, error) {
			return []domain.Trip{validTrip()}, nil
		},
	})

	got, err := svc.ListInRange(context.Background(), date(2025, 9, 1), date(2025, 9, 30))

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Paris", got[0].Destination)
}

func TestTripService_ListInRange_EndBeforeStart(t *testing.T) {
	called := false
	svc := service.NewTripService(&mockTripRepo{
		listInRange: func(_ context.Context, _, _ time.Time) ([]domain.Trip, error) {
			called = true
			return nil, nil
		},
	})

	_, err := svc.ListInRange(context.Background(), date(2025, 9, 30), date(2025, 9, 1))

	require.ErrorIs(t, err, domain.ErrInvalidRange)
	assert.False(t, called, "invalid range must not reach the repo")
}

// Unlike per-record validation, a single-day query window is fine.
func TestTripService_ListInRange_EndEqualsStart(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		listInRange: func(_ context.Context, _, _ time.Time) ([]domain.Trip, error) {
			return nil, nil
		},
	})

	got, err := svc.ListInRange(context.Background(), date(2025, 9, 10), date(2025, 9, 10))

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Summary tests ---------------------------------------------------------

func TestTripService_Summary_Empty(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		count:        func(_ context.Context) (int64, error) { return 0, nil },
		minPrice:     func(_ context.Context) (*float64, error) { return nil, nil },
		maxPrice:     func(_ context.Context) (*float64, error) { return nil, nil },
		averagePrice: func(_ context.Context) (*float64, error) { return nil, nil },
	})

	got, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.TripSummary{TotalTrips: 0, MinPrice: 0.0, MaxPrice: 0.0, AveragePrice: 0.0}, got)
}

func TestTripService_Summary_WithData(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{
		count:        func(_ context.Context) (int64, error) { return 3, nil },
		minPrice:     func(_ context.Context) (*float64, error) { return ptr(100.0), nil },
		maxPrice:     func(_ context.Context) (*float64, error) { return ptr(1500.0), nil },
		averagePrice: func(_ context.Context) (*float64, error) { return ptr(700.0), nil },
	})

	got, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TotalTrips)
	assert.Equal(t, 100.0, got.MinPrice)
	assert.Equal(t, 1500.0, got.MaxPrice)
	assert.Equal(t, 700.0, got.AveragePrice)
}

func TestTripService_Summary_RepoError(t *testing.T) {
	boom := errors.New("db down")
	svc := service.NewTripService(&mockTripRepo{
		count: func(_ context.Context) (int64, error) { return 0, boom },
	})

	_, err := svc.Summary(context.Background())

	require.ErrorIs(t, err, boom)
}
