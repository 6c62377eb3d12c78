package application

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/domain"
	bookingDomain "github.com/hanco-rental/service-booking/internal/domain/booking"
	branchDomain "github.com/hanco-rental/service-booking/internal/domain/branch"
	vehicleDomain "github.com/hanco-rental/service-booking/internal/domain/vehicle"
	"github.com/hanco-rental/service-booking/internal/kafka"
)

// --- In-memory fakes ---

// fakeBookingRepo mirrors the storage contract in memory, including the
// serialized admission check of CreateIfAvailable.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByIdempotencyKey(_ context.Context, renterID uuid.UUID, key string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.RenterID() == renterID && bk.IdempotencyKey() == key {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", key)
}

func (r *fakeBookingRepo) FindByRenterID(_ context.Context, renterID uuid.UUID, status bookingDomain.BookingStatus, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.RenterID() != renterID {
			continue
		}
		if status != "" && bk.Status() != status {
			continue
		}
		out = append(out, bk)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindBlockingByVehicleID(_ context.Context, vehicleID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockingLocked(vehicleID), nil
}

func (r *fakeBookingRepo) blockingLocked(vehicleID uuid.UUID) []*bookingDomain.Booking {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.VehicleID() == vehicleID && bk.Status().Blocks() {
			out = append(out, bk)
		}
	}
	return out
}

// CreateIfAvailable re-checks and writes under one lock, matching the
// transactional guarantee of the real repository.
func (r *fakeBookingRepo) CreateIfAvailable(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.blockingLocked(bk.VehicleID()) {
		if bk.Dates().Overlaps(existing.Dates()) {
			return domain.NewConflictError("vehicle not available for selected dates")
		}
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if filter.Status != "" && bk.Status() != filter.Status {
			continue
		}
		out = append(out, bk)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

type fakeVehicleRepo struct {
	vehicles map[uuid.UUID]*vehicleDomain.Vehicle
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.NewNotFoundError("Vehicle", id.String())
	}
	return v, nil
}

func (r *fakeVehicleRepo) List(_ context.Context, _ vehicleDomain.ListFilter, _, _ int) ([]*vehicleDomain.Vehicle, int64, error) {
	var out []*vehicleDomain.Vehicle
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

type fakeBranchRepo struct {
	branches map[uuid.UUID]*branchDomain.Branch
}

func (r *fakeBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*branchDomain.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, domain.NewNotFoundError("Branch", id.String())
	}
	return b, nil
}

func (r *fakeBranchRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.branches[id]
	return ok, nil
}

func (r *fakeBranchRepo) List(_ context.Context, _ string, _, _ int) ([]*branchDomain.Branch, int64, error) {
	var out []*branchDomain.Branch
	for _, b := range r.branches {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

// capturePublisher records published events instead of touching Kafka.
type capturePublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *capturePublisher) PublishEvent(_ context.Context, _ string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) typesSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

// --- Test fixture ---

type serviceFixture struct {
	service   *BookingService
	bookings  *fakeBookingRepo
	publisher *capturePublisher
	vehicleID uuid.UUID
	pickupID  uuid.UUID
	dropoffID uuid.UUID
	renterID  uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	vehicleID := uuid.New()
	pickupID := uuid.New()
	dropoffID := uuid.New()

	vehicles := &fakeVehicleRepo{vehicles: map[uuid.UUID]*vehicleDomain.Vehicle{
		vehicleID: {
			ID:                 vehicleID,
			Name:               "Camry",
			Brand:              "Toyota",
			Category:           "sedan",
			City:               "Riyadh",
			Status:             vehicleDomain.StatusAvailable,
			BaseDailyRateCents: 10000,
		},
	}}
	branches := &fakeBranchRepo{branches: map[uuid.UUID]*branchDomain.Branch{
		pickupID:  {ID: pickupID, Name: "Riyadh Airport", City: "Riyadh"},
		dropoffID: {ID: dropoffID, Name: "Riyadh Downtown", City: "Riyadh"},
	}}

	bookings := newFakeBookingRepo()
	publisher := &capturePublisher{}

	service := NewBookingService(
		bookings,
		vehicles,
		branches,
		bookingDomain.NewStandardPriceCalculator(),
		publisher,
		zap.NewNop(),
	)

	return &serviceFixture{
		service:   service,
		bookings:  bookings,
		publisher: publisher,
		vehicleID: vehicleID,
		pickupID:  pickupID,
		dropoffID: dropoffID,
		renterID:  uuid.New(),
	}
}

func (f *serviceFixture) request(startOffset, endOffset int) CreateBookingRequest {
	today := bookingDomain.Today()
	return CreateBookingRequest{
		VehicleID:         f.vehicleID,
		StartDate:         today.AddDays(startOffset),
		EndDate:           today.AddDays(endOffset),
		PickupBranchID:    f.pickupID,
		DropoffBranchID:   f.dropoffID,
		InsuranceSelected: false,
		PaymentMode:       "card",
	}
}

// --- Creation ---

func TestCreateBooking_HappyPath(t *testing.T) {
	f := newServiceFixture(t)

	dto, err := f.service.CreateBooking(context.Background(), f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "unpaid", dto.PaymentStatus)
	// 5 days x 100.00 SAR, no insurance.
	assert.Equal(t, int64(50000), dto.TotalPriceCents)
	assert.Equal(t, int64(0), dto.InsuranceCents)
	assert.Equal(t, "SAR", dto.Currency)
	assert.Equal(t, int64(1), dto.Version)

	assert.Equal(t, []string{"booking.created"}, f.publisher.typesSeen())
}

func TestCreateBooking_WithInsurance(t *testing.T) {
	f := newServiceFixture(t)
	req := f.request(7, 12)
	req.InsuranceSelected = true

	dto, err := f.service.CreateBooking(context.Background(), f.renterID, req, "")
	require.NoError(t, err)

	assert.Equal(t, int64(57500), dto.TotalPriceCents)
	assert.Equal(t, int64(7500), dto.InsuranceCents)
}

func TestCreateBooking_RejectsInvalidInput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	t.Run("end not after start", func(t *testing.T) {
		req := f.request(7, 7)
		_, err := f.service.CreateBooking(ctx, f.renterID, req, "")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("start in the past", func(t *testing.T) {
		req := f.request(-1, 3)
		_, err := f.service.CreateBooking(ctx, f.renterID, req, "")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("unknown payment mode", func(t *testing.T) {
		req := f.request(7, 12)
		req.PaymentMode = "barter"
		_, err := f.service.CreateBooking(ctx, f.renterID, req, "")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("unknown pickup branch", func(t *testing.T) {
		req := f.request(7, 12)
		req.PickupBranchID = uuid.New()
		_, err := f.service.CreateBooking(ctx, f.renterID, req, "")
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		req := f.request(7, 12)
		req.VehicleID = uuid.New()
		_, err := f.service.CreateBooking(ctx, f.renterID, req, "")
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}

func TestCreateBooking_StartingTodayIsAllowed(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.CreateBooking(context.Background(), f.renterID, f.request(0, 2), "")
	assert.NoError(t, err)
}

func TestCreateBooking_OverlapConflicts(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	// Fully inside the existing range.
	_, err = f.service.CreateBooking(ctx, uuid.New(), f.request(8, 11), "")
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	// Touching the end day still conflicts (inclusive bounds).
	_, err = f.service.CreateBooking(ctx, uuid.New(), f.request(12, 14), "")
	assert.True(t, domain.IsKind(err, domain.KindConflict))

	// Day after the end is free.
	_, err = f.service.CreateBooking(ctx, uuid.New(), f.request(13, 15), "")
	assert.NoError(t, err)
}

func TestCreateBooking_CancelledBookingDoesNotBlock(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	_, err = f.service.CancelBooking(ctx, dto.ID, f.renterID, false, "changed plans")
	require.NoError(t, err)

	_, err = f.service.CreateBooking(ctx, uuid.New(), f.request(7, 12), "")
	assert.NoError(t, err)
}

func TestCreateBooking_UnbookableVehicle(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for _, status := range []vehicleDomain.VehicleStatus{
		vehicleDomain.StatusMaintenance,
		vehicleDomain.StatusInactive,
	} {
		vehicleID := uuid.New()
		f.service.vehicles.(*fakeVehicleRepo).vehicles[vehicleID] = &vehicleDomain.Vehicle{
			ID:                 vehicleID,
			Status:             status,
			BaseDailyRateCents: 10000,
		}

		req := f.request(7, 12)
		req.VehicleID = vehicleID
		_, err := f.service.CreateBooking(ctx, f.renterID, req, "")
		require.True(t, domain.IsKind(err, domain.KindConflict), "status %s", status)
		assert.Contains(t, err.Error(), "not bookable")
	}
}

func TestCreateBooking_RentedVehicleStillBookable(t *testing.T) {
	f := newServiceFixture(t)
	f.service.vehicles.(*fakeVehicleRepo).vehicles[f.vehicleID].Status = vehicleDomain.StatusRented

	_, err := f.service.CreateBooking(context.Background(), f.renterID, f.request(7, 12), "")
	assert.NoError(t, err)
}

func TestCreateBooking_IdempotencyKeyReturnsExisting(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "retry-abc")
	require.NoError(t, err)

	// Same key, same renter: the original booking comes back even though the
	// dates now collide with it.
	second, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "retry-abc")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// A different renter with the same key goes through normal admission.
	_, err = f.service.CreateBooking(ctx, uuid.New(), f.request(7, 12), "retry-abc")
	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

// TestCreateBooking_ConcurrentAdmission drives N goroutines at the same
// vehicle and date range; exactly one must win.
func TestCreateBooking_ConcurrentAdmission(t *testing.T) {
	f := newServiceFixture(t)
	const n = 20

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.CreateBooking(
				context.Background(), uuid.New(), f.request(7, 12), "")
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case domain.IsKind(err, domain.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

// --- Availability ---

func TestCheckAvailability(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	today := bookingDomain.Today()

	_, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	t.Run("free range", func(t *testing.T) {
		avail, err := f.service.CheckAvailability(ctx, f.vehicleID, today.AddDays(20), today.AddDays(25))
		require.NoError(t, err)
		assert.True(t, avail.Available)
		assert.Empty(t, avail.Conflicts)
	})

	t.Run("overlapping range lists the conflict", func(t *testing.T) {
		avail, err := f.service.CheckAvailability(ctx, f.vehicleID, today.AddDays(10), today.AddDays(14))
		require.NoError(t, err)
		assert.False(t, avail.Available)
		require.Len(t, avail.Conflicts, 1)
		assert.Equal(t, bookingDomain.StatusPending, avail.Conflicts[0].Status)
	})

	t.Run("maintenance vehicle has a distinct reason", func(t *testing.T) {
		f.service.vehicles.(*fakeVehicleRepo).vehicles[f.vehicleID].Status = vehicleDomain.StatusMaintenance
		avail, err := f.service.CheckAvailability(ctx, f.vehicleID, today.AddDays(20), today.AddDays(25))
		require.NoError(t, err)
		assert.False(t, avail.Available)
		assert.Contains(t, avail.Reason, "not bookable")
		assert.Empty(t, avail.Conflicts)
	})

	t.Run("invalid range rejected", func(t *testing.T) {
		_, err := f.service.CheckAvailability(ctx, f.vehicleID, today.AddDays(5), today.AddDays(5))
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

// --- Retrieval and ownership ---

func TestGetBooking_OwnershipHidesExistence(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	// The owner sees it.
	got, err := f.service.GetBooking(ctx, dto.ID, f.renterID, false)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)

	// Another renter gets NotFound, not Forbidden.
	_, err = f.service.GetBooking(ctx, dto.ID, uuid.New(), false)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	// An admin sees any booking.
	_, err = f.service.GetBooking(ctx, dto.ID, uuid.New(), true)
	assert.NoError(t, err)
}

func TestListBookings_FiltersByStatus(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)
	_, err = f.service.CreateBooking(ctx, f.renterID, f.request(20, 25), "")
	require.NoError(t, err)

	_, err = f.service.ConfirmBooking(ctx, first.ID, f.renterID, false)
	require.NoError(t, err)

	result, err := f.service.ListBookings(ctx, f.renterID, "confirmed", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)

	_, err = f.service.ListBookings(ctx, f.renterID, "bogus", 1, 20)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

// --- Lifecycle ---

func TestConfirmBooking(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	confirmed, err := f.service.ConfirmBooking(ctx, dto.ID, f.renterID, false)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Equal(t, "paid", confirmed.PaymentStatus)
	assert.Equal(t, int64(2), confirmed.Version)

	// Idempotent repeat: same state, no extra version bump, no extra event.
	again, err := f.service.ConfirmBooking(ctx, dto.ID, f.renterID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), again.Version)
	assert.Equal(t, []string{"booking.created", "booking.confirmed"}, f.publisher.typesSeen())
}

func TestCancelBooking_FullFlow(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	cancelled, err := f.service.CancelBooking(ctx, dto.ID, f.renterID, false, "changed plans")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "changed plans", cancelled.CancelNote)
	assert.NotNil(t, cancelled.CancelledAt)

	// Cancelling again is an invalid transition.
	_, err = f.service.CancelBooking(ctx, dto.ID, f.renterID, false, "")
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))

	// Other renters cannot cancel: the booking does not exist for them.
	dto2, err := f.service.CreateBooking(ctx, f.renterID, f.request(20, 25), "")
	require.NoError(t, err)
	_, err = f.service.CancelBooking(ctx, dto2.ID, uuid.New(), false, "")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestActivateAndComplete(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	// Activate before confirmation is illegal.
	_, err = f.service.ActivateBooking(ctx, dto.ID)
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))

	_, err = f.service.ConfirmBooking(ctx, dto.ID, f.renterID, false)
	require.NoError(t, err)

	active, err := f.service.ActivateBooking(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", active.Status)

	completed, err := f.service.CompleteBooking(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)

	// Cancel after completion is illegal.
	_, err = f.service.CancelBooking(ctx, dto.ID, f.renterID, false, "")
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))

	assert.Equal(t, []string{
		"booking.created",
		"booking.confirmed",
		"booking.activated",
		"booking.completed",
	}, f.publisher.typesSeen())
}

// --- Payment events ---

func TestConfirmFromPayment(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	require.NoError(t, f.service.ConfirmFromPayment(ctx, dto.ID))

	got, err := f.service.GetBooking(ctx, dto.ID, f.renterID, false)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, "paid", got.PaymentStatus)

	// Duplicate payment event: no error, no change.
	require.NoError(t, f.service.ConfirmFromPayment(ctx, dto.ID))

	err = f.service.ConfirmFromPayment(ctx, uuid.New())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestMarkPaymentRefunded(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	// Refund before payment is illegal.
	err = f.service.MarkPaymentRefunded(ctx, dto.ID)
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))

	_, err = f.service.ConfirmBooking(ctx, dto.ID, f.renterID, false)
	require.NoError(t, err)

	require.NoError(t, f.service.MarkPaymentRefunded(ctx, dto.ID))
	got, err := f.service.GetBooking(ctx, dto.ID, f.renterID, false)
	require.NoError(t, err)
	assert.Equal(t, "refunded", got.PaymentStatus)
}

// --- Admin ---

func TestGetBookingStats(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		offset := 7 + i*10
		_, err := f.service.CreateBooking(ctx, uuid.New(), f.request(offset, offset+3), "key-"+strconv.Itoa(i))
		require.NoError(t, err)
	}

	stats, err := f.service.GetBookingStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.ByStatus["pending"])
}

// End-to-end scenario: book, pay, pick up, return, then the range frees up.
func TestBookingScenario_FullRental(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	dto, err := f.service.CreateBooking(ctx, f.renterID, f.request(7, 12), "")
	require.NoError(t, err)

	_, err = f.service.ConfirmBooking(ctx, dto.ID, f.renterID, false)
	require.NoError(t, err)
	_, err = f.service.ActivateBooking(ctx, dto.ID)
	require.NoError(t, err)

	// While active, the range is still blocked.
	_, err = f.service.CreateBooking(ctx, uuid.New(), f.request(9, 11), "")
	require.True(t, domain.IsKind(err, domain.KindConflict))

	_, err = f.service.CompleteBooking(ctx, dto.ID)
	require.NoError(t, err)

	// Completed bookings release the range.
	_, err = f.service.CreateBooking(ctx, uuid.New(), f.request(9, 11), "")
	assert.NoError(t, err)
}
