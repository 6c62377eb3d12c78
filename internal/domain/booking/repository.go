package booking

import (
	"context"

	"github.com/google/uuid"
)

// Conflict identifies an existing blocking booking whose dates overlap a
// requested range.
type Conflict struct {
	BookingID uuid.UUID     `json:"booking_id"`
	Dates     DateRange     `json:"dates"`
	Status    BookingStatus `json:"status"`
}

// ListFilter narrows booking list queries.
type ListFilter struct {
	Status        BookingStatus
	StartDateFrom Date
	StartDateTo   Date
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByIdempotencyKey retrieves the booking previously created by the
	// given renter with the given idempotency key, or a NotFound error.
	FindByIdempotencyKey(ctx context.Context, renterID uuid.UUID, key string) (*Booking, error)

	// FindByRenterID retrieves bookings belonging to a renter, newest first,
	// optionally filtered by status.
	FindByRenterID(ctx context.Context, renterID uuid.UUID, status BookingStatus, page, limit int) ([]*Booking, int64, error)

	// FindBlockingByVehicleID retrieves all bookings for a vehicle whose
	// status counts as an active reservation (pending, confirmed, active).
	FindBlockingByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*Booking, error)

	// CreateIfAvailable atomically re-checks the vehicle's blocking bookings
	// against the new booking's date range and persists the booking only if
	// no overlap exists. The re-check and the write happen inside one storage
	// transaction holding a per-vehicle lock, so at most one of any set of
	// concurrent overlapping admissions succeeds; the others receive a
	// Conflict error and write nothing.
	CreateIfAvailable(ctx context.Context, bk *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, bk *Booking) error

	// ListAll retrieves bookings across all renters with pagination (admin).
	ListAll(ctx context.Context, filter ListFilter, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)
}
