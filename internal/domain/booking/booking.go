package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanco-rental/service-booking/internal/domain"
)

// Booking is the aggregate root for the booking domain. Exactly one blocking
// booking may exist per vehicle per overlapping date range; that invariant is
// enforced by the admission transaction in the repository, not here.
type Booking struct {
	id               uuid.UUID
	renterID         uuid.UUID
	vehicleID        uuid.UUID
	dates            DateRange
	pickupBranchID   uuid.UUID
	dropoffBranchID  uuid.UUID
	insuranceSelected bool
	totalPriceCents   int64
	insuranceCents    int64
	paymentMode       PaymentMode
	status            BookingStatus
	paymentStatus     PaymentStatus
	idempotencyKey    string
	cancelledAt       *time.Time
	cancelNote        string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=pending and
// payment_status=unpaid.
func NewBooking(
	id uuid.UUID,
	renterID uuid.UUID,
	vehicleID uuid.UUID,
	dates DateRange,
	pickupBranchID uuid.UUID,
	dropoffBranchID uuid.UUID,
	insuranceSelected bool,
	totalPriceCents int64,
	insuranceCents int64,
	paymentMode PaymentMode,
	idempotencyKey string,
) (*Booking, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if pickupBranchID == uuid.Nil {
		return nil, domain.NewValidationError("pickup branch ID is required")
	}
	if dropoffBranchID == uuid.Nil {
		return nil, domain.NewValidationError("dropoff branch ID is required")
	}
	if !paymentMode.IsValid() {
		return nil, domain.NewValidationError("payment mode must be cash or card")
	}
	if totalPriceCents < 0 {
		return nil, domain.NewValidationError("total price cannot be negative")
	}
	if insuranceCents < 0 {
		return nil, domain.NewValidationError("insurance amount cannot be negative")
	}

	now := time.Now().UTC()
	return &Booking{
		id:                id,
		renterID:          renterID,
		vehicleID:         vehicleID,
		dates:             dates,
		pickupBranchID:    pickupBranchID,
		dropoffBranchID:   dropoffBranchID,
		insuranceSelected: insuranceSelected,
		totalPriceCents:   totalPriceCents,
		insuranceCents:    insuranceCents,
		paymentMode:       paymentMode,
		status:            StatusPending,
		paymentStatus:     PaymentUnpaid,
		idempotencyKey:    idempotencyKey,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	renterID uuid.UUID,
	vehicleID uuid.UUID,
	dates DateRange,
	pickupBranchID uuid.UUID,
	dropoffBranchID uuid.UUID,
	insuranceSelected bool,
	totalPriceCents int64,
	insuranceCents int64,
	paymentMode PaymentMode,
	status BookingStatus,
	paymentStatus PaymentStatus,
	idempotencyKey string,
	cancelledAt *time.Time,
	cancelNote string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                id,
		renterID:          renterID,
		vehicleID:         vehicleID,
		dates:             dates,
		pickupBranchID:    pickupBranchID,
		dropoffBranchID:   dropoffBranchID,
		insuranceSelected: insuranceSelected,
		totalPriceCents:   totalPriceCents,
		insuranceCents:    insuranceCents,
		paymentMode:       paymentMode,
		status:            status,
		paymentStatus:     paymentStatus,
		idempotencyKey:    idempotencyKey,
		cancelledAt:       cancelledAt,
		cancelNote:        cancelNote,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// RenterID returns the owning renter's user ID.
func (b *Booking) RenterID() uuid.UUID { return b.renterID }

// VehicleID returns the booked vehicle's ID.
func (b *Booking) VehicleID() uuid.UUID { return b.vehicleID }

// Dates returns the booking date range.
func (b *Booking) Dates() DateRange { return b.dates }

// PickupBranchID returns the pickup branch ID.
func (b *Booking) PickupBranchID() uuid.UUID { return b.pickupBranchID }

// DropoffBranchID returns the dropoff branch ID.
func (b *Booking) DropoffBranchID() uuid.UUID { return b.dropoffBranchID }

// InsuranceSelected returns true if insurance was added to the booking.
func (b *Booking) InsuranceSelected() bool { return b.insuranceSelected }

// TotalPriceCents returns the total price in cents, insurance included.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// InsuranceCents returns the insurance portion of the price in cents.
func (b *Booking) InsuranceCents() int64 { return b.insuranceCents }

// PaymentMode returns the selected payment mode.
func (b *Booking) PaymentMode() PaymentMode { return b.paymentMode }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// PaymentStatus returns the current payment settlement status.
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }

// IdempotencyKey returns the caller-supplied creation key, or "".
func (b *Booking) IdempotencyKey() string { return b.idempotencyKey }

// CancelledAt returns the time the booking was cancelled, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking to confirmed and marks it paid. Confirming
// an already-confirmed booking is a no-op, reported through the changed
// return so callers can skip the persistence round-trip.
func (b *Booking) Confirm() (changed bool, err error) {
	if b.status == StatusConfirmed {
		return false, nil
	}
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return false, domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	b.status = StatusConfirmed
	if b.paymentStatus.CanTransitionTo(PaymentPaid) {
		b.paymentStatus = PaymentPaid
	}
	b.updatedAt = time.Now().UTC()
	return true, nil
}

// Activate transitions the booking from confirmed to active (vehicle pickup).
func (b *Booking) Activate() error {
	if !b.status.CanTransitionTo(StatusActive) {
		return domain.NewInvalidStateError(string(b.status), string(StatusActive))
	}
	b.status = StatusActive
	b.updatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the booking from active to completed (vehicle return).
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	b.status = StatusCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the booking to cancelled unless it is already in a
// terminal state. Illegal cancels are rejected, never silently ignored.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// MarkPaymentRefunded moves the payment status from paid to refunded.
func (b *Booking) MarkPaymentRefunded() error {
	if !b.paymentStatus.CanTransitionTo(PaymentRefunded) {
		return domain.NewInvalidStateError(string(b.paymentStatus), string(PaymentRefunded))
	}
	b.paymentStatus = PaymentRefunded
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkPaymentFailed moves the payment status from unpaid to failed.
func (b *Booking) MarkPaymentFailed() error {
	if !b.paymentStatus.CanTransitionTo(PaymentFailed) {
		return domain.NewInvalidStateError(string(b.paymentStatus), string(PaymentFailed))
	}
	b.paymentStatus = PaymentFailed
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
