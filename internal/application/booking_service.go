package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/domain"
	bookingDomain "github.com/hanco-rental/service-booking/internal/domain/booking"
	branchDomain "github.com/hanco-rental/service-booking/internal/domain/branch"
	vehicleDomain "github.com/hanco-rental/service-booking/internal/domain/vehicle"
	"github.com/hanco-rental/service-booking/internal/events"
	"github.com/hanco-rental/service-booking/internal/kafka"
)

// EventPublisher publishes CloudEvents; satisfied by *kafka.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	VehicleID         uuid.UUID          `json:"vehicle_id" binding:"required"`
	StartDate         bookingDomain.Date `json:"start_date" binding:"required"`
	EndDate           bookingDomain.Date `json:"end_date" binding:"required"`
	PickupBranchID    uuid.UUID          `json:"pickup_branch_id" binding:"required"`
	DropoffBranchID   uuid.UUID          `json:"dropoff_branch_id" binding:"required"`
	InsuranceSelected bool               `json:"insurance_selected"`
	PaymentMode       string             `json:"payment_mode"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                uuid.UUID          `json:"id"`
	RenterID          uuid.UUID          `json:"renter_id"`
	VehicleID         uuid.UUID          `json:"vehicle_id"`
	StartDate         bookingDomain.Date `json:"start_date"`
	EndDate           bookingDomain.Date `json:"end_date"`
	PickupBranchID    uuid.UUID          `json:"pickup_branch_id"`
	DropoffBranchID   uuid.UUID          `json:"dropoff_branch_id"`
	InsuranceSelected bool               `json:"insurance_selected"`
	TotalPriceCents   int64              `json:"total_price_cents"`
	InsuranceCents    int64              `json:"insurance_cents"`
	Currency          string             `json:"currency"`
	PaymentMode       string             `json:"payment_mode"`
	Status            string             `json:"status"`
	PaymentStatus     string             `json:"payment_status"`
	CancelledAt       *time.Time         `json:"cancelled_at,omitempty"`
	CancelNote        string             `json:"cancel_note,omitempty"`
	Version           int64              `json:"version"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// AvailabilityDTO is the result of a standalone availability query.
type AvailabilityDTO struct {
	VehicleID     uuid.UUID                `json:"vehicle_id"`
	Available     bool                     `json:"available"`
	Reason        string                   `json:"reason,omitempty"`
	VehicleStatus string                   `json:"vehicle_status"`
	StartDate     bookingDomain.Date       `json:"requested_start_date"`
	EndDate       bookingDomain.Date       `json:"requested_end_date"`
	Conflicts     []bookingDomain.Conflict `json:"conflicting_bookings"`
}

// BookingService orchestrates booking admission and lifecycle use cases.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	vehicles vehicleDomain.VehicleRepository
	branches branchDomain.BranchRepository
	pricing  bookingDomain.PriceCalculator
	producer EventPublisher
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	vehicles vehicleDomain.VehicleRepository,
	branches branchDomain.BranchRepository,
	pricing bookingDomain.PriceCalculator,
	producer EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		vehicles: vehicles,
		branches: branches,
		pricing:  pricing,
		producer: producer,
		logger:   logger,
	}
}

// CreateBooking admits a new booking for the given renter.
//
// The flow is: validate → optimistic availability pre-check → price quote →
// transactional commit with an in-transaction re-check. The pre-check only
// fails fast; correctness against concurrent admissions rests entirely on
// the repository's CreateIfAvailable transaction.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest, idempotencyKey string) (*BookingDTO, error) {
	dates, err := bookingDomain.NewDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if dates.Start.Before(bookingDomain.Today()) {
		return nil, domain.NewValidationError("start date cannot be in the past")
	}

	paymentMode := bookingDomain.PaymentModeCash
	if req.PaymentMode != "" {
		paymentMode, err = bookingDomain.ParsePaymentMode(req.PaymentMode)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
	}

	if err := s.requireBranch(ctx, req.PickupBranchID, "pickup"); err != nil {
		return nil, err
	}
	if err := s.requireBranch(ctx, req.DropoffBranchID, "dropoff"); err != nil {
		return nil, err
	}

	// A retried request with the same idempotency key returns the booking
	// committed by the original attempt instead of re-running admission.
	if idempotencyKey != "" {
		existing, err := s.bookings.FindByIdempotencyKey(ctx, renterID, idempotencyKey)
		if err == nil {
			result := toBookingDTO(existing)
			return &result, nil
		}
		if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
	}

	veh, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	// Optimistic pre-check: fail fast before pricing, but never rely on it.
	availability, err := s.checkConflicts(ctx, veh, dates)
	if err != nil {
		return nil, err
	}
	if !availability.Available {
		return nil, domain.NewConflictError(availability.Reason)
	}

	quote, err := s.pricing.Calculate(bookingDomain.PricingParams{
		BaseDailyRateCents: veh.BaseDailyRateCents,
		Dates:              dates,
		InsuranceSelected:  req.InsuranceSelected,
	})
	if err != nil {
		return nil, domain.NewValidationError("pricing error: " + err.Error())
	}

	bk, err := bookingDomain.NewBooking(
		uuid.New(),
		renterID,
		req.VehicleID,
		dates,
		req.PickupBranchID,
		req.DropoffBranchID,
		req.InsuranceSelected,
		quote.TotalCents,
		quote.InsuranceCents,
		paymentMode,
		idempotencyKey,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.CreateIfAvailable(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("vehicle_id", bk.VehicleID().String()),
		zap.String("renter_id", renterID.String()),
	)
	s.publishCreated(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CheckAvailability answers whether the vehicle can be booked for the range,
// listing the conflicting bookings when it cannot.
func (s *BookingService) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end bookingDomain.Date) (*AvailabilityDTO, error) {
	dates, err := bookingDomain.NewDateRange(start, end)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if dates.Start.Before(bookingDomain.Today()) {
		return nil, domain.NewValidationError("start date cannot be in the past")
	}

	veh, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	return s.checkConflicts(ctx, veh, dates)
}

// checkConflicts is the single availability evaluation shared by the
// standalone query and the creation pre-check. A vehicle outside the
// bookable statuses is unconditionally unavailable, independent of dates,
// with an empty conflict list.
func (s *BookingService) checkConflicts(ctx context.Context, veh *vehicleDomain.Vehicle, dates bookingDomain.DateRange) (*AvailabilityDTO, error) {
	result := &AvailabilityDTO{
		VehicleID:     veh.ID,
		VehicleStatus: string(veh.Status),
		StartDate:     dates.Start,
		EndDate:       dates.End,
		Conflicts:     []bookingDomain.Conflict{},
	}

	if !veh.Status.Bookable() {
		result.Available = false
		result.Reason = fmt.Sprintf("vehicle is not bookable: status is %q", veh.Status)
		return result, nil
	}

	blocking, err := s.bookings.FindBlockingByVehicleID(ctx, veh.ID)
	if err != nil {
		return nil, err
	}

	for _, existing := range blocking {
		if dates.Overlaps(existing.Dates()) {
			result.Conflicts = append(result.Conflicts, bookingDomain.Conflict{
				BookingID: existing.ID(),
				Dates:     existing.Dates(),
				Status:    existing.Status(),
			})
		}
	}

	result.Available = len(result.Conflicts) == 0
	if !result.Available {
		result.Reason = fmt.Sprintf("vehicle not available for selected dates: %d conflicting booking(s)", len(result.Conflicts))
	}
	return result, nil
}

// GetBooking retrieves a booking, returning NotFound on ownership mismatch
// so booking ids cannot be enumerated by other callers.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*BookingDTO, error) {
	bk, err := s.loadOwned(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookings retrieves the renter's bookings newest first.
func (s *BookingService) ListBookings(ctx context.Context, renterID uuid.UUID, statusFilter string, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	var status bookingDomain.BookingStatus
	if statusFilter != "" {
		parsed, err := bookingDomain.ParseBookingStatus(statusFilter)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		status = parsed
	}

	bookings, total, err := s.bookings.FindByRenterID(ctx, renterID, status, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// ConfirmBooking confirms a booking on behalf of its renter (or an admin)
// and marks it paid. Confirming an already-confirmed booking returns the
// current state without error.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*BookingDTO, error) {
	bk, err := s.loadOwned(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	return s.confirm(ctx, bk)
}

// ConfirmFromPayment confirms a booking in reaction to a payment event; no
// ownership check because the payment service is trusted.
func (s *BookingService) ConfirmFromPayment(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	_, err = s.confirm(ctx, bk)
	return err
}

func (s *BookingService) confirm(ctx context.Context, bk *bookingDomain.Booking) (*BookingDTO, error) {
	changed, err := bk.Confirm()
	if err != nil {
		return nil, err
	}

	if changed {
		bk.IncrementVersion()
		if err := s.bookings.Update(ctx, bk); err != nil {
			return nil, err
		}
		s.publishStatus(ctx, events.BookingConfirmed, bk, "")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a booking that is not yet in a terminal state.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool, reason string) (*BookingDTO, error) {
	bk, err := s.loadOwned(ctx, bookingID, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bk.ID().String()),
		zap.String("cancelled_by", requesterID.String()),
	)
	s.publishStatus(ctx, events.BookingCancelled, bk, reason)

	result := toBookingDTO(bk)
	return &result, nil
}

// ActivateBooking marks a confirmed booking as active at vehicle pickup (admin).
func (s *BookingService) ActivateBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Activate(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}
	s.publishStatus(ctx, events.BookingActivated, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking marks an active booking as completed at vehicle return (admin).
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Complete(); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}
	s.publishStatus(ctx, events.BookingCompleted, bk, "")

	result := toBookingDTO(bk)
	return &result, nil
}

// MarkPaymentRefunded records a refund against the booking's payment status.
func (s *BookingService) MarkPaymentRefunded(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := bk.MarkPaymentRefunded(); err != nil {
		return err
	}

	bk.IncrementVersion()
	return s.bookings.Update(ctx, bk)
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

// loadOwned fetches a booking and verifies the requester owns it. Ownership
// mismatches surface as NotFound rather than Forbidden so booking ids cannot
// be probed for existence.
func (s *BookingService) loadOwned(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*bookingDomain.Booking, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && bk.RenterID() != requesterID {
		return nil, domain.NewNotFoundError("Booking", bookingID.String())
	}
	return bk, nil
}

func (s *BookingService) requireBranch(ctx context.Context, id uuid.UUID, role string) error {
	if id == uuid.Nil {
		return domain.NewValidationError(role + " branch ID is required")
	}
	exists, err := s.branches.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewValidationError(role + " branch does not exist")
	}
	return nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:                bk.ID(),
		RenterID:          bk.RenterID(),
		VehicleID:         bk.VehicleID(),
		StartDate:         bk.Dates().Start,
		EndDate:           bk.Dates().End,
		PickupBranchID:    bk.PickupBranchID(),
		DropoffBranchID:   bk.DropoffBranchID(),
		InsuranceSelected: bk.InsuranceSelected(),
		TotalPriceCents:   bk.TotalPriceCents(),
		InsuranceCents:    bk.InsuranceCents(),
		Currency:          domain.CurrencySAR,
		PaymentMode:       string(bk.PaymentMode()),
		Status:            string(bk.Status()),
		PaymentStatus:     string(bk.PaymentStatus()),
		CancelledAt:       bk.CancelledAt(),
		CancelNote:        bk.CancelNote(),
		Version:           bk.Version(),
		CreatedAt:         bk.CreatedAt(),
		UpdatedAt:         bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func (s *BookingService) publishCreated(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingCreatedEvent{
		BookingID:       bk.ID(),
		RenterID:        bk.RenterID(),
		VehicleID:       bk.VehicleID(),
		StartDate:       bk.Dates().Start,
		EndDate:         bk.Dates().End,
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        domain.CurrencySAR,
		OccurredAt:      time.Now().UTC(),
	}
	s.publishEvent(ctx, events.BookingCreated, evt)
}

func (s *BookingService) publishStatus(ctx context.Context, eventType string, bk *bookingDomain.Booking, reason string) {
	evt := events.BookingStatusEvent{
		BookingID:     bk.ID(),
		RenterID:      bk.RenterID(),
		VehicleID:     bk.VehicleID(),
		Status:        string(bk.Status()),
		PaymentStatus: string(bk.PaymentStatus()),
		Reason:        reason,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, eventType, evt)
}

// publishEvent publishes best-effort: a Kafka outage must not fail a booking
// operation that already committed.
func (s *BookingService) publishEvent(ctx context.Context, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
