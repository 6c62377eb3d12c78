package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/hanco-rental/service-booking/internal/domain/booking"
)

// Kafka topics the service produces to and consumes from.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types carried on booking.events.
const (
	BookingCreated   = "booking.created"
	BookingConfirmed = "booking.confirmed"
	BookingActivated = "booking.activated"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
)

// Event types carried on payment.events.
const (
	PaymentCompleted = "payment.completed"
	PaymentRefunded  = "payment.refunded"
)

// BookingCreatedEvent is published after a booking is committed.
type BookingCreatedEvent struct {
	BookingID       uuid.UUID    `json:"booking_id"`
	RenterID        uuid.UUID    `json:"renter_id"`
	VehicleID       uuid.UUID    `json:"vehicle_id"`
	StartDate       booking.Date `json:"start_date"`
	EndDate         booking.Date `json:"end_date"`
	TotalPriceCents int64        `json:"total_price_cents"`
	Currency        string       `json:"currency"`
	OccurredAt      time.Time    `json:"occurred_at"`
}

// BookingStatusEvent is published for confirm/activate/complete/cancel
// transitions.
type BookingStatusEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	RenterID      uuid.UUID `json:"renter_id"`
	VehicleID     uuid.UUID `json:"vehicle_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentCompletedEvent is consumed from the payment service when a booking
// has been paid.
type PaymentCompletedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PaymentRefundedEvent is consumed from the payment service when a payment
// has been refunded.
type PaymentRefundedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
