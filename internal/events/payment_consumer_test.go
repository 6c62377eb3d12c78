package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/domain"
	"github.com/hanco-rental/service-booking/internal/kafka"
)

type recordingHandler struct {
	confirmed  []uuid.UUID
	refunded   []uuid.UUID
	confirmErr error
	refundErr  error
}

func (h *recordingHandler) ConfirmFromPayment(_ context.Context, bookingID uuid.UUID) error {
	h.confirmed = append(h.confirmed, bookingID)
	return h.confirmErr
}

func (h *recordingHandler) MarkPaymentRefunded(_ context.Context, bookingID uuid.UUID) error {
	h.refunded = append(h.refunded, bookingID)
	return h.refundErr
}

func newTestConsumer(handler PaymentHandler) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		handler: handler,
		logger:  zap.NewNop(),
	}
}

func messageFor(t *testing.T, eventType string, data interface{}) kafkago.Message {
	t.Helper()
	ce, err := kafka.NewCloudEvent("service-payment", eventType, data)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Value: raw}
}

func TestHandleMessage_PaymentCompleted(t *testing.T) {
	handler := &recordingHandler{}
	consumer := newTestConsumer(handler)
	bookingID := uuid.New()

	msg := messageFor(t, PaymentCompleted, PaymentCompletedEvent{
		PaymentID:   uuid.New(),
		BookingID:   bookingID,
		AmountCents: 50000,
		Currency:    "SAR",
		OccurredAt:  time.Now().UTC(),
	})

	require.NoError(t, consumer.handleMessage(context.Background(), msg))
	assert.Equal(t, []uuid.UUID{bookingID}, handler.confirmed)
}

func TestHandleMessage_PaymentRefunded(t *testing.T) {
	handler := &recordingHandler{}
	consumer := newTestConsumer(handler)
	bookingID := uuid.New()

	msg := messageFor(t, PaymentRefunded, PaymentRefundedEvent{
		PaymentID: uuid.New(),
		BookingID: bookingID,
	})

	require.NoError(t, consumer.handleMessage(context.Background(), msg))
	assert.Equal(t, []uuid.UUID{bookingID}, handler.refunded)
}

func TestHandleMessage_SkipsMalformedAndUnknown(t *testing.T) {
	handler := &recordingHandler{}
	consumer := newTestConsumer(handler)

	// Garbage payload: logged and dropped, never redelivered.
	err := consumer.handleMessage(context.Background(), kafkago.Message{Value: []byte("not json")})
	assert.NoError(t, err)

	// Unknown event type: ignored.
	msg := messageFor(t, "payment.initiated", map[string]string{"foo": "bar"})
	assert.NoError(t, consumer.handleMessage(context.Background(), msg))

	assert.Empty(t, handler.confirmed)
	assert.Empty(t, handler.refunded)
}

func TestHandleMessage_TerminalMismatchIsNotRedelivered(t *testing.T) {
	// A booking cancelled before its payment event arrives must not wedge the
	// consumer group in an infinite redelivery loop.
	handler := &recordingHandler{
		confirmErr: domain.NewInvalidStateError("cancelled", "confirmed"),
	}
	consumer := newTestConsumer(handler)

	msg := messageFor(t, PaymentCompleted, PaymentCompletedEvent{BookingID: uuid.New()})
	assert.NoError(t, consumer.handleMessage(context.Background(), msg))
}

func TestHandleMessage_InfrastructureErrorsAreRedelivered(t *testing.T) {
	handler := &recordingHandler{
		confirmErr: domain.NewInfrastructureError("db down", errors.New("conn refused")),
	}
	consumer := newTestConsumer(handler)

	msg := messageFor(t, PaymentCompleted, PaymentCompletedEvent{BookingID: uuid.New()})
	assert.Error(t, consumer.handleMessage(context.Background(), msg))
}
