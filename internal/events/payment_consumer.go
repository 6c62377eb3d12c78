package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/domain"
	"github.com/hanco-rental/service-booking/internal/kafka"
)

// PaymentHandler is the slice of the booking service the consumer needs to
// apply payment outcomes to bookings.
type PaymentHandler interface {
	ConfirmFromPayment(ctx context.Context, bookingID uuid.UUID) error
	MarkPaymentRefunded(ctx context.Context, bookingID uuid.UUID) error
}

// PaymentEventConsumer listens to payment events and couples them to booking
// lifecycle transitions (confirm-on-paid, mark refunded).
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	handler  PaymentHandler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	handler PaymentHandler,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		handler:  handler,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentCompleted:
		return c.handlePaymentCompleted(ctx, cloudEvent)
	case PaymentRefunded:
		return c.handlePaymentRefunded(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentCompleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentCompletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentCompletedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment completed event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	if err := c.handler.ConfirmFromPayment(ctx, evt.BookingID); err != nil {
		// A booking that was cancelled before the payment event arrived is a
		// terminal mismatch, not a reason to redeliver forever.
		if domain.IsKind(err, domain.KindInvalidState) || domain.IsKind(err, domain.KindNotFound) {
			c.logger.Warn("payment event could not be applied",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return nil
		}
		return err
	}

	c.logger.Info("booking confirmed after payment",
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}

func (c *PaymentEventConsumer) handlePaymentRefunded(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentRefundedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentRefundedEvent data", zap.Error(err))
		return nil
	}

	if err := c.handler.MarkPaymentRefunded(ctx, evt.BookingID); err != nil {
		if domain.IsKind(err, domain.KindInvalidState) || domain.IsKind(err, domain.KindNotFound) {
			c.logger.Warn("refund event could not be applied",
				zap.String("booking_id", evt.BookingID.String()),
				zap.Error(err),
			)
			return nil
		}
		return err
	}

	c.logger.Info("booking payment marked refunded",
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}
