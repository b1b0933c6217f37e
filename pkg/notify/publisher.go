// Package notify publishes booking domain events to RabbitMQ. Errors
// are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/booking-backend/internal/models"
)

const (
	QueueTicketConfirmed = "ticket.confirmed"
	QueueTicketCancelled = "ticket.cancelled"
	QueueRefundCompleted = "refund.completed"
)

// TicketEvent is the wire payload for ticket lifecycle events.
type TicketEvent struct {
	TicketID     uuid.UUID `json:"ticket_id"`
	PassengerID  uuid.UUID `json:"passenger_id"`
	Route        string    `json:"route"`
	Status       string    `json:"status"`
	TotalAmount  float64   `json:"total_amount"`
	RefundAmount float64   `json:"refund_amount,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// RefundEvent is the wire payload for completed refunds.
type RefundEvent struct {
	RefundID   uuid.UUID `json:"refund_id"`
	TicketID   uuid.UUID `json:"ticket_id"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher pushes events onto durable queues. When disabled it is a
// no-op, so local development does not need a broker.
type Publisher struct {
	url     string
	enabled bool
	logger  *logrus.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(url string, enabled bool, logger *logrus.Logger) *Publisher {
	return &Publisher{
		url:     url,
		enabled: enabled,
		logger:  logger,
	}
}

// TicketConfirmed publishes a booking confirmation event.
func (p *Publisher) TicketConfirmed(ticket *models.Ticket, payment *models.Payment) error {
	return p.publish(QueueTicketConfirmed, TicketEvent{
		TicketID:    ticket.ID,
		PassengerID: ticket.PassengerID,
		Route:       ticket.Route,
		Status:      string(ticket.Status),
		TotalAmount: payment.Amount,
		OccurredAt:  time.Now().UTC(),
	})
}

// TicketCancelled publishes a cancellation event with the credited
// refund amount.
func (p *Publisher) TicketCancelled(ticket *models.Ticket, refundAmount float64) error {
	return p.publish(QueueTicketCancelled, TicketEvent{
		TicketID:     ticket.ID,
		PassengerID:  ticket.PassengerID,
		Route:        ticket.Route,
		Status:       string(ticket.Status),
		TotalAmount:  ticket.TotalAmountPaid(),
		RefundAmount: refundAmount,
		OccurredAt:   time.Now().UTC(),
	})
}

// RefundCompleted publishes a completed refund event.
func (p *Publisher) RefundCompleted(refund *models.Refund) error {
	return p.publish(QueueRefundCompleted, RefundEvent{
		RefundID:   refund.ID,
		TicketID:   refund.TicketID,
		Amount:     refund.Amount,
		OccurredAt: time.Now().UTC(),
	})
}

// publish opens a short-lived connection per event. Volume is low
// enough that connection reuse is not worth the reconnect handling.
func (p *Publisher) publish(queue string, event interface{}) error {
	if !p.enabled {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.WithError(err).Error("Failed to dial message broker")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.WithError(err).Error("Failed to open broker channel")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so events survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.logger.WithError(err).WithField("queue", queue).Error("Failed to declare queue")
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Error("Failed to encode event")
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.logger.WithError(err).WithField("queue", queue).Error("Failed to publish event")
		return err
	}

	p.logger.WithField("queue", queue).Debug("Event published")
	return nil
}
