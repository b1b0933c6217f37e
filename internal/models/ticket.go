package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// TICKET STATUS (matches DB ENUM ticket_status)
// ============================================================================

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusCancelled TicketStatus = "cancelled"
	TicketStatusBoarded   TicketStatus = "boarded"
)

// ticketTransitions defines the ticket state machine. CANCELLED and
// BOARDED are terminal.
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusPending:   {TicketStatusConfirmed, TicketStatusCancelled},
	TicketStatusConfirmed: {TicketStatusBoarded, TicketStatusCancelled},
	TicketStatusCancelled: {},
	TicketStatusBoarded:   {},
}

// IsValid returns true if the status is a recognized ticket status.
func (s TicketStatus) IsValid() bool {
	_, ok := ticketTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> target exists.
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	for _, t := range ticketTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no further transitions are possible.
func (s TicketStatus) IsTerminal() bool {
	return len(ticketTransitions[s]) == 0
}

// IsActive returns true for tickets that have not been cancelled.
func (s TicketStatus) IsActive() bool {
	return s != TicketStatusCancelled
}

// AllowsCancellation returns true if the ticket can still be cancelled.
func (s TicketStatus) AllowsCancellation() bool {
	return s.CanTransitionTo(TicketStatusCancelled)
}

// AllowsRefund returns true if a refund request may be created against
// a ticket in this status.
func (s TicketStatus) AllowsRefund() bool {
	return s == TicketStatusPending || s == TicketStatusConfirmed
}

// RefundPercentage is the upper bound on the refundable fraction of the
// ticket price, determined by lifecycle state at cancellation time.
// Distinct from the time-based tiers in Ticket.CalculateRefundAmount,
// which compute the fraction actually credited.
func (s TicketStatus) RefundPercentage() float64 {
	switch s {
	case TicketStatusPending:
		return 1.0
	case TicketStatusConfirmed:
		return 0.8
	default:
		return 0.0
	}
}

// RequiresApproval returns true if refunding a ticket in this status
// needs an admin decision.
func (s TicketStatus) RequiresApproval() bool {
	return s == TicketStatusConfirmed
}

// Description returns a human-readable status description.
func (s TicketStatus) Description() string {
	switch s {
	case TicketStatusPending:
		return "Awaiting confirmation"
	case TicketStatusConfirmed:
		return "Confirmed and ready for travel"
	case TicketStatusCancelled:
		return "Cancelled"
	case TicketStatusBoarded:
		return "Successfully boarded"
	default:
		return "Unknown status"
	}
}

// ============================================================================
// TRANSPORT TYPE
// ============================================================================

// TransportType identifies the kind of vehicle a ticket is for
type TransportType string

const (
	TransportTypeBus   TransportType = "bus"
	TransportTypeTrain TransportType = "train"
)

// IsValid returns true if the transport type is known.
func (t TransportType) IsValid() bool {
	return t == TransportTypeBus || t == TransportTypeTrain
}

// ============================================================================
// TICKET MODEL (tickets table)
// ============================================================================

// Ticket represents a passenger's claim on one seat for one journey.
// Tickets are never physically deleted, only transitioned to CANCELLED.
type Ticket struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	PassengerID    uuid.UUID      `json:"passenger_id" db:"passenger_id"`
	SeatPoolID     uuid.UUID      `json:"seat_pool_id" db:"seat_pool_id"`
	Route          string         `json:"route" db:"route"`
	Price          float64        `json:"price" db:"price"`
	Status         TicketStatus   `json:"status" db:"status"`
	TransportType  TransportType  `json:"transport_type" db:"transport_type"`
	TrainClass     *TrainClass    `json:"train_class,omitempty" db:"train_class"`
	BookingDate    time.Time      `json:"booking_date" db:"booking_date"`
	TravelDate     *time.Time     `json:"travel_date,omitempty" db:"travel_date"`
	PaymentMethod  *PaymentMethod `json:"payment_method,omitempty" db:"payment_method"`
	PaymentID      *uuid.UUID     `json:"payment_id,omitempty" db:"payment_id"`
	TransactionFee float64        `json:"transaction_fee" db:"transaction_fee"`
	SeatNumber     *string        `json:"seat_number,omitempty" db:"seat_number"`
	IsRefundable   bool           `json:"is_refundable" db:"is_refundable"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// TotalAmountPaid returns the ticket price plus the transaction fee.
func (t *Ticket) TotalAmountPaid() float64 {
	return t.Price + t.TransactionFee
}

// IsCancelled returns true if the ticket has been cancelled.
func (t *Ticket) IsCancelled() bool {
	return t.Status == TicketStatusCancelled
}

// IsActive returns true if the ticket has not been cancelled.
func (t *Ticket) IsActive() bool {
	return t.Status.IsActive()
}

// CanBeCancelled returns true if the lifecycle state allows cancelling.
func (t *Ticket) CanBeCancelled() bool {
	return t.Status.AllowsCancellation()
}

// CanBeRefunded reports refund eligibility for creating a refund
// request: the ticket must be flagged refundable, not cancelled, and
// either have no travel date yet or travel more than 24h away.
func (t *Ticket) CanBeRefunded(now time.Time) bool {
	if !t.IsRefundable || t.IsCancelled() {
		return false
	}
	return t.TravelDate == nil || t.TravelDate.After(now.Add(24*time.Hour))
}

// CalculateRefundAmount returns the amount actually credited to the
// passenger at refund-processing time, based on how far in advance of
// travel the refund happens: more than 7 days out 90%, between 24h and
// 7 days 70%, otherwise 50% of the total paid. A non-refundable or
// already-cancelled ticket gets nothing.
func (t *Ticket) CalculateRefundAmount(now time.Time) float64 {
	if !t.IsRefundable || t.IsCancelled() {
		return 0.0
	}

	total := t.TotalAmountPaid()
	switch {
	case t.TravelDate == nil || t.TravelDate.After(now.Add(7*24*time.Hour)):
		return total * 0.9
	case t.TravelDate.After(now.Add(24 * time.Hour)):
		return total * 0.7
	default:
		return total * 0.5
	}
}

// ValidateForTravel checks that the ticket can be used to board.
func (t *Ticket) ValidateForTravel(now time.Time) error {
	if t.Status != TicketStatusConfirmed {
		return &InvalidStateTransitionError{
			Entity:  "ticket",
			From:    string(t.Status),
			To:      string(TicketStatusBoarded),
			Message: fmt.Sprintf("ticket is not confirmed (status: %s)", t.Status),
		}
	}
	if t.TravelDate != nil && t.TravelDate.Before(now.Add(-time.Hour)) {
		return NewValidationError("travel_date", "ticket has expired")
	}
	return nil
}

// Summary returns a one-line description for logs and listings.
func (t *Ticket) Summary() string {
	s := fmt.Sprintf("Ticket %s | %s | %s | %.2f BDT | %s",
		t.ID, t.TransportType, t.Route, t.Price, t.Status)
	if t.TrainClass != nil && *t.TrainClass != TrainClassEconomy {
		s += " | " + t.TrainClass.DisplayName()
	}
	return s
}

// ============================================================================
// REQUEST/RESPONSE STRUCTS
// ============================================================================

// BookTicketRequest is the passenger-facing request to book and pay in
// one operation.
type BookTicketRequest struct {
	SeatPoolID    string  `json:"seat_pool_id" binding:"required"`
	Route         string  `json:"route" binding:"required"`
	DistanceKm    float64 `json:"distance_km" binding:"required,gt=0"`
	StopCount     int     `json:"stop_count" binding:"gte=0"`
	TransportType string  `json:"transport_type" binding:"required"`
	TrainClass    *string `json:"train_class,omitempty"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	TravelDate    *string `json:"travel_date,omitempty"` // RFC 3339
}

// BookTicketResponse is returned after a successful booking.
type BookTicketResponse struct {
	Ticket      *Ticket  `json:"ticket"`
	Payment     *Payment `json:"payment"`
	TotalCharge float64  `json:"total_charge"`
	Currency    string   `json:"currency"`
}

// CancelTicketResponse reports the outcome of a cancellation.
type CancelTicketResponse struct {
	Ticket           *Ticket `json:"ticket"`
	RefundPercentage float64 `json:"refund_percentage"`
	MaxRefundAmount  float64 `json:"max_refund_amount"`
}
