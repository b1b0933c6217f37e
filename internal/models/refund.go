package models

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// REFUND STATUS (matches DB ENUM refund_status)
// ============================================================================

// RefundStatus represents the state of a refund request
type RefundStatus string

const (
	RefundStatusPending   RefundStatus = "pending"
	RefundStatusApproved  RefundStatus = "approved"
	RefundStatusRejected  RefundStatus = "rejected"
	RefundStatusCompleted RefundStatus = "completed"
	RefundStatusCanceled  RefundStatus = "canceled"
	RefundStatusFailed    RefundStatus = "failed"
)

// refundTransitions defines the refund state machine. REJECTED,
// COMPLETED, CANCELED and FAILED are terminal. Processing runs from
// PENDING or APPROVED, so both can complete or fail outright, and an
// APPROVED refund can still be rejected when re-validation fails.
var refundTransitions = map[RefundStatus][]RefundStatus{
	RefundStatusPending:   {RefundStatusApproved, RefundStatusRejected, RefundStatusCanceled, RefundStatusCompleted, RefundStatusFailed},
	RefundStatusApproved:  {RefundStatusCompleted, RefundStatusRejected, RefundStatusFailed},
	RefundStatusRejected:  {},
	RefundStatusCompleted: {},
	RefundStatusCanceled:  {},
	RefundStatusFailed:    {},
}

// IsValid returns true if the status is a recognized refund status.
func (s RefundStatus) IsValid() bool {
	_, ok := refundTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> target exists.
func (s RefundStatus) CanTransitionTo(target RefundStatus) bool {
	for _, t := range refundTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no further transitions are possible.
func (s RefundStatus) IsTerminal() bool {
	return len(refundTransitions[s]) == 0
}

// AllowsProcessing returns true if the refund can still be processed.
func (s RefundStatus) AllowsProcessing() bool {
	return s == RefundStatusPending || s == RefundStatusApproved
}

// RequiresAdminAction returns true while the refund awaits a decision.
func (s RefundStatus) RequiresAdminAction() bool {
	return s == RefundStatusPending
}

// IsSuccessful returns true if the refund went through.
func (s RefundStatus) IsSuccessful() bool {
	return s == RefundStatusCompleted
}

// Description returns a human-readable status description.
func (s RefundStatus) Description() string {
	switch s {
	case RefundStatusPending:
		return "Refund request is pending"
	case RefundStatusApproved:
		return "Refund request has been approved"
	case RefundStatusRejected:
		return "Refund request has been rejected"
	case RefundStatusCompleted:
		return "Refund has been completed"
	case RefundStatusCanceled:
		return "Refund request has been canceled"
	case RefundStatusFailed:
		return "Refund request failed"
	default:
		return "Unknown status"
	}
}

// ============================================================================
// REFUND MODEL (refunds table)
// ============================================================================

// Refund represents a refund request against one ticket. Completing a
// refund forces the ticket into CANCELLED.
type Refund struct {
	ID                 uuid.UUID    `json:"id" db:"id"`
	TicketID           uuid.UUID    `json:"ticket_id" db:"ticket_id"`
	Amount             float64      `json:"amount" db:"amount"`
	Status             RefundStatus `json:"status" db:"status"`
	Reason             string       `json:"reason" db:"reason"`
	RequestDate        time.Time    `json:"request_date" db:"request_date"`
	ProcessedDate      *time.Time   `json:"processed_date,omitempty" db:"processed_date"`
	ProcessedByAdminID *uuid.UUID   `json:"processed_by_admin_id,omitempty" db:"processed_by_admin_id"`
	RejectionReason    *string      `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// IsPending returns true while the refund awaits an admin decision.
func (r *Refund) IsPending() bool {
	return r.Status == RefundStatusPending
}

// IsCompleted returns true if the refund has been paid out.
func (r *Refund) IsCompleted() bool {
	return r.Status == RefundStatusCompleted
}

// CanBeCanceled reports whether the requester may withdraw the refund.
// Anything not yet completed or rejected can be canceled.
func (r *Refund) CanBeCanceled() bool {
	return r.Status != RefundStatusCompleted && r.Status != RefundStatusRejected
}

// ============================================================================
// REQUEST/RESPONSE STRUCTS
// ============================================================================

// CreateRefundRequest asks for a refund against a ticket.
type CreateRefundRequest struct {
	TicketID string  `json:"ticket_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Reason   string  `json:"reason" binding:"required"`
}

// RejectRefundRequest carries the rejection reason.
type RejectRefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RefundEstimateResponse is the passenger-facing estimate of what a
// refund would actually credit right now.
type RefundEstimateResponse struct {
	TicketID         uuid.UUID `json:"ticket_id"`
	Eligible         bool      `json:"eligible"`
	EstimatedAmount  float64   `json:"estimated_amount"`
	MaxRefundAmount  float64   `json:"max_refund_amount"`
	RefundPercentage float64   `json:"refund_percentage"`
	Currency         string    `json:"currency"`
}
