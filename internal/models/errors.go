package models

import "fmt"

// ValidationError indicates bad caller input (non-positive amount,
// unknown method, missing route). Never retried automatically.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SeatsUnavailableError is returned when a seat pool has no free seats.
// Seat state is authoritative at the moment it was checked; callers
// should not retry.
type SeatsUnavailableError struct {
	PoolID  string `json:"pool_id"`
	Message string `json:"message"`
}

func (e *SeatsUnavailableError) Error() string {
	return e.Message
}

// SeatsAtCapacityError is returned when a release would push a pool
// past its total. Indicates a caller bug rather than normal flow.
type SeatsAtCapacityError struct {
	PoolID  string `json:"pool_id"`
	Message string `json:"message"`
}

func (e *SeatsAtCapacityError) Error() string {
	return e.Message
}

// InvalidStateTransitionError indicates a caller bug or a stale read:
// the entity is not in a status that permits the requested operation.
type InvalidStateTransitionError struct {
	Entity  string `json:"entity"`
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

func (e *InvalidStateTransitionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s cannot transition from %s to %s", e.Entity, e.From, e.To)
}

// PaymentFailedError is returned when payment processing fails. The
// ticket stays PENDING and the held seat is released by the caller.
type PaymentFailedError struct {
	PaymentID string `json:"payment_id,omitempty"`
	Reason    string `json:"reason"`
}

func (e *PaymentFailedError) Error() string {
	return "payment failed: " + e.Reason
}

// RefundExceedsBalanceError is returned when a refund request asks for
// more than the payment's remaining balance. The ledger is unchanged.
type RefundExceedsBalanceError struct {
	Requested float64 `json:"requested"`
	Remaining float64 `json:"remaining"`
}

func (e *RefundExceedsBalanceError) Error() string {
	return fmt.Sprintf("refund amount %.2f exceeds remaining balance %.2f", e.Requested, e.Remaining)
}

// CapabilityDeniedError is returned when an admin role lacks the
// capability required for an operation. Never retried.
type CapabilityDeniedError struct {
	Role       string `json:"role"`
	Capability string `json:"capability"`
}

func (e *CapabilityDeniedError) Error() string {
	return fmt.Sprintf("role %s does not have capability %s", e.Role, e.Capability)
}

// PersistenceFaultError wraps a storage failure. The whole operation is
// safe to retry from a clean state since nothing was committed.
type PersistenceFaultError struct {
	Op  string
	Err error
}

func (e *PersistenceFaultError) Error() string {
	return fmt.Sprintf("persistence fault during %s: %v", e.Op, e.Err)
}

func (e *PersistenceFaultError) Unwrap() error {
	return e.Err
}

// BoardingWindowError is returned when boarding is attempted outside
// the [departure - 30min, departure] window.
type BoardingWindowError struct {
	TooEarly bool   `json:"too_early"`
	Message  string `json:"message"`
}

func (e *BoardingWindowError) Error() string {
	return e.Message
}
