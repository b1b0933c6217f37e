package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// PAYMENT STATUS (matches DB ENUM payment_status)
// ============================================================================

// PaymentStatus represents the status of a payment record
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// paymentTransitions defines the valid forward edges of the payment
// state machine. FAILED and REFUNDED are terminal.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:           {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted:         {PaymentStatusRefunded, PaymentStatusPartiallyRefunded},
	PaymentStatusPartiallyRefunded: {PaymentStatusRefunded},
	PaymentStatusFailed:            {},
	PaymentStatusRefunded:          {},
}

// IsValid returns true if the status is a recognized payment status.
func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> target exists.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, t := range paymentTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no further transitions are possible.
func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// CanBeRefunded returns true if a refund may be applied in this status.
func (s PaymentStatus) CanBeRefunded() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusPartiallyRefunded
}

// IsSuccessful returns true if the payment went through.
func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentStatusCompleted
}

// Description returns a human-readable status description.
func (s PaymentStatus) Description() string {
	switch s {
	case PaymentStatusPending:
		return "Payment is pending processing"
	case PaymentStatusCompleted:
		return "Payment completed successfully"
	case PaymentStatusFailed:
		return "Payment failed to process"
	case PaymentStatusRefunded:
		return "Payment has been fully refunded"
	case PaymentStatusPartiallyRefunded:
		return "Payment has been partially refunded"
	default:
		return "Unknown payment status"
	}
}

// ============================================================================
// PAYMENT METHOD (matches DB ENUM payment_method)
// ============================================================================

// PaymentMethod represents how a passenger pays
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodMobileWallet PaymentMethod = "mobile_wallet"
	PaymentMethodCrypto       PaymentMethod = "crypto"
)

// transactionFeeRates is the per-method fee rate applied on top of the
// ticket price.
var transactionFeeRates = map[PaymentMethod]float64{
	PaymentMethodCreditCard:   0.025,
	PaymentMethodDebitCard:    0.015,
	PaymentMethodPaypal:       0.03,
	PaymentMethodMobileWallet: 0.02,
	PaymentMethodCrypto:       0.01,
}

// refundableMethods lists methods the gateway can push money back to.
var refundableMethods = map[PaymentMethod]bool{
	PaymentMethodCreditCard: true,
	PaymentMethodDebitCard:  true,
	PaymentMethodPaypal:     true,
}

// methodAmountLimits bounds the chargeable amount per method (BDT).
var methodAmountLimits = map[PaymentMethod][2]float64{
	PaymentMethodCreditCard:   {60.0, 600000.0},
	PaymentMethodDebitCard:    {60.0, 120000.0},
	PaymentMethodPaypal:       {60.0, 1200000.0},
	PaymentMethodMobileWallet: {120.0, 60000.0},
	PaymentMethodCrypto:       {1200.0, math.MaxFloat64},
}

// IsValid returns true if the method is known.
func (m PaymentMethod) IsValid() bool {
	_, ok := transactionFeeRates[m]
	return ok
}

// FeeRate returns the transaction fee rate for the method.
func (m PaymentMethod) FeeRate() float64 {
	return transactionFeeRates[m]
}

// SupportsRefunds returns true if money can be returned to this method.
func (m PaymentMethod) SupportsRefunds() bool {
	return refundableMethods[m]
}

// AmountLimits returns the minimum and maximum chargeable amount.
func (m PaymentMethod) AmountLimits() (min, max float64) {
	limits, ok := methodAmountLimits[m]
	if !ok {
		return 0, 0
	}
	return limits[0], limits[1]
}

// DisplayName returns a human-readable name for the method.
func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentMethodCreditCard:
		return "Credit Card"
	case PaymentMethodDebitCard:
		return "Debit Card"
	case PaymentMethodPaypal:
		return "PayPal"
	case PaymentMethodMobileWallet:
		return "Mobile Wallet"
	case PaymentMethodCrypto:
		return "Cryptocurrency"
	default:
		return string(m)
	}
}

// ParsePaymentMethod converts a string to a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", NewValidationError("payment_method", "unknown payment method: "+s)
	}
	return m, nil
}

// ============================================================================
// PAYMENT MODEL (payments table)
// ============================================================================

// Payment represents one payment record, 1:1 with a ticket at a given
// point in time. The latest payment for a ticket is authoritative.
type Payment struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	TicketID        uuid.UUID     `json:"ticket_id" db:"ticket_id"`
	Method          PaymentMethod `json:"method" db:"method"`
	Amount          float64       `json:"amount" db:"amount"`
	RefundedAmount  float64       `json:"refunded_amount" db:"refunded_amount"`
	Status          PaymentStatus `json:"status" db:"status"`
	FailureReason   *string       `json:"failure_reason,omitempty" db:"failure_reason"`
	TransactionDate time.Time     `json:"transaction_date" db:"transaction_date"`
	Currency        string        `json:"currency" db:"currency"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// RemainingAmount returns the balance still refundable.
func (p *Payment) RemainingAmount() float64 {
	return p.Amount - p.RefundedAmount
}

// IsSuccessful returns true if the payment completed.
func (p *Payment) IsSuccessful() bool {
	return p.Status.IsSuccessful()
}

// CanBeRefunded reports whether a refund may be applied: the status
// must allow it and the method must support refunds.
func (p *Payment) CanBeRefunded() bool {
	return p.Status.CanBeRefunded() && p.Method.SupportsRefunds()
}
