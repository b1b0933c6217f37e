package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/models"
)

// paymentStore is the persistence surface the payment ledger needs
type paymentStore interface {
	Create(payment *models.Payment) error
	GetByID(paymentID uuid.UUID) (*models.Payment, error)
	GetLatestByTicket(ticketID uuid.UUID) (*models.Payment, error)
	Update(payment *models.Payment) error
}

// PaymentService is the payment ledger. It charges tickets and applies
// refunds against completed payments. Every attempt leaves a payment
// record, failed ones included.
type PaymentService struct {
	payments paymentStore
	currency string
	logger   *logrus.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(payments paymentStore, currency string, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		payments: payments,
		currency: currency,
		logger:   logger,
	}
}

// Charge attempts to collect amount from the given method for a
// ticket. The payment record is persisted whether the charge succeeds
// or fails; a failed charge additionally returns PaymentFailedError.
func (s *PaymentService) Charge(ticketID uuid.UUID, method models.PaymentMethod, amount float64) (*models.Payment, error) {
	payment := &models.Payment{
		TicketID:        ticketID,
		Method:          method,
		Amount:          amount,
		Status:          models.PaymentStatusPending,
		TransactionDate: time.Now(),
		Currency:        s.currency,
	}

	if reason := s.authorize(method, amount); reason != "" {
		payment.Status = models.PaymentStatusFailed
		payment.FailureReason = &reason
		if err := s.payments.Create(payment); err != nil {
			return nil, &models.PersistenceFaultError{Op: "record failed payment", Err: err}
		}

		s.logger.WithFields(logrus.Fields{
			"payment_id": payment.ID,
			"ticket_id":  ticketID,
			"method":     method,
			"amount":     amount,
			"reason":     reason,
		}).Warn("Payment declined")

		return payment, &models.PaymentFailedError{PaymentID: payment.ID.String(), Reason: reason}
	}

	payment.Status = models.PaymentStatusCompleted
	if err := s.payments.Create(payment); err != nil {
		return nil, &models.PersistenceFaultError{Op: "record payment", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"ticket_id":  ticketID,
		"method":     method,
		"amount":     amount,
		"currency":   payment.Currency,
	}).Info("Payment completed")

	return payment, nil
}

// authorize runs the method's acceptance checks and returns a decline
// reason, or empty string when the charge is accepted.
func (s *PaymentService) authorize(method models.PaymentMethod, amount float64) string {
	if amount <= 0 {
		return "payment amount must be positive"
	}
	if !method.IsValid() {
		return "unknown payment method: " + string(method)
	}
	min, max := method.AmountLimits()
	if amount < min {
		return fmt.Sprintf("amount %.2f is below the %.2f minimum for %s", amount, min, method.DisplayName())
	}
	if amount > max {
		return fmt.Sprintf("amount %.2f exceeds the %.2f limit for %s", amount, max, method.DisplayName())
	}
	return ""
}

// ApplyRefund credits amount back against a payment. Partial refunds
// move the payment to PARTIALLY_REFUNDED; draining the balance moves
// it to REFUNDED. The ledger is untouched on any rejection.
func (s *PaymentService) ApplyRefund(paymentID uuid.UUID, amount float64) (*models.Payment, error) {
	if amount <= 0 {
		return nil, models.NewValidationError("amount", "refund amount must be positive")
	}

	payment, err := s.payments.GetByID(paymentID)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "get payment", Err: err}
	}
	if payment == nil {
		return nil, models.NewValidationError("payment_id", "payment not found")
	}

	if !payment.Status.CanBeRefunded() {
		return nil, &models.InvalidStateTransitionError{
			Entity:  "payment",
			From:    string(payment.Status),
			To:      string(models.PaymentStatusRefunded),
			Message: fmt.Sprintf("payment in status %s cannot be refunded", payment.Status),
		}
	}
	if !payment.Method.SupportsRefunds() {
		return nil, models.NewValidationError("payment_method",
			fmt.Sprintf("%s does not support refunds", payment.Method.DisplayName()))
	}

	// Amounts are compared and stored at two decimals so repeated
	// partial refunds cannot strand a drained payment on float residue.
	remaining := roundCurrency(payment.RemainingAmount())
	if amount > remaining {
		return nil, &models.RefundExceedsBalanceError{Requested: amount, Remaining: remaining}
	}

	payment.RefundedAmount = roundCurrency(payment.RefundedAmount + amount)
	if roundCurrency(payment.RemainingAmount()) <= 0 {
		payment.Status = models.PaymentStatusRefunded
	} else {
		payment.Status = models.PaymentStatusPartiallyRefunded
	}

	if err := s.payments.Update(payment); err != nil {
		return nil, &models.PersistenceFaultError{Op: "apply refund", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id":      payment.ID,
		"ticket_id":       payment.TicketID,
		"refunded_amount": payment.RefundedAmount,
		"status":          payment.Status,
	}).Info("Refund applied to payment")

	return payment, nil
}

// LatestForTicket returns the authoritative payment for a ticket, or
// nil when the ticket was never charged.
func (s *PaymentService) LatestForTicket(ticketID uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.GetLatestByTicket(ticketID)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "get latest payment", Err: err}
	}
	return payment, nil
}
