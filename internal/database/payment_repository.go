package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/booking-backend/internal/models"
)

// PaymentRepository handles payment database operations
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `
	id, ticket_id, method, amount, refunded_amount, status, failure_reason,
	transaction_date, currency, created_at, updated_at`

// Create inserts a new payment record
func (r *PaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		payment.ID, payment.TicketID, payment.Method, payment.Amount,
		payment.RefundedAmount, payment.Status, payment.FailureReason,
		payment.TransactionDate, payment.Currency,
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(paymentID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	err := r.db.Get(&payment, query, paymentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

// GetLatestByTicket retrieves the most recent payment for a ticket.
// The latest payment is authoritative after re-payment.
func (r *PaymentRepository) GetLatestByTicket(ticketID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE ticket_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.Get(&payment, query, ticketID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest payment: %w", err)
	}
	return &payment, nil
}

// Update persists the payment's mutable fields
func (r *PaymentRepository) Update(payment *models.Payment) error {
	query := `
		UPDATE payments
		SET status = $1, refunded_amount = $2, failure_reason = $3,
		    transaction_date = $4, updated_at = NOW()
		WHERE id = $5`

	result, err := r.db.Exec(query,
		payment.Status, payment.RefundedAmount, payment.FailureReason,
		payment.TransactionDate, payment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("payment %s not found", payment.ID)
	}
	return nil
}
