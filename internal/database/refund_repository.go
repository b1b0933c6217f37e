package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/booking-backend/internal/models"
)

// RefundRepository handles refund database operations
type RefundRepository struct {
	db DB
}

// NewRefundRepository creates a new RefundRepository
func NewRefundRepository(db DB) *RefundRepository {
	return &RefundRepository{db: db}
}

const refundColumns = `
	id, ticket_id, amount, status, reason, request_date, processed_date,
	processed_by_admin_id, rejection_reason, created_at, updated_at`

// Create inserts a new refund request
func (r *RefundRepository) Create(refund *models.Refund) error {
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	now := time.Now()
	refund.CreatedAt = now
	refund.UpdatedAt = now
	if refund.RequestDate.IsZero() {
		refund.RequestDate = now
	}

	query := `
		INSERT INTO refunds (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		refund.ID, refund.TicketID, refund.Amount, refund.Status,
		refund.Reason, refund.RequestDate, refund.ProcessedDate,
		refund.ProcessedByAdminID, refund.RejectionReason,
		refund.CreatedAt, refund.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}
	return nil
}

// GetByID retrieves a refund by ID
func (r *RefundRepository) GetByID(refundID uuid.UUID) (*models.Refund, error) {
	var refund models.Refund
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE id = $1`

	err := r.db.Get(&refund, query, refundID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get refund: %w", err)
	}
	return &refund, nil
}

// ListPending retrieves refunds awaiting an admin decision, oldest
// first so the queue is worked in request order
func (r *RefundRepository) ListPending(limit, offset int) ([]*models.Refund, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var refunds []*models.Refund
	query := `
		SELECT ` + refundColumns + `
		FROM refunds
		WHERE status = $1
		ORDER BY request_date ASC
		LIMIT $2 OFFSET $3`

	if err := r.db.Select(&refunds, query, models.RefundStatusPending, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list pending refunds: %w", err)
	}
	return refunds, nil
}

// UpdateStatus transitions a refund's status, stamping processed_date
// and the deciding admin where provided
func (r *RefundRepository) UpdateStatus(refund *models.Refund) error {
	query := `
		UPDATE refunds
		SET status = $1, processed_date = $2, processed_by_admin_id = $3,
		    rejection_reason = $4, updated_at = NOW()
		WHERE id = $5`

	result, err := r.db.Exec(query,
		refund.Status, refund.ProcessedDate, refund.ProcessedByAdminID,
		refund.RejectionReason, refund.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update refund: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("refund %s not found", refund.ID)
	}
	return nil
}
