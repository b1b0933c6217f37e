package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/booking-backend/internal/models"
)

// TicketRepository handles ticket database operations
type TicketRepository struct {
	db DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `
	id, passenger_id, seat_pool_id, route, price, status, transport_type,
	train_class, booking_date, travel_date, payment_method, payment_id,
	transaction_fee, seat_number, is_refundable, created_at, updated_at`

// Create inserts a new ticket
func (r *TicketRepository) Create(ticket *models.Ticket) error {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	if ticket.BookingDate.IsZero() {
		ticket.BookingDate = now
	}

	query := `
		INSERT INTO tickets (` + ticketColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.Exec(query,
		ticket.ID, ticket.PassengerID, ticket.SeatPoolID, ticket.Route,
		ticket.Price, ticket.Status, ticket.TransportType, ticket.TrainClass,
		ticket.BookingDate, ticket.TravelDate, ticket.PaymentMethod,
		ticket.PaymentID, ticket.TransactionFee, ticket.SeatNumber,
		ticket.IsRefundable, ticket.CreatedAt, ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(ticketID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	err := r.db.Get(&ticket, query, ticketID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

// ListByPassenger retrieves a passenger's tickets, newest first
func (r *TicketRepository) ListByPassenger(passengerID uuid.UUID, limit, offset int) ([]*models.Ticket, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var tickets []*models.Ticket
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE passenger_id = $1
		ORDER BY booking_date DESC
		LIMIT $2 OFFSET $3`

	if err := r.db.Select(&tickets, query, passengerID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// UpdateStatus transitions a ticket's status. The WHERE clause pins the
// expected current status so a stale caller cannot skip a state.
func (r *TicketRepository) UpdateStatus(ticketID uuid.UUID, from, to models.TicketStatus) error {
	query := `
		UPDATE tickets
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`

	result, err := r.db.Exec(query, to, ticketID, from)
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return &models.InvalidStateTransitionError{
			Entity: "ticket",
			From:   string(from),
			To:     string(to),
			Message: fmt.Sprintf("ticket %s was not in status %s", ticketID, from),
		}
	}
	return nil
}

// UpdatePaymentDetails records the payment outcome on the ticket
func (r *TicketRepository) UpdatePaymentDetails(ticket *models.Ticket) error {
	query := `
		UPDATE tickets
		SET payment_method = $1, payment_id = $2, transaction_fee = $3, status = $4, updated_at = NOW()
		WHERE id = $5`

	_, err := r.db.Exec(query,
		ticket.PaymentMethod, ticket.PaymentID, ticket.TransactionFee,
		ticket.Status, ticket.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ticket payment details: %w", err)
	}
	return nil
}

// MarkBoarded moves a CONFIRMED ticket to BOARDED and stamps the
// departure in the same statement, so a failure leaves both untouched.
func (r *TicketRepository) MarkBoarded(ticketID uuid.UUID, departure time.Time) error {
	query := `
		UPDATE tickets
		SET status = $1, travel_date = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`

	result, err := r.db.Exec(query, models.TicketStatusBoarded, departure, ticketID, models.TicketStatusConfirmed)
	if err != nil {
		return fmt.Errorf("failed to mark ticket boarded: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return &models.InvalidStateTransitionError{
			Entity:  "ticket",
			From:    string(models.TicketStatusConfirmed),
			To:      string(models.TicketStatusBoarded),
			Message: fmt.Sprintf("ticket %s was not in status %s", ticketID, models.TicketStatusConfirmed),
		}
	}
	return nil
}
