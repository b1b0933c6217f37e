package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/models"
)

// ticketStore is the persistence surface the ticket lifecycle needs
type ticketStore interface {
	Create(ticket *models.Ticket) error
	GetByID(ticketID uuid.UUID) (*models.Ticket, error)
	ListByPassenger(passengerID uuid.UUID, limit, offset int) ([]*models.Ticket, error)
	UpdateStatus(ticketID uuid.UUID, from, to models.TicketStatus) error
	UpdatePaymentDetails(ticket *models.Ticket) error
	MarkBoarded(ticketID uuid.UUID, departure time.Time) error
}

// scheduleStore loads scheduled runs for boarding checks
type scheduleStore interface {
	GetByID(scheduleID uuid.UUID) (*models.Schedule, error)
}

// TicketService drives the ticket state machine: PENDING on creation,
// CONFIRMED after payment, BOARDED inside the boarding window, and
// CANCELLED from any non-terminal state. Tickets are never deleted.
type TicketService struct {
	tickets   ticketStore
	schedules scheduleStore
	logger    *logrus.Logger
}

// NewTicketService creates a new ticket service
func NewTicketService(tickets ticketStore, schedules scheduleStore, logger *logrus.Logger) *TicketService {
	return &TicketService{
		tickets:   tickets,
		schedules: schedules,
		logger:    logger,
	}
}

// CreateTicket persists a new PENDING ticket against a held seat.
func (s *TicketService) CreateTicket(ticket *models.Ticket) error {
	if ticket.Route == "" {
		return models.NewValidationError("route", "route is required")
	}
	if ticket.Price <= 0 {
		return models.NewValidationError("price", "price must be positive")
	}
	if !ticket.TransportType.IsValid() {
		return models.NewValidationError("transport_type", "unknown transport type: "+string(ticket.TransportType))
	}

	ticket.Status = models.TicketStatusPending
	if err := s.tickets.Create(ticket); err != nil {
		return &models.PersistenceFaultError{Op: "create ticket", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":    ticket.ID,
		"passenger_id": ticket.PassengerID,
		"route":        ticket.Route,
		"price":        ticket.Price,
	}).Info("Ticket created")

	return nil
}

// GetTicket loads one ticket.
func (s *TicketService) GetTicket(ticketID uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ticketID)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "get ticket", Err: err}
	}
	if ticket == nil {
		return nil, models.NewValidationError("ticket_id", "ticket not found")
	}
	return ticket, nil
}

// ListPassengerTickets returns a passenger's tickets, newest first.
func (s *TicketService) ListPassengerTickets(passengerID uuid.UUID, limit, offset int) ([]*models.Ticket, error) {
	tickets, err := s.tickets.ListByPassenger(passengerID, limit, offset)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "list tickets", Err: err}
	}
	return tickets, nil
}

// ConfirmTicket records a completed payment on the ticket and moves it
// PENDING -> CONFIRMED.
func (s *TicketService) ConfirmTicket(ticket *models.Ticket, payment *models.Payment, fee float64) error {
	if !ticket.Status.CanTransitionTo(models.TicketStatusConfirmed) {
		return &models.InvalidStateTransitionError{
			Entity: "ticket",
			From:   string(ticket.Status),
			To:     string(models.TicketStatusConfirmed),
		}
	}

	ticket.PaymentMethod = &payment.Method
	ticket.PaymentID = &payment.ID
	ticket.TransactionFee = fee
	ticket.Status = models.TicketStatusConfirmed

	if err := s.tickets.UpdatePaymentDetails(ticket); err != nil {
		return &models.PersistenceFaultError{Op: "confirm ticket", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":  ticket.ID,
		"payment_id": payment.ID,
		"total":      ticket.TotalAmountPaid(),
	}).Info("Ticket confirmed")

	return nil
}

// BoardPassenger moves a CONFIRMED ticket to BOARDED. Boarding is only
// allowed while the run accepts passengers and now falls inside the
// pre-departure window.
func (s *TicketService) BoardPassenger(ticketID, scheduleID uuid.UUID, now time.Time) (*models.Ticket, error) {
	ticket, err := s.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if err := ticket.ValidateForTravel(now); err != nil {
		return nil, err
	}

	schedule, err := s.schedules.GetByID(scheduleID)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "get schedule", Err: err}
	}
	if schedule == nil {
		return nil, models.NewValidationError("schedule_id", "schedule not found")
	}
	if !schedule.Status.AllowsBoarding() {
		return nil, models.NewValidationError("schedule_id",
			fmt.Sprintf("schedule is %s and not accepting passengers", schedule.Status))
	}
	if err := schedule.CheckBoardingWindow(now); err != nil {
		return nil, err
	}

	// Status and departure move together; a failed write leaves the
	// ticket fully unboarded.
	if err := s.tickets.MarkBoarded(ticketID, schedule.DepartureTime); err != nil {
		return nil, err
	}
	ticket.Status = models.TicketStatusBoarded
	departure := schedule.DepartureTime
	ticket.TravelDate = &departure

	s.logger.WithFields(logrus.Fields{
		"ticket_id":   ticketID,
		"schedule_id": scheduleID,
		"departure":   schedule.DepartureTime,
	}).Info("Passenger boarded")

	return ticket, nil
}

// CancelTicket moves a ticket to CANCELLED and reports the refund
// percentage its pre-cancellation status allowed. BOARDED and already
// CANCELLED tickets are rejected.
func (s *TicketService) CancelTicket(ticketID uuid.UUID) (*models.CancelTicketResponse, error) {
	ticket, err := s.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.CanBeCancelled() {
		return nil, &models.InvalidStateTransitionError{
			Entity:  "ticket",
			From:    string(ticket.Status),
			To:      string(models.TicketStatusCancelled),
			Message: fmt.Sprintf("ticket in status %s cannot be cancelled", ticket.Status),
		}
	}

	// The percentage is bound by the status the ticket held before
	// cancellation, so capture it first.
	percentage := ticket.Status.RefundPercentage()
	from := ticket.Status

	if err := s.tickets.UpdateStatus(ticketID, from, models.TicketStatusCancelled); err != nil {
		return nil, err
	}
	ticket.Status = models.TicketStatusCancelled

	s.logger.WithFields(logrus.Fields{
		"ticket_id":         ticketID,
		"previous_status":   from,
		"refund_percentage": percentage,
	}).Info("Ticket cancelled")

	return &models.CancelTicketResponse{
		Ticket:           ticket,
		RefundPercentage: percentage,
		MaxRefundAmount:  ticket.Price * percentage,
	}, nil
}
