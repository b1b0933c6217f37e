package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/config"
	"github.com/smarttransit/booking-backend/internal/models"
)

// bookingNotifier publishes booking events for downstream consumers.
// Publishing is best effort; failures never fail the booking.
type bookingNotifier interface {
	TicketConfirmed(ticket *models.Ticket, payment *models.Payment) error
	TicketCancelled(ticket *models.Ticket, refundAmount float64) error
}

// BookingService orchestrates the seat -> ticket -> payment flow as
// one logical operation. Payment failure rolls the seat back and
// leaves a PENDING ticket with the declined payment on record.
type BookingService struct {
	fares     *FareService
	inventory *SeatInventoryService
	tickets   *TicketService
	payments  *PaymentService
	notifier  bookingNotifier
	cfg       config.BookingConfig
	logger    *logrus.Logger
}

// NewBookingService creates a new booking orchestrator
func NewBookingService(
	fares *FareService,
	inventory *SeatInventoryService,
	tickets *TicketService,
	payments *PaymentService,
	notifier bookingNotifier,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		fares:     fares,
		inventory: inventory,
		tickets:   tickets,
		payments:  payments,
		notifier:  notifier,
		cfg:       cfg,
		logger:    logger,
	}
}

// BookAndPay reserves a seat, creates the ticket, quotes the fare and
// charges the passenger in one pass. The held seat is released if the
// charge is declined or the caller's deadline expires mid-flow.
func (s *BookingService) BookAndPay(ctx context.Context, passengerID uuid.UUID, req *models.BookTicketRequest) (*models.BookTicketResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.BookingTimeout)
	defer cancel()

	poolID, err := uuid.Parse(req.SeatPoolID)
	if err != nil {
		return nil, models.NewValidationError("seat_pool_id", "invalid seat pool ID")
	}
	transportType := models.TransportType(req.TransportType)
	if !transportType.IsValid() {
		return nil, models.NewValidationError("transport_type", "unknown transport type: "+req.TransportType)
	}
	method, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	class := models.TrainClassEconomy
	if req.TrainClass != nil {
		class = models.ParseTrainClass(*req.TrainClass)
	}
	var travelDate *time.Time
	if req.TravelDate != nil {
		parsed, parseErr := time.Parse(time.RFC3339, *req.TravelDate)
		if parseErr != nil {
			return nil, models.NewValidationError("travel_date", "travel date must be RFC 3339")
		}
		travelDate = &parsed
	}

	// Quote before touching any state so validation failures cost
	// nothing.
	fare, fee, total, err := s.fares.QuoteCharge(req.DistanceKm, req.StopCount, transportType, class, method)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Hold the seat first. Everything after this point must release it
	// on failure.
	if _, err := s.inventory.Reserve(poolID); err != nil {
		return nil, err
	}

	ticket := &models.Ticket{
		PassengerID:   passengerID,
		SeatPoolID:    poolID,
		Route:         req.Route,
		Price:         fare,
		TransportType: transportType,
		TravelDate:    travelDate,
		IsRefundable:  method.SupportsRefunds(),
	}
	if transportType == models.TransportTypeTrain {
		ticket.TrainClass = &class
	}
	if err := s.tickets.CreateTicket(ticket); err != nil {
		s.releaseHeldSeat(poolID, "ticket creation failed")
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		s.releaseHeldSeat(poolID, "booking deadline expired")
		return nil, err
	}

	payment, err := s.payments.Charge(ticket.ID, method, total)
	if err != nil {
		s.releaseHeldSeat(poolID, "payment declined")
		s.logger.WithFields(logrus.Fields{
			"ticket_id":    ticket.ID,
			"passenger_id": passengerID,
			"error":        err.Error(),
		}).Warn("Booking failed at payment, ticket left pending")
		return nil, err
	}

	if err := s.tickets.ConfirmTicket(ticket, payment, fee); err != nil {
		return nil, err
	}

	if notifyErr := s.notifier.TicketConfirmed(ticket, payment); notifyErr != nil {
		s.logger.WithFields(logrus.Fields{
			"ticket_id": ticket.ID,
			"error":     notifyErr.Error(),
		}).Warn("Failed to publish booking confirmation")
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":    ticket.ID,
		"passenger_id": passengerID,
		"route":        req.Route,
		"total":        total,
	}).Info("Booking completed")

	return &models.BookTicketResponse{
		Ticket:      ticket,
		Payment:     payment,
		TotalCharge: total,
		Currency:    payment.Currency,
	}, nil
}

// CancelAndRefund cancels a ticket, returns its seat to the pool and
// credits the status-bound refund straight back to the payment. Unpaid
// tickets just cancel.
func (s *BookingService) CancelAndRefund(ctx context.Context, ticketID uuid.UUID) (*models.CancelTicketResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := s.tickets.CancelTicket(ticketID)
	if err != nil {
		return nil, err
	}

	if _, err := s.inventory.Release(resp.Ticket.SeatPoolID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"ticket_id": ticketID,
			"pool_id":   resp.Ticket.SeatPoolID,
			"error":     err.Error(),
		}).Error("Failed to release seat after cancellation")
	}

	refunded := 0.0
	payment, err := s.payments.LatestForTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if payment != nil && payment.CanBeRefunded() && resp.MaxRefundAmount > 0 {
		amount := resp.MaxRefundAmount
		if remaining := payment.RemainingAmount(); amount > remaining {
			amount = remaining
		}
		if _, err := s.payments.ApplyRefund(payment.ID, amount); err != nil {
			s.logger.WithFields(logrus.Fields{
				"ticket_id":  ticketID,
				"payment_id": payment.ID,
				"error":      err.Error(),
			}).Error("Failed to credit refund after cancellation")
		} else {
			refunded = amount
		}
	}

	if notifyErr := s.notifier.TicketCancelled(resp.Ticket, refunded); notifyErr != nil {
		s.logger.WithFields(logrus.Fields{
			"ticket_id": ticketID,
			"error":     notifyErr.Error(),
		}).Warn("Failed to publish cancellation notice")
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id": ticketID,
		"refunded":  refunded,
	}).Info("Ticket cancelled and refunded")

	return resp, nil
}

// releaseHeldSeat returns a seat held earlier in the booking flow. The
// booking failure already travels back to the caller, so a release
// failure here is only logged.
func (s *BookingService) releaseHeldSeat(poolID uuid.UUID, cause string) {
	if _, err := s.inventory.Release(poolID); err != nil {
		s.logger.WithFields(logrus.Fields{
			"pool_id": poolID,
			"cause":   cause,
			"error":   err.Error(),
		}).Error("Failed to release held seat")
	}
}
