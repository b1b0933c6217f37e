package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/models"
)

// refundStore is the persistence surface the refund workflow needs
type refundStore interface {
	Create(refund *models.Refund) error
	GetByID(refundID uuid.UUID) (*models.Refund, error)
	ListPending(limit, offset int) ([]*models.Refund, error)
	UpdateStatus(refund *models.Refund) error
}

// refundLedger is the slice of the payment ledger refunds draw on
type refundLedger interface {
	ApplyRefund(paymentID uuid.UUID, amount float64) (*models.Payment, error)
	LatestForTicket(ticketID uuid.UUID) (*models.Payment, error)
}

// seatReleaser returns a cancelled ticket's seat to its pool
type seatReleaser interface {
	Release(poolID uuid.UUID) (*models.SeatPool, error)
}

// refundNotifier publishes completed refunds for downstream consumers.
// Publishing is best effort; failures never fail the payout.
type refundNotifier interface {
	RefundCompleted(refund *models.Refund) error
}

// RefundService runs the admin-moderated refund workflow: passengers
// file requests, finance roles approve or reject, and completion pushes
// money back through the ledger and forces the ticket to CANCELLED.
type RefundService struct {
	refunds   refundStore
	tickets   ticketStore
	ledger    refundLedger
	inventory seatReleaser
	notifier  refundNotifier
	logger    *logrus.Logger
}

// NewRefundService creates a new refund service
func NewRefundService(refunds refundStore, tickets ticketStore, ledger refundLedger, inventory seatReleaser, notifier refundNotifier, logger *logrus.Logger) *RefundService {
	return &RefundService{
		refunds:   refunds,
		tickets:   tickets,
		ledger:    ledger,
		inventory: inventory,
		notifier:  notifier,
		logger:    logger,
	}
}

// Estimate reports what a refund filed right now would credit, without
// creating anything.
func (s *RefundService) Estimate(ticketID uuid.UUID, now time.Time) (*models.RefundEstimateResponse, error) {
	ticket, err := s.getTicket(ticketID)
	if err != nil {
		return nil, err
	}

	percentage := ticket.Status.RefundPercentage()
	return &models.RefundEstimateResponse{
		TicketID:         ticketID,
		Eligible:         ticket.CanBeRefunded(now) && ticket.Status.AllowsRefund(),
		EstimatedAmount:  ticket.CalculateRefundAmount(now),
		MaxRefundAmount:  ticket.Price * percentage,
		RefundPercentage: percentage,
		Currency:         "BDT",
	}, nil
}

// CreateRefund files a PENDING refund request against a ticket. The
// ticket must be refundable, the payment must support refunds, and the
// amount must fit inside the payment's remaining balance.
func (s *RefundService) CreateRefund(ticketID uuid.UUID, amount float64, reason string, now time.Time) (*models.Refund, error) {
	if amount <= 0 {
		return nil, models.NewValidationError("amount", "refund amount must be positive")
	}
	if reason == "" {
		return nil, models.NewValidationError("reason", "refund reason is required")
	}

	ticket, err := s.getTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if !ticket.Status.AllowsRefund() {
		return nil, &models.InvalidStateTransitionError{
			Entity:  "ticket",
			From:    string(ticket.Status),
			To:      string(models.TicketStatusCancelled),
			Message: fmt.Sprintf("ticket in status %s is not refundable", ticket.Status),
		}
	}
	if !ticket.CanBeRefunded(now) {
		return nil, models.NewValidationError("ticket_id",
			"ticket is not eligible for a refund (non-refundable or travel within 24 hours)")
	}
	if bound := ticket.Price * ticket.Status.RefundPercentage(); amount > bound {
		return nil, models.NewValidationError("amount",
			fmt.Sprintf("refund amount %.2f exceeds the %.2f bound for a %s ticket", amount, bound, ticket.Status))
	}

	payment, err := s.ledger.LatestForTicket(ticketID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, models.NewValidationError("ticket_id", "ticket has no payment to refund")
	}
	if !payment.CanBeRefunded() {
		return nil, models.NewValidationError("ticket_id",
			fmt.Sprintf("payment via %s in status %s cannot be refunded", payment.Method.DisplayName(), payment.Status))
	}
	if remaining := payment.RemainingAmount(); amount > remaining {
		return nil, &models.RefundExceedsBalanceError{Requested: amount, Remaining: remaining}
	}

	refund := &models.Refund{
		TicketID:    ticketID,
		Amount:      amount,
		Status:      models.RefundStatusPending,
		Reason:      reason,
		RequestDate: now,
	}
	if err := s.refunds.Create(refund); err != nil {
		return nil, &models.PersistenceFaultError{Op: "create refund", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"refund_id": refund.ID,
		"ticket_id": ticketID,
		"amount":    amount,
	}).Info("Refund request created")

	return refund, nil
}

// GetRefund loads one refund request.
func (s *RefundService) GetRefund(refundID uuid.UUID) (*models.Refund, error) {
	refund, err := s.refunds.GetByID(refundID)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "get refund", Err: err}
	}
	if refund == nil {
		return nil, models.NewValidationError("refund_id", "refund not found")
	}
	return refund, nil
}

// ListPending returns the refund queue awaiting an admin decision.
func (s *RefundService) ListPending(limit, offset int) ([]*models.Refund, error) {
	refunds, err := s.refunds.ListPending(limit, offset)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "list pending refunds", Err: err}
	}
	return refunds, nil
}

// Approve moves a PENDING refund to APPROVED and immediately runs the
// payout. Only roles with refund approval capability may decide.
func (s *RefundService) Approve(refundID, adminID uuid.UUID, role models.AdminRole, now time.Time) (*models.Refund, error) {
	if !role.CanApproveRefunds() {
		return nil, &models.CapabilityDeniedError{Role: string(role), Capability: "approve_refunds"}
	}

	refund, err := s.GetRefund(refundID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(refund, models.RefundStatusApproved); err != nil {
		return nil, err
	}
	refund.ProcessedDate = &now
	refund.ProcessedByAdminID = &adminID

	if err := s.refunds.UpdateStatus(refund); err != nil {
		return nil, &models.PersistenceFaultError{Op: "approve refund", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"refund_id": refundID,
		"admin_id":  adminID,
		"role":      role,
	}).Info("Refund approved")

	return s.Process(refundID, adminID, role, now)
}

// Reject moves a PENDING refund to REJECTED with the admin's reason.
func (s *RefundService) Reject(refundID, adminID uuid.UUID, role models.AdminRole, reason string, now time.Time) (*models.Refund, error) {
	if !role.CanApproveRefunds() {
		return nil, &models.CapabilityDeniedError{Role: string(role), Capability: "approve_refunds"}
	}
	if reason == "" {
		return nil, models.NewValidationError("reason", "rejection reason is required")
	}

	refund, err := s.GetRefund(refundID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(refund, models.RefundStatusRejected); err != nil {
		return nil, err
	}
	refund.ProcessedDate = &now
	refund.ProcessedByAdminID = &adminID
	refund.RejectionReason = &reason

	if err := s.refunds.UpdateStatus(refund); err != nil {
		return nil, &models.PersistenceFaultError{Op: "reject refund", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"refund_id": refundID,
		"admin_id":  adminID,
		"reason":    reason,
	}).Info("Refund rejected")

	return refund, nil
}

// Cancel lets the requester withdraw a refund that has not been
// decided yet.
func (s *RefundService) Cancel(refundID uuid.UUID, now time.Time) (*models.Refund, error) {
	refund, err := s.GetRefund(refundID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(refund, models.RefundStatusCanceled); err != nil {
		return nil, err
	}
	refund.ProcessedDate = &now

	if err := s.refunds.UpdateStatus(refund); err != nil {
		return nil, &models.PersistenceFaultError{Op: "cancel refund", Err: err}
	}

	s.logger.WithField("refund_id", refundID).Info("Refund canceled by requester")
	return refund, nil
}

// Process pays out a PENDING or APPROVED refund: the amount is
// credited back through the ledger, the refund completes, the ticket
// is forced to CANCELLED and its seat returns to the pool. If
// re-validation against the ticket fails the refund is REJECTED; a
// ledger failure marks it FAILED instead.
func (s *RefundService) Process(refundID, adminID uuid.UUID, role models.AdminRole, now time.Time) (*models.Refund, error) {
	if !role.CanApproveRefunds() {
		return nil, &models.CapabilityDeniedError{Role: string(role), Capability: "approve_refunds"}
	}

	refund, err := s.GetRefund(refundID)
	if err != nil {
		return nil, err
	}
	if !refund.Status.AllowsProcessing() {
		return nil, &models.InvalidStateTransitionError{
			Entity: "refund",
			From:   string(refund.Status),
			To:     string(models.RefundStatusCompleted),
		}
	}

	ticket, err := s.getTicket(refund.TicketID)
	if err != nil {
		return nil, err
	}
	// Re-validate against the ticket before moving money; its status may
	// have changed since the request was filed.
	if bound := ticket.Price * ticket.Status.RefundPercentage(); !ticket.Status.AllowsRefund() || refund.Amount > bound {
		reason := fmt.Sprintf("ticket in status %s no longer supports a %.2f refund", ticket.Status, refund.Amount)
		refund.Status = models.RefundStatusRejected
		refund.ProcessedDate = &now
		refund.ProcessedByAdminID = &adminID
		refund.RejectionReason = &reason
		if err := s.refunds.UpdateStatus(refund); err != nil {
			return nil, &models.PersistenceFaultError{Op: "reject refund", Err: err}
		}

		s.logger.WithFields(logrus.Fields{
			"refund_id":     refundID,
			"ticket_id":     refund.TicketID,
			"ticket_status": ticket.Status,
			"amount":        refund.Amount,
		}).Warn("Refund rejected at processing")

		return refund, nil
	}

	payment, err := s.ledger.LatestForTicket(refund.TicketID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, models.NewValidationError("ticket_id", "ticket has no payment to refund")
	}

	if _, err := s.ledger.ApplyRefund(payment.ID, refund.Amount); err != nil {
		refund.Status = models.RefundStatusFailed
		refund.ProcessedDate = &now
		refund.ProcessedByAdminID = &adminID
		if updateErr := s.refunds.UpdateStatus(refund); updateErr != nil {
			return nil, &models.PersistenceFaultError{Op: "mark refund failed", Err: updateErr}
		}

		s.logger.WithFields(logrus.Fields{
			"refund_id": refundID,
			"ticket_id": refund.TicketID,
			"error":     err.Error(),
		}).Error("Refund payout failed")

		return refund, err
	}

	refund.Status = models.RefundStatusCompleted
	refund.ProcessedDate = &now
	refund.ProcessedByAdminID = &adminID
	if err := s.refunds.UpdateStatus(refund); err != nil {
		return nil, &models.PersistenceFaultError{Op: "complete refund", Err: err}
	}

	// A completed refund always ends the ticket.
	if !ticket.IsCancelled() {
		if err := s.tickets.UpdateStatus(ticket.ID, ticket.Status, models.TicketStatusCancelled); err != nil {
			return nil, err
		}
		if _, err := s.inventory.Release(ticket.SeatPoolID); err != nil {
			s.logger.WithFields(logrus.Fields{
				"ticket_id": ticket.ID,
				"pool_id":   ticket.SeatPoolID,
				"error":     err.Error(),
			}).Error("Failed to release seat after refund")
		}
	}

	if notifyErr := s.notifier.RefundCompleted(refund); notifyErr != nil {
		s.logger.WithFields(logrus.Fields{
			"refund_id": refundID,
			"error":     notifyErr.Error(),
		}).Warn("Failed to publish refund completion")
	}

	s.logger.WithFields(logrus.Fields{
		"refund_id": refundID,
		"ticket_id": refund.TicketID,
		"amount":    refund.Amount,
		"admin_id":  adminID,
	}).Info("Refund completed")

	return refund, nil
}

func (s *RefundService) getTicket(ticketID uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.tickets.GetByID(ticketID)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "get ticket", Err: err}
	}
	if ticket == nil {
		return nil, models.NewValidationError("ticket_id", "ticket not found")
	}
	return ticket, nil
}

func (s *RefundService) transition(refund *models.Refund, to models.RefundStatus) error {
	if !refund.Status.CanTransitionTo(to) {
		return &models.InvalidStateTransitionError{
			Entity: "refund",
			From:   string(refund.Status),
			To:     string(to),
		}
	}
	refund.Status = to
	return nil
}
