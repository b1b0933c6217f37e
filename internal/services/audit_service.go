package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/models"
	"github.com/smarttransit/booking-backend/internal/utils"
)

// auditStore persists audit events
type auditStore interface {
	Record(entityType string, entityID uuid.UUID, action string, actorID *uuid.UUID, details interface{}) error
}

// AuditService records booking activity for back office review. Audit
// failures are logged and swallowed so they can never fail the
// operation being audited.
type AuditService struct {
	events auditStore
	logger *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(events auditStore, logger *logrus.Logger) *AuditService {
	return &AuditService{
		events: events,
		logger: logger,
	}
}

// LogBookingAttempt records a booking attempt and its outcome.
func (s *AuditService) LogBookingAttempt(ticketID, passengerID uuid.UUID, route string, success bool, reason, ipAddress, userAgent string) {
	details := map[string]interface{}{
		"route":       route,
		"success":     success,
		"ip_address":  ipAddress,
		"client_info": utils.ParseUserAgent(userAgent),
	}
	if reason != "" {
		details["reason"] = reason
	}

	action := "booking_failed"
	if success {
		action = "booking_completed"
	}
	s.record("ticket", ticketID, action, &passengerID, details)
}

// LogCancellation records a ticket cancellation and its refund.
func (s *AuditService) LogCancellation(ticketID, passengerID uuid.UUID, refundPercentage, refundedAmount float64) {
	s.record("ticket", ticketID, "ticket_cancelled", &passengerID, map[string]interface{}{
		"refund_percentage": refundPercentage,
		"refunded_amount":   refundedAmount,
	})
}

// LogBoarding records a boarding event.
func (s *AuditService) LogBoarding(ticketID, scheduleID uuid.UUID, success bool, reason string) {
	details := map[string]interface{}{
		"schedule_id": scheduleID,
		"success":     success,
	}
	if reason != "" {
		details["reason"] = reason
	}

	action := "boarding_denied"
	if success {
		action = "passenger_boarded"
	}
	s.record("ticket", ticketID, action, nil, details)
}

// LogRefundDecision records an admin's decision on a refund request.
func (s *AuditService) LogRefundDecision(refundID, adminID uuid.UUID, role models.AdminRole, decision string, reason string) {
	details := map[string]interface{}{
		"decision": decision,
		"role":     string(role),
	}
	if reason != "" {
		details["reason"] = reason
	}
	s.record("refund", refundID, "refund_"+decision, &adminID, details)
}

func (s *AuditService) record(entityType string, entityID uuid.UUID, action string, actorID *uuid.UUID, details map[string]interface{}) {
	if err := s.events.Record(entityType, entityID, action, actorID, details); err != nil {
		s.logger.WithFields(logrus.Fields{
			"entity_type": entityType,
			"entity_id":   entityID,
			"action":      action,
			"error":       err.Error(),
		}).Error("Failed to record audit event")
	}
}
