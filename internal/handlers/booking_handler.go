package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/middleware"
	"github.com/smarttransit/booking-backend/internal/models"
	"github.com/smarttransit/booking-backend/internal/services"
)

// BookingHandler handles booking and ticket lifecycle endpoints
type BookingHandler struct {
	bookingService *services.BookingService
	ticketService  *services.TicketService
	refundService  *services.RefundService
	auditService   *services.AuditService
	logger         *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingService *services.BookingService,
	ticketService *services.TicketService,
	refundService *services.RefundService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		ticketService:  ticketService,
		refundService:  refundService,
		auditService:   auditService,
		logger:         logger,
	}
}

// ============================================================================
// BOOK AND PAY - POST /api/v1/bookings
// ============================================================================

// BookTicket books a seat and charges the passenger in one operation
func (h *BookingHandler) BookTicket(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req models.BookTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	resp, err := h.bookingService.BookAndPay(c.Request.Context(), userCtx.UserID, &req)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userCtx.UserID).Warn("Booking failed")
		h.auditService.LogBookingAttempt(uuid.Nil, userCtx.UserID, req.Route, false,
			err.Error(), c.ClientIP(), c.Request.UserAgent())
		respondError(c, err)
		return
	}

	h.auditService.LogBookingAttempt(resp.Ticket.ID, userCtx.UserID, req.Route, true,
		"", c.ClientIP(), c.Request.UserAgent())

	c.JSON(http.StatusCreated, resp)
}

// ============================================================================
// GET TICKET - GET /api/v1/tickets/:ticket_id
// ============================================================================

// GetTicket returns one ticket
func (h *BookingHandler) GetTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticket_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket_id"})
		return
	}

	ticket, err := h.ticketService.GetTicket(ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket":      ticket,
		"description": ticket.Status.Description(),
	})
}

// ============================================================================
// LIST TICKETS - GET /api/v1/tickets
// ============================================================================

// ListTickets returns the caller's tickets, newest first
func (h *BookingHandler) ListTickets(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	tickets, err := h.ticketService.ListPassengerTickets(userCtx.UserID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

// ============================================================================
// CANCEL - POST /api/v1/tickets/:ticket_id/cancel
// ============================================================================

// CancelTicket cancels a ticket, releases its seat and credits the
// status-bound refund
func (h *BookingHandler) CancelTicket(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ticketID, err := uuid.Parse(c.Param("ticket_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket_id"})
		return
	}

	resp, err := h.bookingService.CancelAndRefund(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.LogCancellation(ticketID, userCtx.UserID, resp.RefundPercentage, resp.MaxRefundAmount)

	c.JSON(http.StatusOK, resp)
}

// ============================================================================
// BOARD - POST /api/v1/tickets/:ticket_id/board
// ============================================================================

// BoardRequest names the scheduled run being boarded
type BoardRequest struct {
	ScheduleID string `json:"schedule_id" binding:"required"`
}

// BoardPassenger marks a confirmed ticket as boarded inside the
// boarding window
func (h *BookingHandler) BoardPassenger(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticket_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket_id"})
		return
	}

	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	scheduleID, err := uuid.Parse(req.ScheduleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_id"})
		return
	}

	ticket, err := h.ticketService.BoardPassenger(ticketID, scheduleID, time.Now())
	if err != nil {
		h.auditService.LogBoarding(ticketID, scheduleID, false, err.Error())
		respondError(c, err)
		return
	}

	h.auditService.LogBoarding(ticketID, scheduleID, true, "")

	c.JSON(http.StatusOK, gin.H{
		"ticket":  ticket,
		"message": ticket.Status.Description(),
	})
}

// ============================================================================
// REFUND ESTIMATE - GET /api/v1/tickets/:ticket_id/refund-estimate
// ============================================================================

// RefundEstimate reports what a refund filed now would credit
func (h *BookingHandler) RefundEstimate(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("ticket_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket_id"})
		return
	}

	estimate, err := h.refundService.Estimate(ticketID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// intQuery reads an integer query parameter with a fallback
func intQuery(c *gin.Context, name string, fallback int) int {
	value := c.Query(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
