package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/middleware"
	"github.com/smarttransit/booking-backend/internal/models"
	"github.com/smarttransit/booking-backend/internal/services"
)

// RefundHandler handles refund request and back office decision endpoints
type RefundHandler struct {
	refundService *services.RefundService
	auditService  *services.AuditService
	logger        *logrus.Logger
}

// NewRefundHandler creates a new RefundHandler
func NewRefundHandler(refundService *services.RefundService, auditService *services.AuditService, logger *logrus.Logger) *RefundHandler {
	return &RefundHandler{
		refundService: refundService,
		auditService:  auditService,
		logger:        logger,
	}
}

// ============================================================================
// CREATE - POST /api/v1/refunds
// ============================================================================

// CreateRefund files a refund request against a ticket
func (h *RefundHandler) CreateRefund(c *gin.Context) {
	var req models.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket_id"})
		return
	}

	refund, err := h.refundService.CreateRefund(ticketID, req.Amount, req.Reason, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, refund)
}

// ============================================================================
// GET - GET /api/v1/refunds/:refund_id
// ============================================================================

// GetRefund returns one refund request
func (h *RefundHandler) GetRefund(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("refund_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refund_id"})
		return
	}

	refund, err := h.refundService.GetRefund(refundID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refund":      refund,
		"description": refund.Status.Description(),
	})
}

// ============================================================================
// CANCEL - POST /api/v1/refunds/:refund_id/cancel
// ============================================================================

// CancelRefund lets the requester withdraw an undecided refund
func (h *RefundHandler) CancelRefund(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("refund_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refund_id"})
		return
	}

	refund, err := h.refundService.Cancel(refundID, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, refund)
}

// ============================================================================
// ADMIN QUEUE - GET /api/v1/admin/refunds/pending
// ============================================================================

// ListPendingRefunds returns the queue awaiting an admin decision
func (h *RefundHandler) ListPendingRefunds(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	refunds, err := h.refundService.ListPending(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refunds": refunds,
		"count":   len(refunds),
	})
}

// ============================================================================
// APPROVE - POST /api/v1/admin/refunds/:refund_id/approve
// ============================================================================

// ApproveRefund approves a pending refund request and pays it out
func (h *RefundHandler) ApproveRefund(c *gin.Context) {
	userCtx, refundID, ok := h.adminAndRefundID(c)
	if !ok {
		return
	}

	refund, err := h.refundService.Approve(refundID, userCtx.UserID, userCtx.Role, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.LogRefundDecision(refundID, userCtx.UserID, userCtx.Role, "approved", "")

	c.JSON(http.StatusOK, refund)
}

// ============================================================================
// REJECT - POST /api/v1/admin/refunds/:refund_id/reject
// ============================================================================

// RejectRefund rejects a pending refund request with a reason
func (h *RefundHandler) RejectRefund(c *gin.Context) {
	userCtx, refundID, ok := h.adminAndRefundID(c)
	if !ok {
		return
	}

	var req models.RejectRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	refund, err := h.refundService.Reject(refundID, userCtx.UserID, userCtx.Role, req.Reason, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	h.auditService.LogRefundDecision(refundID, userCtx.UserID, userCtx.Role, "rejected", req.Reason)

	c.JSON(http.StatusOK, refund)
}

// ============================================================================
// PROCESS - POST /api/v1/admin/refunds/:refund_id/process
// ============================================================================

// ProcessRefund pays out a pending or approved refund
func (h *RefundHandler) ProcessRefund(c *gin.Context) {
	userCtx, refundID, ok := h.adminAndRefundID(c)
	if !ok {
		return
	}

	refund, err := h.refundService.Process(refundID, userCtx.UserID, userCtx.Role, time.Now())
	if err != nil {
		h.logger.WithError(err).WithField("refund_id", refundID).Error("Refund processing failed")
		respondError(c, err)
		return
	}

	h.auditService.LogRefundDecision(refundID, userCtx.UserID, userCtx.Role, "completed", "")

	c.JSON(http.StatusOK, refund)
}

// adminAndRefundID pulls the authenticated admin and the refund ID out
// of the request, writing the error response itself on failure.
func (h *RefundHandler) adminAndRefundID(c *gin.Context) (middleware.UserContext, uuid.UUID, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return middleware.UserContext{}, uuid.Nil, false
	}

	refundID, err := uuid.Parse(c.Param("refund_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refund_id"})
		return middleware.UserContext{}, uuid.Nil, false
	}
	return userCtx, refundID, true
}
