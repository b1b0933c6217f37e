package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smarttransit/booking-backend/internal/models"
)

// respondError maps domain errors onto HTTP responses. Validation
// failures are 400, state conflicts 409, capability denials 403, and
// anything unrecognized is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_failed",
			"field":   validationErr.Field,
			"message": validationErr.Message,
		})
		return
	}

	var unavailable *models.SeatsUnavailableError
	if errors.As(err, &unavailable) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "seats_unavailable",
			"pool_id": unavailable.PoolID,
			"message": unavailable.Message,
		})
		return
	}

	var atCapacity *models.SeatsAtCapacityError
	if errors.As(err, &atCapacity) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "seats_at_capacity",
			"pool_id": atCapacity.PoolID,
			"message": atCapacity.Message,
		})
		return
	}

	var transitionErr *models.InvalidStateTransitionError
	if errors.As(err, &transitionErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "invalid_state_transition",
			"entity":  transitionErr.Entity,
			"from":    transitionErr.From,
			"to":      transitionErr.To,
			"message": transitionErr.Error(),
		})
		return
	}

	var paymentErr *models.PaymentFailedError
	if errors.As(err, &paymentErr) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":      "payment_failed",
			"payment_id": paymentErr.PaymentID,
			"message":    paymentErr.Reason,
		})
		return
	}

	var exceedsErr *models.RefundExceedsBalanceError
	if errors.As(err, &exceedsErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     "refund_exceeds_balance",
			"requested": exceedsErr.Requested,
			"remaining": exceedsErr.Remaining,
		})
		return
	}

	var deniedErr *models.CapabilityDeniedError
	if errors.As(err, &deniedErr) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":      "forbidden",
			"role":       deniedErr.Role,
			"capability": deniedErr.Capability,
		})
		return
	}

	var windowErr *models.BoardingWindowError
	if errors.As(err, &windowErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "boarding_window",
			"too_early": windowErr.TooEarly,
			"message":   windowErr.Message,
		})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error":   "booking_timeout",
			"message": "the booking did not complete in time",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "something went wrong",
	})
}
