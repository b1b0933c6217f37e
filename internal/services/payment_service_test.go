package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/booking-backend/internal/models"
)

func TestCharge(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store, "BDT", testLogger())

	t.Run("Success", func(t *testing.T) {
		ticketID := uuid.New()
		payment, err := svc.Charge(ticketID, models.PaymentMethodCreditCard, 2940.0)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
		assert.Equal(t, "BDT", payment.Currency)
		assert.Equal(t, ticketID, payment.TicketID)
		assert.Nil(t, payment.FailureReason)
	})

	t.Run("Below Method Minimum Declined", func(t *testing.T) {
		payment, err := svc.Charge(uuid.New(), models.PaymentMethodCreditCard, 10.0)
		assert.Error(t, err)

		var failed *models.PaymentFailedError
		assert.ErrorAs(t, err, &failed)

		// The declined attempt is still on the ledger.
		require.NotNil(t, payment)
		assert.Equal(t, models.PaymentStatusFailed, payment.Status)
		require.NotNil(t, payment.FailureReason)
		assert.Contains(t, *payment.FailureReason, "minimum")
	})

	t.Run("Above Method Limit Declined", func(t *testing.T) {
		payment, err := svc.Charge(uuid.New(), models.PaymentMethodMobileWallet, 100000.0)
		assert.Error(t, err)
		require.NotNil(t, payment)
		assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	})

	t.Run("Non-Positive Amount Fails The Payment", func(t *testing.T) {
		payment, err := svc.Charge(uuid.New(), models.PaymentMethodCreditCard, 0)
		assert.Error(t, err)

		var failed *models.PaymentFailedError
		assert.ErrorAs(t, err, &failed)
		require.NotNil(t, payment)
		assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	})

	t.Run("Unknown Method Fails The Payment", func(t *testing.T) {
		payment, err := svc.Charge(uuid.New(), models.PaymentMethod("barter"), 100)
		assert.Error(t, err)
		require.NotNil(t, payment)
		assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	})
}

func TestApplyRefund(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store, "BDT", testLogger())

	charge := func(t *testing.T, method models.PaymentMethod, amount float64) *models.Payment {
		t.Helper()
		payment, err := svc.Charge(uuid.New(), method, amount)
		require.NoError(t, err)
		return payment
	}

	t.Run("Partial Then Full", func(t *testing.T) {
		payment := charge(t, models.PaymentMethodCreditCard, 1000.0)

		updated, err := svc.ApplyRefund(payment.ID, 400.0)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPartiallyRefunded, updated.Status)
		assert.Equal(t, 600.0, updated.RemainingAmount())

		updated, err = svc.ApplyRefund(payment.ID, 600.0)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, updated.Status)
		assert.Equal(t, 0.0, updated.RemainingAmount())
	})

	t.Run("Fractional Refunds Drain Cleanly", func(t *testing.T) {
		payment := charge(t, models.PaymentMethodCreditCard, 100.0)

		_, err := svc.ApplyRefund(payment.ID, 99.9)
		require.NoError(t, err)

		// The remaining ten paisa must not be lost to float residue.
		updated, err := svc.ApplyRefund(payment.ID, 0.1)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, updated.Status)
		assert.Equal(t, 100.0, updated.RefundedAmount)
	})

	t.Run("Exceeds Remaining Balance", func(t *testing.T) {
		payment := charge(t, models.PaymentMethodDebitCard, 1000.0)

		_, err := svc.ApplyRefund(payment.ID, 1200.0)
		assert.Error(t, err)

		var exceeds *models.RefundExceedsBalanceError
		require.ErrorAs(t, err, &exceeds)
		assert.Equal(t, 1200.0, exceeds.Requested)
		assert.Equal(t, 1000.0, exceeds.Remaining)

		// Ledger untouched.
		current, getErr := store.GetByID(payment.ID)
		require.NoError(t, getErr)
		assert.Equal(t, 0.0, current.RefundedAmount)
		assert.Equal(t, models.PaymentStatusCompleted, current.Status)
	})

	t.Run("Fully Refunded Payment Rejects Further Refunds", func(t *testing.T) {
		payment := charge(t, models.PaymentMethodPaypal, 500.0)

		_, err := svc.ApplyRefund(payment.ID, 500.0)
		require.NoError(t, err)

		_, err = svc.ApplyRefund(payment.ID, 1.0)
		assert.Error(t, err)

		var transitionErr *models.InvalidStateTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})

	t.Run("Non-Refundable Method Rejected", func(t *testing.T) {
		payment := charge(t, models.PaymentMethodCrypto, 5000.0)

		_, err := svc.ApplyRefund(payment.ID, 1000.0)
		assert.Error(t, err)

		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Unknown Payment", func(t *testing.T) {
		_, err := svc.ApplyRefund(uuid.New(), 100.0)
		assert.Error(t, err)
	})
}

func TestLatestForTicket(t *testing.T) {
	store := newFakePaymentStore()
	svc := NewPaymentService(store, "BDT", testLogger())

	ticketID := uuid.New()

	t.Run("No Payment Yet", func(t *testing.T) {
		payment, err := svc.LatestForTicket(ticketID)
		require.NoError(t, err)
		assert.Nil(t, payment)
	})

	t.Run("Latest Wins After Retry", func(t *testing.T) {
		_, err := svc.Charge(ticketID, models.PaymentMethodCreditCard, 10.0)
		assert.Error(t, err) // declined, below minimum

		second, err := svc.Charge(ticketID, models.PaymentMethodCreditCard, 1000.0)
		require.NoError(t, err)

		latest, err := svc.LatestForTicket(ticketID)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, second.ID, latest.ID)
		assert.Equal(t, models.PaymentStatusCompleted, latest.Status)
	})
}
