package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/booking-backend/internal/models"
)

func TestBaseFare(t *testing.T) {
	svc := NewFareService()

	t.Run("Distance And Stops", func(t *testing.T) {
		fare, err := svc.BaseFare(100, 4)
		require.NoError(t, err)
		assert.Equal(t, 1220.0, fare) // 100*12 + 4*5
	})

	t.Run("No Stops", func(t *testing.T) {
		fare, err := svc.BaseFare(25, 0)
		require.NoError(t, err)
		assert.Equal(t, 300.0, fare)
	})

	t.Run("Fractional Distance Rounds To Paisa", func(t *testing.T) {
		fare, err := svc.BaseFare(10.555, 0)
		require.NoError(t, err)
		assert.Equal(t, 126.66, fare)
	})

	t.Run("Zero Distance Rejected", func(t *testing.T) {
		_, err := svc.BaseFare(0, 2)
		assert.Error(t, err)

		var validationErr *models.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "distance_km", validationErr.Field)
	})

	t.Run("Negative Stops Rejected", func(t *testing.T) {
		_, err := svc.BaseFare(100, -1)
		assert.Error(t, err)
	})
}

func TestClassAdjustedFare(t *testing.T) {
	svc := NewFareService()

	t.Run("Train Classes", func(t *testing.T) {
		assert.Equal(t, 1000.0, svc.ClassAdjustedFare(1000, models.TransportTypeTrain, models.TrainClassEconomy))
		assert.Equal(t, 1500.0, svc.ClassAdjustedFare(1000, models.TransportTypeTrain, models.TrainClassBusiness))
		assert.Equal(t, 2000.0, svc.ClassAdjustedFare(1000, models.TransportTypeTrain, models.TrainClassFirstClass))
	})

	t.Run("Bus Ignores Class", func(t *testing.T) {
		assert.Equal(t, 1000.0, svc.ClassAdjustedFare(1000, models.TransportTypeBus, models.TrainClassFirstClass))
	})
}

func TestTransactionFee(t *testing.T) {
	svc := NewFareService()

	t.Run("Per Method Rates", func(t *testing.T) {
		cases := []struct {
			method models.PaymentMethod
			fee    float64
		}{
			{models.PaymentMethodCreditCard, 25.0},
			{models.PaymentMethodDebitCard, 15.0},
			{models.PaymentMethodPaypal, 30.0},
			{models.PaymentMethodMobileWallet, 20.0},
			{models.PaymentMethodCrypto, 10.0},
		}
		for _, tc := range cases {
			fee, err := svc.TransactionFee(tc.method, 1000)
			require.NoError(t, err, tc.method)
			assert.Equal(t, tc.fee, fee, tc.method)
		}
	})

	t.Run("Unknown Method Rejected", func(t *testing.T) {
		_, err := svc.TransactionFee(models.PaymentMethod("barter"), 1000)
		assert.Error(t, err)
	})
}

func TestQuoteCharge(t *testing.T) {
	svc := NewFareService()

	t.Run("Train Business By Credit Card", func(t *testing.T) {
		fare, fee, total, err := svc.QuoteCharge(100, 4, models.TransportTypeTrain, models.TrainClassBusiness, models.PaymentMethodCreditCard)
		require.NoError(t, err)
		assert.Equal(t, 1830.0, fare) // 1220 * 1.5
		assert.Equal(t, 45.75, fee)   // 1830 * 0.025
		assert.Equal(t, 1875.75, total)
	})

	t.Run("Bus By Mobile Wallet", func(t *testing.T) {
		fare, fee, total, err := svc.QuoteCharge(50, 2, models.TransportTypeBus, models.TrainClassEconomy, models.PaymentMethodMobileWallet)
		require.NoError(t, err)
		assert.Equal(t, 610.0, fare)
		assert.Equal(t, 12.2, fee)
		assert.Equal(t, 622.2, total)
	})

	t.Run("Invalid Distance Propagates", func(t *testing.T) {
		_, _, _, err := svc.QuoteCharge(-5, 0, models.TransportTypeBus, models.TrainClassEconomy, models.PaymentMethodCreditCard)
		assert.Error(t, err)
	})
}
