package services

import (
	"math"

	"github.com/smarttransit/booking-backend/internal/models"
)

const (
	// RatePerKilometer is the base fare per kilometer (BDT)
	RatePerKilometer = 12.0

	// FeePerStop is the surcharge per intermediate stop (BDT)
	FeePerStop = 5.0
)

// FareService computes fares and payment charges. All methods are pure
// so callers can quote without touching any state.
type FareService struct{}

// NewFareService creates a new fare service
func NewFareService() *FareService {
	return &FareService{}
}

// BaseFare computes the distance-and-stops fare for a journey.
func (s *FareService) BaseFare(distanceKm float64, stopCount int) (float64, error) {
	if distanceKm <= 0 {
		return 0, models.NewValidationError("distance_km", "distance must be positive")
	}
	if stopCount < 0 {
		return 0, models.NewValidationError("stop_count", "stop count cannot be negative")
	}
	return roundCurrency(distanceKm*RatePerKilometer + float64(stopCount)*FeePerStop), nil
}

// ClassAdjustedFare applies the train class multiplier to a base fare.
// Bus journeys always ride at the economy multiplier.
func (s *FareService) ClassAdjustedFare(baseFare float64, transportType models.TransportType, class models.TrainClass) float64 {
	if transportType != models.TransportTypeTrain {
		return baseFare
	}
	return roundCurrency(baseFare * class.PriceMultiplier())
}

// TransactionFee computes the method-specific fee charged on top of
// the fare.
func (s *FareService) TransactionFee(method models.PaymentMethod, fare float64) (float64, error) {
	if !method.IsValid() {
		return 0, models.NewValidationError("payment_method", "unknown payment method: "+string(method))
	}
	if fare < 0 {
		return 0, models.NewValidationError("amount", "fare cannot be negative")
	}
	return roundCurrency(fare * method.FeeRate()), nil
}

// QuoteCharge computes the full charge for a booking request: the
// class-adjusted fare plus the payment method's transaction fee.
func (s *FareService) QuoteCharge(distanceKm float64, stopCount int, transportType models.TransportType, class models.TrainClass, method models.PaymentMethod) (fare, fee, total float64, err error) {
	base, err := s.BaseFare(distanceKm, stopCount)
	if err != nil {
		return 0, 0, 0, err
	}
	fare = s.ClassAdjustedFare(base, transportType, class)
	fee, err = s.TransactionFee(method, fare)
	if err != nil {
		return 0, 0, 0, err
	}
	return fare, fee, roundCurrency(fare + fee), nil
}

// roundCurrency rounds to two decimal places to keep BDT amounts
// stable across repeated calculations.
func roundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}
