package models

import (
	"fmt"
	"strings"
)

// ============================================================================
// TRAIN CLASS
// ============================================================================

// TrainClass is the seating class on a train
type TrainClass string

const (
	TrainClassEconomy    TrainClass = "economy"
	TrainClassBusiness   TrainClass = "business"
	TrainClassFirstClass TrainClass = "first_class"
)

var classPriceMultipliers = map[TrainClass]float64{
	TrainClassEconomy:    1.0,
	TrainClassBusiness:   1.5,
	TrainClassFirstClass: 2.0,
}

var priorityBoardingClasses = map[TrainClass]bool{
	TrainClassBusiness:   true,
	TrainClassFirstClass: true,
}

// IsValid returns true if the class is known.
func (c TrainClass) IsValid() bool {
	_, ok := classPriceMultipliers[c]
	return ok
}

// PriceMultiplier returns the fare multiplier for the class.
func (c TrainClass) PriceMultiplier() float64 {
	m, ok := classPriceMultipliers[c]
	if !ok {
		return 1.0
	}
	return m
}

// HasPriorityBoarding returns true for classes boarded first.
func (c TrainClass) HasPriorityBoarding() bool {
	return priorityBoardingClasses[c]
}

// DisplayName returns a human-readable class name.
func (c TrainClass) DisplayName() string {
	return strings.ToUpper(strings.ReplaceAll(string(c), "_", " "))
}

// ParseTrainClass converts a string to a TrainClass, defaulting to
// ECONOMY for unknown input.
func ParseTrainClass(s string) TrainClass {
	c := TrainClass(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	if !c.IsValid() {
		return TrainClassEconomy
	}
	return c
}

// ============================================================================
// VEHICLE STATUS / FUEL TYPE
// ============================================================================

// VehicleStatus is the operational state of a vehicle
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "available"
	VehicleStatusMaintenance  VehicleStatus = "maintenance"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
)

// FuelType is the vehicle's fuel
type FuelType string

const (
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeElectric FuelType = "electric"
	FuelTypeHybrid   FuelType = "hybrid"
	FuelTypePetrol   FuelType = "petrol"
	FuelTypeCNG      FuelType = "cng"
)

// ============================================================================
// TRANSPORT VEHICLE
// ============================================================================

// TransportVehicle is the capability surface shared by buses and
// trains. Seat accounting lives in SeatAllocation, composed into both.
type TransportVehicle interface {
	OperationalCost() float64
	Specifications() string
	SafetyCheck() bool
}

// SeatAllocation is the seat counter shared by vehicle kinds.
type SeatAllocation struct {
	TotalSeats     int `json:"total_seats" db:"total_seats"`
	AvailableSeats int `json:"available_seats" db:"available_seats"`
}

// CanAccommodate returns true if the requested party fits.
func (a *SeatAllocation) CanAccommodate(passengers int) bool {
	return a.AvailableSeats >= passengers
}

// Bus is a road vehicle operated by a bus operator.
type Bus struct {
	VehicleID       string         `json:"vehicle_id" db:"vehicle_id"`
	OperatorName    string         `json:"operator_name" db:"operator_name"`
	Seats           SeatAllocation `json:"seats"`
	Status          VehicleStatus  `json:"status" db:"status"`
	FuelType        FuelType       `json:"fuel_type" db:"fuel_type"`
	TotalKilometers float64        `json:"total_kilometers" db:"total_kilometers"`
	AverageSpeed    float64        `json:"average_speed" db:"average_speed"`
	HasAirCon       bool           `json:"has_air_con" db:"has_air_con"`
	HasWiFi         bool           `json:"has_wifi" db:"has_wifi"`
}

// OperationalCost estimates the per-trip running cost of the bus.
func (b *Bus) OperationalCost() float64 {
	cost := 1000.0 + b.TotalKilometers*2.5
	if b.HasAirCon {
		cost += 500
	}
	if b.HasWiFi {
		cost += 200
	}
	return cost
}

// Specifications returns a display summary of the bus.
func (b *Bus) Specifications() string {
	return fmt.Sprintf("Bus %s | operator %s | %d seats | AC: %t | WiFi: %t",
		b.VehicleID, b.OperatorName, b.Seats.TotalSeats, b.HasAirCon, b.HasWiFi)
}

// SafetyCheck returns true if the bus may carry passengers.
func (b *Bus) SafetyCheck() bool {
	return b.Status != VehicleStatusMaintenance &&
		b.TotalKilometers < 50000 &&
		b.AverageSpeed > 0 && b.AverageSpeed <= 120
}

// Train is a rail vehicle with one or more seating classes.
type Train struct {
	VehicleID       string         `json:"vehicle_id" db:"vehicle_id"`
	TrainName       string         `json:"train_name" db:"train_name"`
	Class           TrainClass     `json:"class" db:"class"`
	Seats           SeatAllocation `json:"seats"`
	Status          VehicleStatus  `json:"status" db:"status"`
	FuelType        FuelType       `json:"fuel_type" db:"fuel_type"`
	CoachCount      int            `json:"coach_count" db:"coach_count"`
	TotalKilometers float64        `json:"total_kilometers" db:"total_kilometers"`
	AverageSpeed    float64        `json:"average_speed" db:"average_speed"`
	HasDiningCar    bool           `json:"has_dining_car" db:"has_dining_car"`
	HasSleeperCoach bool           `json:"has_sleeper_coach" db:"has_sleeper_coach"`
}

// OperationalCost estimates the per-trip running cost of the train.
func (t *Train) OperationalCost() float64 {
	cost := 2000.0 + t.TotalKilometers*5.0 + float64(t.CoachCount)*300.0
	if t.HasDiningCar {
		cost += 1000
	}
	if t.HasSleeperCoach {
		cost += 1500
	}
	return cost
}

// Specifications returns a display summary of the train.
func (t *Train) Specifications() string {
	return fmt.Sprintf("Train %s (%s) | %s | %d coaches | %d seats",
		t.VehicleID, t.TrainName, t.Class.DisplayName(), t.CoachCount, t.Seats.TotalSeats)
}

// SafetyCheck returns true if the train may carry passengers.
func (t *Train) SafetyCheck() bool {
	return t.Status != VehicleStatusMaintenance &&
		t.TotalKilometers < 75000 &&
		t.AverageSpeed > 0 && t.AverageSpeed <= 300
}
