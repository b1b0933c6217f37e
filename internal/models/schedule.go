package models

import (
	"time"

	"github.com/google/uuid"
)

// BoardingWindow is how long before departure boarding opens.
const BoardingWindow = 30 * time.Minute

// ScheduleStatus is the state of a scheduled run
type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "active"
	ScheduleStatusDelayed   ScheduleStatus = "delayed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
	ScheduleStatusDeparted  ScheduleStatus = "departed"
)

// AllowsBoarding returns true if passengers may board runs in this
// status.
func (s ScheduleStatus) AllowsBoarding() bool {
	return s == ScheduleStatusActive || s == ScheduleStatusDelayed
}

// Schedule is one scheduled run of a vehicle on a route.
type Schedule struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	VehicleID     string         `json:"vehicle_id" db:"vehicle_id"`
	RouteName     string         `json:"route_name" db:"route_name"`
	DepartureTime time.Time      `json:"departure_time" db:"departure_time"`
	ArrivalTime   time.Time      `json:"arrival_time" db:"arrival_time"`
	Status        ScheduleStatus `json:"status" db:"status"`
	FarePerSeat   float64        `json:"fare_per_seat" db:"fare_per_seat"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// IsDeparted returns true once the scheduled departure has passed.
func (s *Schedule) IsDeparted(now time.Time) bool {
	return s.DepartureTime.Before(now)
}

// CheckBoardingWindow validates that now falls inside
// [departure - BoardingWindow, departure].
func (s *Schedule) CheckBoardingWindow(now time.Time) error {
	opens := s.DepartureTime.Add(-BoardingWindow)
	if now.Before(opens) {
		return &BoardingWindowError{
			TooEarly: true,
			Message:  "boarding has not started yet, opens at " + opens.Format(time.RFC3339),
		}
	}
	if now.After(s.DepartureTime) {
		return &BoardingWindowError{
			TooEarly: false,
			Message:  "boarding has ended, departure was at " + s.DepartureTime.Format(time.RFC3339),
		}
	}
	return nil
}
