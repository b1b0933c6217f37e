package models

import (
	"time"

	"github.com/google/uuid"
)

// SeatPool is the reservable capacity unit for one vehicle or one
// scheduled run. Available only changes by one seat at a time through
// Reserve/Release; 0 <= available <= total always holds.
type SeatPool struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	VehicleID      string     `json:"vehicle_id" db:"vehicle_id"`
	ScheduleID     *uuid.UUID `json:"schedule_id,omitempty" db:"schedule_id"`
	TotalSeats     int        `json:"total_seats" db:"total_seats"`
	AvailableSeats int        `json:"available_seats" db:"available_seats"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// IsFull returns true when no seats remain.
func (p *SeatPool) IsFull() bool {
	return p.AvailableSeats == 0
}

// Reserve takes one seat. Fails without mutation when the pool is
// empty. Callers must hold the pool's lock.
func (p *SeatPool) Reserve() error {
	if p.AvailableSeats <= 0 {
		return &SeatsUnavailableError{
			PoolID:  p.ID.String(),
			Message: "no seats available",
		}
	}
	p.AvailableSeats--
	return nil
}

// Release returns one seat. Fails without mutation when the pool is
// already at capacity. Callers must hold the pool's lock.
func (p *SeatPool) Release() error {
	if p.AvailableSeats >= p.TotalSeats {
		return &SeatsAtCapacityError{
			PoolID:  p.ID.String(),
			Message: "seat pool is already at capacity",
		}
	}
	p.AvailableSeats++
	return nil
}
