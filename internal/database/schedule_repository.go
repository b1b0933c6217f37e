package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/booking-backend/internal/models"
)

// ScheduleRepository handles schedule database operations
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `
	id, vehicle_id, route_name, departure_time, arrival_time, status,
	fare_per_seat, created_at, updated_at`

// Create inserts a new schedule
func (r *ScheduleRepository) Create(schedule *models.Schedule) error {
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	now := time.Now()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusActive
	}

	query := `
		INSERT INTO schedules (` + scheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		schedule.ID, schedule.VehicleID, schedule.RouteName,
		schedule.DepartureTime, schedule.ArrivalTime, schedule.Status,
		schedule.FarePerSeat, schedule.CreatedAt, schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// GetByID retrieves a schedule by ID
func (r *ScheduleRepository) GetByID(scheduleID uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1`

	err := r.db.Get(&schedule, query, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

// UpdateStatus changes a schedule's status
func (r *ScheduleRepository) UpdateStatus(scheduleID uuid.UUID, status models.ScheduleStatus) error {
	query := `UPDATE schedules SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.Exec(query, status, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("schedule %s not found", scheduleID)
	}
	return nil
}
