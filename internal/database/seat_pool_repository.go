package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/booking-backend/internal/models"
)

// SeatPoolRepository handles seat pool database operations
type SeatPoolRepository struct {
	db DB
}

// NewSeatPoolRepository creates a new SeatPoolRepository
func NewSeatPoolRepository(db DB) *SeatPoolRepository {
	return &SeatPoolRepository{db: db}
}

// Create inserts a new seat pool with all seats available
func (r *SeatPoolRepository) Create(pool *models.SeatPool) error {
	if pool.ID == uuid.Nil {
		pool.ID = uuid.New()
	}
	pool.CreatedAt = time.Now()
	pool.UpdatedAt = pool.CreatedAt

	query := `
		INSERT INTO seat_pools (id, vehicle_id, schedule_id, total_seats, available_seats, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		pool.ID, pool.VehicleID, pool.ScheduleID,
		pool.TotalSeats, pool.AvailableSeats,
		pool.CreatedAt, pool.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create seat pool: %w", err)
	}
	return nil
}

// GetByID retrieves a seat pool by ID
func (r *SeatPoolRepository) GetByID(poolID uuid.UUID) (*models.SeatPool, error) {
	var pool models.SeatPool
	query := `
		SELECT id, vehicle_id, schedule_id, total_seats, available_seats, created_at, updated_at
		FROM seat_pools
		WHERE id = $1`

	err := r.db.Get(&pool, query, poolID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seat pool: %w", err)
	}
	return &pool, nil
}

// UpdateAvailableSeats persists the pool's seat count. The WHERE clause
// re-checks the bounds so a stale in-memory pool can never push the
// stored count outside [0, total].
func (r *SeatPoolRepository) UpdateAvailableSeats(pool *models.SeatPool) error {
	query := `
		UPDATE seat_pools
		SET available_seats = $1, updated_at = NOW()
		WHERE id = $2 AND $1 >= 0 AND $1 <= total_seats`

	result, err := r.db.Exec(query, pool.AvailableSeats, pool.ID)
	if err != nil {
		return fmt.Errorf("failed to update seat pool: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("seat pool %s not updated (stale or out of bounds)", pool.ID)
	}
	return nil
}
