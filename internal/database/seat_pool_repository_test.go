package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/booking-backend/internal/models"
)

func TestCreateSeatPool(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewSeatPoolRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		pool := &models.SeatPool{
			VehicleID:      "BUS-042",
			TotalSeats:     45,
			AvailableSeats: 45,
		}

		mock.ExpectExec(`INSERT INTO seat_pools`).
			WithArgs(sqlmock.AnyArg(), "BUS-042", nil, 45, 45, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Create(pool)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, pool.ID)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Database Error", func(t *testing.T) {
		pool := &models.SeatPool{VehicleID: "BUS-042", TotalSeats: 45, AvailableSeats: 45}

		mock.ExpectExec(`INSERT INTO seat_pools`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(pool)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create seat pool")

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}

func TestGetSeatPoolByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewSeatPoolRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		poolID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM seat_pools WHERE id`).
			WithArgs(poolID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "vehicle_id", "schedule_id", "total_seats",
				"available_seats", "created_at", "updated_at",
			}).AddRow(poolID, "TRAIN-7", nil, 320, 118, now, now))

		pool, err := repo.GetByID(poolID)
		require.NoError(t, err)
		require.NotNil(t, pool)
		assert.Equal(t, poolID, pool.ID)
		assert.Equal(t, 320, pool.TotalSeats)
		assert.Equal(t, 118, pool.AvailableSeats)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Pool Not Found", func(t *testing.T) {
		poolID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM seat_pools WHERE id`).
			WithArgs(poolID).
			WillReturnError(sql.ErrNoRows)

		pool, err := repo.GetByID(poolID)
		require.NoError(t, err)
		assert.Nil(t, pool)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}

func TestUpdateAvailableSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB := newMockDatabase(db)
	repo := NewSeatPoolRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		pool := &models.SeatPool{ID: uuid.New(), TotalSeats: 45, AvailableSeats: 44}

		mock.ExpectExec(`UPDATE seat_pools`).
			WithArgs(44, pool.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateAvailableSeats(pool)
		require.NoError(t, err)

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Out Of Bounds Rejected", func(t *testing.T) {
		pool := &models.SeatPool{ID: uuid.New(), TotalSeats: 45, AvailableSeats: 46}

		mock.ExpectExec(`UPDATE seat_pools`).
			WithArgs(46, pool.ID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateAvailableSeats(pool)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not updated")

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})

	t.Run("Database Error", func(t *testing.T) {
		pool := &models.SeatPool{ID: uuid.New(), TotalSeats: 45, AvailableSeats: 10}

		mock.ExpectExec(`UPDATE seat_pools`).
			WithArgs(10, pool.ID).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.UpdateAvailableSeats(pool)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update seat pool")

		err = mock.ExpectationsWereMet()
		assert.NoError(t, err)
	})
}
