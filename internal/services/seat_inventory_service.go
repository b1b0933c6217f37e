package services

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/models"
)

// seatPoolStore is the persistence surface the inventory service needs
type seatPoolStore interface {
	Create(pool *models.SeatPool) error
	GetByID(poolID uuid.UUID) (*models.SeatPool, error)
	UpdateAvailableSeats(pool *models.SeatPool) error
}

// SeatInventoryService guards seat pool mutations. Every reserve and
// release for a given pool runs under that pool's lock, so two
// concurrent bookings can never both take the last seat.
type SeatInventoryService struct {
	pools  seatPoolStore
	logger *logrus.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewSeatInventoryService creates a new seat inventory service
func NewSeatInventoryService(pools seatPoolStore, logger *logrus.Logger) *SeatInventoryService {
	return &SeatInventoryService{
		pools:  pools,
		logger: logger,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// poolLock returns the mutex for one pool, creating it on first use.
// Locks are never evicted; the pool count is bounded by the fleet.
func (s *SeatInventoryService) poolLock(poolID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[poolID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[poolID] = lock
	}
	return lock
}

// CreatePool registers a new seat pool with every seat available.
func (s *SeatInventoryService) CreatePool(vehicleID string, scheduleID *uuid.UUID, totalSeats int) (*models.SeatPool, error) {
	if vehicleID == "" {
		return nil, models.NewValidationError("vehicle_id", "vehicle ID is required")
	}
	if totalSeats <= 0 {
		return nil, models.NewValidationError("total_seats", "total seats must be positive")
	}

	pool := &models.SeatPool{
		VehicleID:      vehicleID,
		ScheduleID:     scheduleID,
		TotalSeats:     totalSeats,
		AvailableSeats: totalSeats,
	}
	if err := s.pools.Create(pool); err != nil {
		return nil, &models.PersistenceFaultError{Op: "create seat pool", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"pool_id":     pool.ID,
		"vehicle_id":  vehicleID,
		"total_seats": totalSeats,
	}).Info("Seat pool created")

	return pool, nil
}

// GetPool loads a seat pool for read-only display.
func (s *SeatInventoryService) GetPool(poolID uuid.UUID) (*models.SeatPool, error) {
	pool, err := s.pools.GetByID(poolID)
	if err != nil {
		return nil, &models.PersistenceFaultError{Op: "get seat pool", Err: err}
	}
	if pool == nil {
		return nil, models.NewValidationError("seat_pool_id", "seat pool not found")
	}
	return pool, nil
}

// Reserve takes one seat from the pool. Returns SeatsUnavailableError
// without mutating anything when the pool is empty.
func (s *SeatInventoryService) Reserve(poolID uuid.UUID) (*models.SeatPool, error) {
	lock := s.poolLock(poolID)
	lock.Lock()
	defer lock.Unlock()

	pool, err := s.GetPool(poolID)
	if err != nil {
		return nil, err
	}
	if err := pool.Reserve(); err != nil {
		s.logger.WithFields(logrus.Fields{
			"pool_id":    poolID,
			"vehicle_id": pool.VehicleID,
		}).Warn("Seat reservation rejected, pool empty")
		return nil, err
	}
	if err := s.pools.UpdateAvailableSeats(pool); err != nil {
		return nil, &models.PersistenceFaultError{Op: "reserve seat", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"pool_id":   poolID,
		"available": pool.AvailableSeats,
		"total":     pool.TotalSeats,
	}).Info("Seat reserved")

	return pool, nil
}

// Release returns one seat to the pool. Used when a payment fails or a
// ticket is cancelled. Returns SeatsAtCapacityError if the pool is
// already full, which indicates a double release.
func (s *SeatInventoryService) Release(poolID uuid.UUID) (*models.SeatPool, error) {
	lock := s.poolLock(poolID)
	lock.Lock()
	defer lock.Unlock()

	pool, err := s.GetPool(poolID)
	if err != nil {
		return nil, err
	}
	if err := pool.Release(); err != nil {
		s.logger.WithFields(logrus.Fields{
			"pool_id":    poolID,
			"vehicle_id": pool.VehicleID,
		}).Error("Seat release rejected, pool already at capacity")
		return nil, err
	}
	if err := s.pools.UpdateAvailableSeats(pool); err != nil {
		return nil, &models.PersistenceFaultError{Op: "release seat", Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"pool_id":   poolID,
		"available": pool.AvailableSeats,
		"total":     pool.TotalSeats,
	}).Info("Seat released")

	return pool, nil
}
