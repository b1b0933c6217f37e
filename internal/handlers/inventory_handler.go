package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/booking-backend/internal/services"
)

// InventoryHandler handles seat pool administration endpoints
type InventoryHandler struct {
	inventoryService *services.SeatInventoryService
	logger           *logrus.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *services.SeatInventoryService, logger *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// CreatePoolRequest registers reservable capacity for a vehicle or run
type CreatePoolRequest struct {
	VehicleID  string  `json:"vehicle_id" binding:"required"`
	ScheduleID *string `json:"schedule_id,omitempty"`
	TotalSeats int     `json:"total_seats" binding:"required,gt=0"`
}

// CreatePool creates a seat pool - POST /api/v1/admin/seat-pools
func (h *InventoryHandler) CreatePool(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	var scheduleID *uuid.UUID
	if req.ScheduleID != nil {
		parsed, err := uuid.Parse(*req.ScheduleID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule_id"})
			return
		}
		scheduleID = &parsed
	}

	pool, err := h.inventoryService.CreatePool(req.VehicleID, scheduleID, req.TotalSeats)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pool)
}

// GetPool returns current availability - GET /api/v1/seat-pools/:pool_id
func (h *InventoryHandler) GetPool(c *gin.Context) {
	poolID, err := uuid.Parse(c.Param("pool_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pool_id"})
		return
	}

	pool, err := h.inventoryService.GetPool(poolID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pool)
}
