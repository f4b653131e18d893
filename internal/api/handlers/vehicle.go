package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/models"
	"github.com/safeboxlab/safebox/internal/repository"
)

// ListVehicles returns the vehicles owned by the requesting account.
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicles.ListByOwner(c.Request.Context(), ownerScope(c))
	if err != nil {
		h.logger.Error("Failed to list vehicles", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

// CreateVehicle registers a device id for an owner.
func (h *Handler) CreateVehicle(c *gin.Context) {
	var req struct {
		ID      string `json:"id" binding:"required"`
		Name    string `json:"name"`
		OwnerID int64  `json:"ownerId"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	vehicle := &models.Vehicle{ID: req.ID, Name: req.Name, OwnerID: req.OwnerID}
	if err := h.vehicles.Create(c.Request.Context(), vehicle); err != nil {
		if errors.Is(err, repository.ErrInvalidVehicleID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID Format. Must be MOTO_XXX (e.g., MOTO_001)"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vehicle ID already claimed or invalid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteVehicle removes a vehicle and, by cascade, its geofences.
func (h *Handler) DeleteVehicle(c *gin.Context) {
	id := c.Param("id")
	if err := h.vehicles.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete vehicle", zap.Error(err), zap.String("vehicle_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle"})
		return
	}
	h.forget.Forget(id)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
