package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/models"
	"github.com/safeboxlab/safebox/internal/repository"
)

// ListGeofences returns the zones for one vehicle.
func (h *Handler) ListGeofences(c *gin.Context) {
	vehicleID := c.Query("vehicleId")
	fences, err := h.geofences.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		h.logger.Error("Failed to list geofences", zap.Error(err), zap.String("vehicle_id", vehicleID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch geofences"})
		return
	}

	c.JSON(http.StatusOK, fences)
}

// CreateGeofence stores a new zone.
func (h *Handler) CreateGeofence(c *gin.Context) {
	var req struct {
		VehicleID string  `json:"vehicleId" binding:"required"`
		Lat       float64 `json:"lat"`
		Lng       float64 `json:"lng"`
		Radius    float64 `json:"radius"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fence := &models.Geofence{
		VehicleID: req.VehicleID,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Radius:    req.Radius,
	}
	if err := h.geofences.Create(c.Request.Context(), fence); err != nil {
		if errors.Is(err, repository.ErrInvalidRadius) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Radius must be positive"})
			return
		}
		h.logger.Error("Failed to create geofence", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create geofence"})
		return
	}

	c.JSON(http.StatusOK, fence)
}

// UpdateGeofence moves or resizes a zone.
func (h *Handler) UpdateGeofence(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geofence ID"})
		return
	}

	var req struct {
		Lat    float64 `json:"lat"`
		Lng    float64 `json:"lng"`
		Radius float64 `json:"radius"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.geofences.Update(c.Request.Context(), id, req.Lat, req.Lng, req.Radius); err != nil {
		if errors.Is(err, repository.ErrInvalidRadius) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Radius must be positive"})
			return
		}
		h.logger.Error("Failed to update geofence", zap.Error(err), zap.Int64("geofence_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update geofence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteGeofence removes a zone.
func (h *Handler) DeleteGeofence(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geofence ID"})
		return
	}

	if err := h.geofences.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete geofence", zap.Error(err), zap.Int64("geofence_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete geofence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
