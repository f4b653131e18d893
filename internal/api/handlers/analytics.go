package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/models"
)

// FleetStats returns aggregated stats for the requesting scope.
func (h *Handler) FleetStats(c *gin.Context) {
	stats, err := h.analytics.FleetStats(c.Request.Context(), analyticsScope(c))
	if err != nil {
		h.logger.Error("Failed to compute fleet stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Leaderboard returns vehicles ranked by combined score.
func (h *Handler) Leaderboard(c *gin.Context) {
	entries, err := h.analytics.Leaderboard(c.Request.Context(), analyticsScope(c))
	if err != nil {
		h.logger.Error("Failed to compute leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// VehicleHistory returns chart points for a preset time range.
func (h *Handler) VehicleHistory(c *gin.Context) {
	points, err := h.analytics.History(c.Request.Context(), c.Param("vehicleId"), c.Query("range"))
	if err != nil {
		h.logger.Error("Failed to query history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	if points == nil {
		points = []models.HistoryPoint{}
	}

	c.JSON(http.StatusOK, points)
}

// analyticsScope scopes company accounts to their own fleet; other
// callers see global stats.
func analyticsScope(c *gin.Context) int64 {
	if c.Query("role") != "company" {
		return 0
	}
	return ownerScope(c)
}
