package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const notificationPageSize = 50

// ListNotifications returns the newest notifications for an owner's
// fleet.
func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.notifications.ListByOwner(c.Request.Context(), ownerScope(c), notificationPageSize)
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead acknowledges one notification.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to mark notification read", zap.Error(err), zap.Int64("notification_id", id))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllNotificationsRead acknowledges every notification for an
// owner's fleet.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), req.UserID); err != nil {
		h.logger.Error("Failed to mark all notifications read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark all read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
