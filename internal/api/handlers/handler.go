package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/repository"
	"github.com/safeboxlab/safebox/internal/service"
	"github.com/safeboxlab/safebox/pkg/ws"
)

// VehicleForgetter drops in-memory alert state for a removed vehicle.
type VehicleForgetter interface {
	Forget(vehicleID string)
}

// Handler serves the REST and websocket API.
type Handler struct {
	logger        *zap.Logger
	users         *repository.UserRepository
	vehicles      *repository.VehicleRepository
	geofences     *repository.GeofenceRepository
	notifications *repository.NotificationRepository
	analytics     *service.AnalyticsService
	hub           *ws.Hub
	forget        VehicleForgetter
	upgrader      websocket.Upgrader
}

func NewHandler(
	logger *zap.Logger,
	users *repository.UserRepository,
	vehicles *repository.VehicleRepository,
	geofences *repository.GeofenceRepository,
	notifications *repository.NotificationRepository,
	analytics *service.AnalyticsService,
	hub *ws.Hub,
	forget VehicleForgetter,
) *Handler {
	return &Handler{
		logger:        logger,
		users:         users,
		vehicles:      vehicles,
		geofences:     geofences,
		notifications: notifications,
		analytics:     analytics,
		hub:           hub,
		forget:        forget,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// RegisterRoutes wires up the API.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// Accounts
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)

		// Vehicles
		api.GET("/vehicles", h.ListVehicles)
		api.POST("/vehicles", h.CreateVehicle)
		api.DELETE("/vehicles/:id", h.DeleteVehicle)

		// Geofences
		api.GET("/geofences", h.ListGeofences)
		api.POST("/geofences", h.CreateGeofence)
		api.PUT("/geofences/:id", h.UpdateGeofence)
		api.DELETE("/geofences/:id", h.DeleteGeofence)

		// Notifications
		api.GET("/notifications", h.ListNotifications)
		api.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
		api.PUT("/notifications/:id/read", h.MarkNotificationRead)

		// Analytics
		api.GET("/analytics/stats", h.FleetStats)
		api.GET("/analytics/leaderboard", h.Leaderboard)
		api.GET("/analytics/history/:vehicleId", h.VehicleHistory)
	}

	// Live dashboard transport
	r.GET("/ws", h.HandleWebSocket)

	r.GET("/health", h.HealthCheck)
}

// HandleWebSocket upgrades a dashboard connection and attaches it to
// the hub.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"clients": h.hub.ClientCount(),
	})
}

// ownerScope reads the optional userId/role query pair. A company or
// individual account scopes results to its own vehicles; anything else
// is unscoped.
func ownerScope(c *gin.Context) int64 {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		return 0
	}
	return userID
}
