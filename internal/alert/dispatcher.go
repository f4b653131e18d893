package alert

import (
	"context"

	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/models"
)

// Sink receives raised alerts. Implemented by Dispatcher; evaluators
// depend on this interface so cooldown behavior is testable without a
// database or websocket hub.
type Sink interface {
	Raise(ctx context.Context, vehicleID string, typ models.AlertType, message string, now int64)
}

type notificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

type alertBroadcaster interface {
	BroadcastAlert(event models.AlertEvent)
}

// Dispatcher is the single write path for all alert types: it persists
// a notification record and broadcasts the alert to dashboard clients.
type Dispatcher struct {
	logger        *zap.Logger
	notifications notificationStore
	hub           alertBroadcaster
}

func NewDispatcher(logger *zap.Logger, notifications notificationStore, hub alertBroadcaster) *Dispatcher {
	return &Dispatcher{
		logger:        logger,
		notifications: notifications,
		hub:           hub,
	}
}

// Raise persists the notification (best effort: a failed write is
// logged and must not suppress the live signal) and then broadcasts.
func (d *Dispatcher) Raise(ctx context.Context, vehicleID string, typ models.AlertType, message string, now int64) {
	n := &models.Notification{
		VehicleID: vehicleID,
		Type:      typ,
		Message:   message,
		Timestamp: now,
	}
	if err := d.notifications.Create(ctx, n); err != nil {
		d.logger.Error("Failed to persist notification",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID),
			zap.String("type", string(typ)),
		)
	}

	event := models.AlertEvent{
		VehicleID: vehicleID,
		Message:   message,
		Timestamp: now,
	}
	// Geofence alerts predate the type field; leaving it empty keeps
	// older dashboard clients working.
	if typ != models.AlertGeofence {
		event.Type = string(typ)
	}

	d.hub.BroadcastAlert(event)
}
