package alert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/geo"
	"github.com/safeboxlab/safebox/internal/models"
	"github.com/safeboxlab/safebox/internal/state"
)

// GeofenceCondition builds the debounce condition key for one zone, so
// each zone of a device has its own cooldown clock.
func GeofenceCondition(zoneID int64) string {
	return fmt.Sprintf("geofence:%d", zoneID)
}

type geofenceSource interface {
	ListByVehicle(ctx context.Context, vehicleID string) ([]models.Geofence, error)
}

// GeofenceEvaluator raises breach alerts for samples that fall outside
// a vehicle's configured zones, throttled by the debounce registry,
// and clears the cooldown when the vehicle re-enters so that leaving
// again alerts immediately.
type GeofenceEvaluator struct {
	logger    *zap.Logger
	geofences geofenceSource
	registry  *Registry
	zones     *state.ZoneTracker
	sink      Sink
}

func NewGeofenceEvaluator(logger *zap.Logger, geofences geofenceSource, registry *Registry, sink Sink) *GeofenceEvaluator {
	e := &GeofenceEvaluator{
		logger:    logger,
		geofences: geofences,
		registry:  registry,
		sink:      sink,
	}
	e.zones = state.NewZoneTracker(e.onZoneChange)
	return e
}

// Evaluate checks one sample against every zone of its vehicle.
func (e *GeofenceEvaluator) Evaluate(ctx context.Context, sample *models.Sample) {
	// (0,0) is the decoder fallback for missing position data;
	// evaluating it would raise false breaches against Null Island.
	if !sample.HasPosition() {
		return
	}

	fences, err := e.geofences.ListByVehicle(ctx, sample.DeviceID)
	if err != nil {
		e.logger.Error("Failed to load geofences",
			zap.Error(err),
			zap.String("vehicle_id", sample.DeviceID),
		)
		return
	}

	now := sample.Timestamp
	for _, fence := range fences {
		if fence.Radius <= 0 {
			// Degenerate zone, never a breach.
			continue
		}

		distance := geo.Distance(fence.Lat, fence.Lng, sample.Lat, sample.Lng)
		condition := GeofenceCondition(fence.ID)

		if distance > fence.Radius {
			e.zones.Update(sample.DeviceID, fence.ID, false)
			if e.registry.ShouldFire(sample.DeviceID, condition, now, GeofenceCooldown) {
				msg := fmt.Sprintf("Vehicle %s has left the safe zone!", sample.DeviceID)
				e.sink.Raise(ctx, sample.DeviceID, models.AlertGeofence, msg, now)
				e.logger.Info("Geofence breach",
					zap.String("vehicle_id", sample.DeviceID),
					zap.Int64("geofence_id", fence.ID),
					zap.Float64("distance_m", distance),
				)
			}
		} else {
			// Unconditional: a no-op when nothing was set.
			e.registry.Clear(sample.DeviceID, condition)
			e.zones.Update(sample.DeviceID, fence.ID, true)
		}
	}
}

// Forget drops zone state for a removed vehicle.
func (e *GeofenceEvaluator) Forget(vehicleID string) {
	e.zones.Forget(vehicleID)
}

func (e *GeofenceEvaluator) onZoneChange(vehicleID string, zoneID int64, _, to string) {
	if to == state.StateInside {
		e.logger.Info("Vehicle re-entered safe zone",
			zap.String("vehicle_id", vehicleID),
			zap.Int64("geofence_id", zoneID),
		)
	}
}
