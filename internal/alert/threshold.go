package alert

import (
	"context"
	"fmt"

	"github.com/safeboxlab/safebox/internal/models"
)

// ThresholdEvaluator raises speeding and low-fuel alerts. The two
// checks are independent of each other and of geofences.
type ThresholdEvaluator struct {
	registry *Registry
	sink     Sink
}

func NewThresholdEvaluator(registry *Registry, sink Sink) *ThresholdEvaluator {
	return &ThresholdEvaluator{registry: registry, sink: sink}
}

// Evaluate checks one sample against the fixed speed and fuel policy.
func (e *ThresholdEvaluator) Evaluate(ctx context.Context, sample *models.Sample) {
	now := sample.Timestamp

	if sample.Speed > SpeedLimitKph &&
		e.registry.ShouldFire(sample.DeviceID, ConditionSpeed, now, SpeedCooldown) {
		msg := fmt.Sprintf("Vehicle %s is speeding! (%v km/h)", sample.DeviceID, sample.Speed)
		e.sink.Raise(ctx, sample.DeviceID, models.AlertSpeed, msg, now)
	}

	if sample.Fuel < LowFuelPct &&
		e.registry.ShouldFire(sample.DeviceID, ConditionFuel, now, FuelCooldown) {
		msg := fmt.Sprintf("Vehicle %s has low fuel! (%d%%)", sample.DeviceID, sample.Fuel)
		e.sink.Raise(ctx, sample.DeviceID, models.AlertFuel, msg, now)
	}
}
