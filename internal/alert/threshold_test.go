package alert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safeboxlab/safebox/internal/models"
)

type recordedAlert struct {
	vehicleID string
	typ       models.AlertType
	message   string
	now       int64
}

type recordSink struct {
	alerts []recordedAlert
}

func (s *recordSink) Raise(_ context.Context, vehicleID string, typ models.AlertType, message string, now int64) {
	s.alerts = append(s.alerts, recordedAlert{vehicleID, typ, message, now})
}

func sample(speed float64, fuel int, ts int64) *models.Sample {
	return &models.Sample{
		DeviceID:  "MOTO_001",
		Speed:     speed,
		Battery:   100,
		Fuel:      fuel,
		Timestamp: ts,
	}
}

func TestSpeedingAlert(t *testing.T) {
	sink := &recordSink{}
	e := NewThresholdEvaluator(NewRegistry(), sink)

	e.Evaluate(context.Background(), sample(95, 100, 1000))

	require.Len(t, sink.alerts, 1)
	assert.Equal(t, models.AlertSpeed, sink.alerts[0].typ)
	assert.Equal(t, "Vehicle MOTO_001 is speeding! (95 km/h)", sink.alerts[0].message)
	assert.Equal(t, int64(1000), sink.alerts[0].now)
}

func TestSpeedingAlertCooldown(t *testing.T) {
	sink := &recordSink{}
	e := NewThresholdEvaluator(NewRegistry(), sink)

	e.Evaluate(context.Background(), sample(95, 100, 1000))
	e.Evaluate(context.Background(), sample(110, 100, 31_000))
	require.Len(t, sink.alerts, 1, "repeat within cooldown must be suppressed")

	e.Evaluate(context.Background(), sample(110, 100, 61_000))
	require.Len(t, sink.alerts, 2)
	assert.Equal(t, "Vehicle MOTO_001 is speeding! (110 km/h)", sink.alerts[1].message)
}

func TestSpeedingAlertKeepsFractionalSpeed(t *testing.T) {
	sink := &recordSink{}
	e := NewThresholdEvaluator(NewRegistry(), sink)

	e.Evaluate(context.Background(), sample(95.5, 100, 1000))

	require.Len(t, sink.alerts, 1)
	assert.Equal(t, "Vehicle MOTO_001 is speeding! (95.5 km/h)", sink.alerts[0].message)
}

func TestSpeedLimitIsExclusive(t *testing.T) {
	sink := &recordSink{}
	e := NewThresholdEvaluator(NewRegistry(), sink)

	e.Evaluate(context.Background(), sample(90, 100, 1000))
	assert.Empty(t, sink.alerts)
}

func TestLowFuelAlert(t *testing.T) {
	sink := &recordSink{}
	e := NewThresholdEvaluator(NewRegistry(), sink)

	e.Evaluate(context.Background(), sample(0, 10, 1000))

	require.Len(t, sink.alerts, 1)
	assert.Equal(t, models.AlertFuel, sink.alerts[0].typ)
	assert.Equal(t, "Vehicle MOTO_001 has low fuel! (10%)", sink.alerts[0].message)
}

func TestLowFuelThresholdIsExclusive(t *testing.T) {
	sink := &recordSink{}
	e := NewThresholdEvaluator(NewRegistry(), sink)

	e.Evaluate(context.Background(), sample(0, 15, 1000))
	assert.Empty(t, sink.alerts)
}

func TestLowFuelCooldownLongerThanSpeed(t *testing.T) {
	sink := &recordSink{}
	e := NewThresholdEvaluator(NewRegistry(), sink)

	e.Evaluate(context.Background(), sample(0, 10, 1000))
	e.Evaluate(context.Background(), sample(0, 10, 61_000))
	require.Len(t, sink.alerts, 1, "fuel repeats within five minutes must be suppressed")

	e.Evaluate(context.Background(), sample(0, 10, 301_000))
	assert.Len(t, sink.alerts, 2)
}

func TestSpeedAndFuelFireTogether(t *testing.T) {
	sink := &recordSink{}
	e := NewThresholdEvaluator(NewRegistry(), sink)

	e.Evaluate(context.Background(), sample(95, 10, 1000))

	require.Len(t, sink.alerts, 2)
	assert.Equal(t, models.AlertSpeed, sink.alerts[0].typ)
	assert.Equal(t, models.AlertFuel, sink.alerts[1].typ)
}
