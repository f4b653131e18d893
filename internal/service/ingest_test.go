package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/models"
	"github.com/safeboxlab/safebox/internal/repository"
)

type fakeStateStore struct {
	err     error
	samples []*models.Sample
	seenAt  int64
}

func (f *fakeStateStore) UpdateTelemetry(_ context.Context, sample *models.Sample, seenAt int64) error {
	f.samples = append(f.samples, sample)
	f.seenAt = seenAt
	return f.err
}

type fakeHistoryStore struct {
	err     error
	records []*models.HistorySample
}

func (f *fakeHistoryStore) Append(_ context.Context, s *models.HistorySample) error {
	f.records = append(f.records, s)
	return f.err
}

type fakeBroadcaster struct {
	events []models.DeviceData
}

func (f *fakeBroadcaster) BroadcastDeviceData(data models.DeviceData) {
	f.events = append(f.events, data)
}

type fakeEvaluator struct {
	samples []*models.Sample
}

func (f *fakeEvaluator) Evaluate(_ context.Context, sample *models.Sample) {
	f.samples = append(f.samples, sample)
}

func newIngestFixture(stateErr error) (*IngestService, *fakeStateStore, *fakeHistoryStore, *fakeEvaluator, *fakeBroadcaster) {
	state := &fakeStateStore{err: stateErr}
	history := &fakeHistoryStore{}
	eval := &fakeEvaluator{}
	hub := &fakeBroadcaster{}

	svc := NewIngestService(zap.NewNop(), state, history, hub, eval)
	svc.nowMillis = func() int64 { return 42_000 }
	return svc, state, history, eval, hub
}

func TestHandleStatusPipeline(t *testing.T) {
	svc, state, history, eval, hub := newIngestFixture(nil)

	svc.HandleStatus(context.Background(), "/device/MOTO_001/status",
		[]byte(`{"deviceId":"MOTO_001","lat":1,"lng":2,"speed":50,"battery":80,"fuel":70,"timestamp":1000}`))

	require.Len(t, state.samples, 1)
	assert.Equal(t, int64(42_000), state.seenAt, "last-seen is ingestion time, not the device timestamp")

	require.Len(t, history.records, 1)
	record := history.records[0]
	assert.Equal(t, "MOTO_001", record.VehicleID)
	assert.Equal(t, int64(1000), record.Timestamp)
	assert.Equal(t, 50.0, record.Speed)
	assert.Equal(t, 80, record.BatteryLevel)
	assert.Equal(t, 70, record.FuelLevel)

	require.Len(t, eval.samples, 1)

	require.Len(t, hub.events, 1)
	assert.Equal(t, "/device/MOTO_001/status", hub.events[0].Topic)
	assert.Equal(t, "MOTO_001", hub.events[0].Payload.DeviceID)
}

func TestHandleStatusUnknownDevice(t *testing.T) {
	svc, _, history, eval, hub := newIngestFixture(repository.ErrNotFound)

	svc.HandleStatus(context.Background(), "/device/MOTO_999/status",
		[]byte(`{"deviceId":"MOTO_999","speed":95,"timestamp":1000}`))

	// No state, no history, but alerts and the live feed still see it.
	assert.Empty(t, history.records)
	assert.Len(t, eval.samples, 1)
	assert.Len(t, hub.events, 1)
}

func TestHandleStatusStateErrorSkipsHistory(t *testing.T) {
	svc, _, history, eval, hub := newIngestFixture(errors.New("db down"))

	svc.HandleStatus(context.Background(), "/device/MOTO_001/status",
		[]byte(`{"deviceId":"MOTO_001","timestamp":1000}`))

	assert.Empty(t, history.records)
	assert.Len(t, eval.samples, 1)
	assert.Len(t, hub.events, 1)
}

func TestHandleStatusDropsUndecodable(t *testing.T) {
	svc, state, history, eval, hub := newIngestFixture(nil)

	svc.HandleStatus(context.Background(), "/device/MOTO_001/status", []byte(`{broken`))
	svc.HandleStatus(context.Background(), "/device/MOTO_001/status", []byte(`{"speed":50}`))

	assert.Empty(t, state.samples)
	assert.Empty(t, history.records)
	assert.Empty(t, eval.samples)
	assert.Empty(t, hub.events)
}

func TestHandleStatusHistoryErrorStillBroadcasts(t *testing.T) {
	svc, _, history, eval, hub := newIngestFixture(nil)
	history.err = errors.New("disk full")

	svc.HandleStatus(context.Background(), "/device/MOTO_001/status",
		[]byte(`{"deviceId":"MOTO_001","timestamp":1000}`))

	assert.Len(t, eval.samples, 1)
	assert.Len(t, hub.events, 1)
}
