package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/safeboxlab/safebox/internal/models"
	"github.com/safeboxlab/safebox/internal/repository"
)

type vehicleStateStore interface {
	UpdateTelemetry(ctx context.Context, sample *models.Sample, seenAt int64) error
}

type historyStore interface {
	Append(ctx context.Context, s *models.HistorySample) error
}

// Evaluator is an alert check run against every ingested sample.
type Evaluator interface {
	Evaluate(ctx context.Context, sample *models.Sample)
}

type deviceDataBroadcaster interface {
	BroadcastDeviceData(data models.DeviceData)
}

// IngestService runs the per-message pipeline: decode, state update,
// history append, alert evaluation, broadcast. Messages for the same
// device are serialized by a per-device lock; messages for different
// devices run concurrently.
type IngestService struct {
	logger     *zap.Logger
	vehicles   vehicleStateStore
	history    historyStore
	evaluators []Evaluator
	hub        deviceDataBroadcaster

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// test seam, defaults to wall clock
	nowMillis func() int64
}

func NewIngestService(
	logger *zap.Logger,
	vehicles vehicleStateStore,
	history historyStore,
	hub deviceDataBroadcaster,
	evaluators ...Evaluator,
) *IngestService {
	return &IngestService{
		logger:     logger,
		vehicles:   vehicles,
		history:    history,
		evaluators: evaluators,
		hub:        hub,
		locks:      make(map[string]*sync.Mutex),
		nowMillis:  func() int64 { return time.Now().UnixMilli() },
	}
}

// HandleStatus ingests one raw status message. No failure in here is
// fatal: a malformed or partially failing message never stops
// ingestion of subsequent messages.
func (s *IngestService) HandleStatus(ctx context.Context, topic string, payload []byte) {
	now := s.nowMillis()
	sample, err := DecodeStatus(payload, now)
	if err != nil {
		s.logger.Warn("Dropping undecodable telemetry",
			zap.Error(err),
			zap.String("topic", topic),
		)
		return
	}

	lock := s.deviceLock(sample.DeviceID)
	lock.Lock()
	defer lock.Unlock()

	// History is only appended once the state write has landed, so a
	// failing row never diverges from the series built on top of it.
	recorded := false
	if err := s.vehicles.UpdateTelemetry(ctx, sample, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Registration is a prerequisite; telemetry never
			// creates vehicles.
			s.logger.Debug("Telemetry for unregistered device",
				zap.String("device_id", sample.DeviceID),
			)
		} else {
			s.logger.Error("Failed to update vehicle state",
				zap.Error(err),
				zap.String("device_id", sample.DeviceID),
			)
		}
	} else {
		recorded = true
	}

	if recorded {
		record := &models.HistorySample{
			VehicleID:    sample.DeviceID,
			Timestamp:    sample.Timestamp,
			Speed:        sample.Speed,
			BatteryLevel: sample.Battery,
			FuelLevel:    sample.Fuel,
			Lat:          sample.Lat,
			Lng:          sample.Lng,
		}
		if err := s.history.Append(ctx, record); err != nil {
			s.logger.Error("Failed to append history sample",
				zap.Error(err),
				zap.String("device_id", sample.DeviceID),
			)
		}
	}

	for _, evaluator := range s.evaluators {
		evaluator.Evaluate(ctx, sample)
	}

	s.hub.BroadcastDeviceData(models.DeviceData{Topic: topic, Payload: sample})
}

func (s *IngestService) deviceLock(deviceID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[deviceID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[deviceID] = lock
	}
	return lock
}
