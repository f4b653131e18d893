package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/safeboxlab/safebox/internal/models"
)

// ErrDecode marks an inbound payload that could not be parsed. The
// caller drops the message and logs; a bad payload never stops the
// pipeline.
var ErrDecode = errors.New("telemetry decode failed")

// Default values applied to missing payload fields. Partial sensor
// data is common and must not fail the whole message.
const (
	DefaultBatteryPct = 100
	DefaultFuelPct    = 100
)

// StatusPayload is the raw inbound status message. Pointer fields keep
// "absent" distinct from zero so default application is explicit.
type StatusPayload struct {
	DeviceID  string   `json:"deviceId"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Speed     *float64 `json:"speed"`
	Battery   *float64 `json:"battery"`
	Fuel      *float64 `json:"fuel"`
	Timestamp *int64   `json:"timestamp"`
}

// Sample fills in defaults and produces a complete sample. now (epoch
// ms) is the ingestion time, used when the payload has no timestamp.
func (p *StatusPayload) Sample(now int64) *models.Sample {
	s := &models.Sample{
		DeviceID:  p.DeviceID,
		Battery:   DefaultBatteryPct,
		Fuel:      DefaultFuelPct,
		Timestamp: now,
	}
	if p.Lat != nil {
		s.Lat = *p.Lat
	}
	if p.Lng != nil {
		s.Lng = *p.Lng
	}
	if p.Speed != nil {
		s.Speed = *p.Speed
	}
	if p.Battery != nil {
		s.Battery = int(math.Round(*p.Battery))
	}
	if p.Fuel != nil {
		s.Fuel = int(math.Round(*p.Fuel))
	}
	if p.Timestamp != nil {
		s.Timestamp = *p.Timestamp
	}
	return s
}

// DecodeStatus parses one raw status message. The device id is taken
// verbatim from the payload; unknown ids are tolerated here and simply
// find nothing downstream.
func DecodeStatus(payload []byte, now int64) (*models.Sample, error) {
	var raw StatusPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw.DeviceID == "" {
		return nil, fmt.Errorf("%w: missing deviceId", ErrDecode)
	}
	return raw.Sample(now), nil
}
