package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatusFullPayload(t *testing.T) {
	payload := []byte(`{"deviceId":"MOTO_001","lat":48.8566,"lng":2.3522,"speed":42.5,"battery":87,"fuel":63,"timestamp":1700000000000}`)

	s, err := DecodeStatus(payload, 9999)
	require.NoError(t, err)

	assert.Equal(t, "MOTO_001", s.DeviceID)
	assert.Equal(t, 48.8566, s.Lat)
	assert.Equal(t, 2.3522, s.Lng)
	assert.Equal(t, 42.5, s.Speed)
	assert.Equal(t, 87, s.Battery)
	assert.Equal(t, 63, s.Fuel)
	assert.Equal(t, int64(1700000000000), s.Timestamp)
}

func TestDecodeStatusDefaults(t *testing.T) {
	s, err := DecodeStatus([]byte(`{"deviceId":"MOTO_001"}`), 5000)
	require.NoError(t, err)

	assert.Zero(t, s.Lat)
	assert.Zero(t, s.Lng)
	assert.Zero(t, s.Speed)
	assert.Equal(t, DefaultBatteryPct, s.Battery)
	assert.Equal(t, DefaultFuelPct, s.Fuel)
	assert.Equal(t, int64(5000), s.Timestamp, "missing timestamp takes ingestion time")
	assert.False(t, s.HasPosition())
}

func TestDecodeStatusRoundsLevels(t *testing.T) {
	s, err := DecodeStatus([]byte(`{"deviceId":"MOTO_001","battery":79.6,"fuel":14.4}`), 0)
	require.NoError(t, err)

	assert.Equal(t, 80, s.Battery)
	assert.Equal(t, 14, s.Fuel)
}

func TestDecodeStatusExplicitZeroLevels(t *testing.T) {
	// An explicit 0 is real data, not an absent field.
	s, err := DecodeStatus([]byte(`{"deviceId":"MOTO_001","battery":0,"fuel":0}`), 0)
	require.NoError(t, err)

	assert.Zero(t, s.Battery)
	assert.Zero(t, s.Fuel)
}

func TestDecodeStatusMalformed(t *testing.T) {
	_, err := DecodeStatus([]byte(`{not json`), 0)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeStatusMissingDeviceID(t *testing.T) {
	_, err := DecodeStatus([]byte(`{"speed":50}`), 0)
	assert.ErrorIs(t, err, ErrDecode)
}
