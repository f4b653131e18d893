package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneTrackerStartsInside(t *testing.T) {
	tr := NewZoneTracker(nil)
	assert.Equal(t, StateInside, tr.Current("MOTO_001", 1))
}

func TestZoneTrackerExitIsTransition(t *testing.T) {
	tr := NewZoneTracker(nil)

	assert.True(t, tr.Update("MOTO_001", 1, false))
	assert.Equal(t, StateOutside, tr.Current("MOTO_001", 1))

	// Staying outside is not a transition.
	assert.False(t, tr.Update("MOTO_001", 1, false))
}

func TestZoneTrackerRoundTrip(t *testing.T) {
	tr := NewZoneTracker(nil)

	assert.True(t, tr.Update("MOTO_001", 1, false))
	assert.True(t, tr.Update("MOTO_001", 1, true))
	assert.Equal(t, StateInside, tr.Current("MOTO_001", 1))
}

func TestZoneTrackerPairsAreIndependent(t *testing.T) {
	tr := NewZoneTracker(nil)

	assert.True(t, tr.Update("MOTO_001", 1, false))
	assert.Equal(t, StateInside, tr.Current("MOTO_001", 2))
	assert.Equal(t, StateInside, tr.Current("MOTO_002", 1))
}

func TestZoneTrackerOnChange(t *testing.T) {
	type change struct {
		vehicleID string
		zoneID    int64
		from, to  string
	}
	var changes []change

	tr := NewZoneTracker(func(vehicleID string, zoneID int64, from, to string) {
		changes = append(changes, change{vehicleID, zoneID, from, to})
	})

	tr.Update("MOTO_001", 1, false)
	tr.Update("MOTO_001", 1, false)
	tr.Update("MOTO_001", 1, true)

	require.Len(t, changes, 2)
	assert.Equal(t, change{"MOTO_001", 1, StateInside, StateOutside}, changes[0])
	assert.Equal(t, change{"MOTO_001", 1, StateOutside, StateInside}, changes[1])
}

func TestZoneTrackerForget(t *testing.T) {
	tr := NewZoneTracker(nil)

	tr.Update("MOTO_001", 1, false)
	tr.Update("MOTO_002", 1, false)
	tr.Forget("MOTO_001")

	assert.Equal(t, StateInside, tr.Current("MOTO_001", 1))
	assert.Equal(t, StateOutside, tr.Current("MOTO_002", 1))
}
