package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceIdenticalPoints(t *testing.T) {
	assert.Zero(t, Distance(48.8566, 2.3522, 48.8566, 2.3522))
}

func TestDistanceSymmetric(t *testing.T) {
	a := Distance(48.8566, 2.3522, 51.5074, -0.1278)
	b := Distance(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, a, b, 1e-6)
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is roughly 111.2 km everywhere.
	d := Distance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 200)
}

func TestDistanceShortRange(t *testing.T) {
	// 0.001 degrees of latitude is roughly 111 m, the scale geofence
	// radii operate at.
	d := Distance(48.8566, 2.3522, 48.8576, 2.3522)
	assert.InDelta(t, 111.2, d, 1)
}
