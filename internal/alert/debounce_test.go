package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldFireFirstOccurrence(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1000, time.Minute))
}

func TestShouldFireSuppressesWithinCooldown(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1000, time.Minute))
	assert.False(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1000+59_999, time.Minute))
}

func TestShouldFireAtExactCooldown(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1000, time.Minute))
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1000+60_000, time.Minute))
}

func TestShouldFireIndependentConditions(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1000, time.Minute))
	// A different condition on the same device has its own clock.
	assert.True(t, r.ShouldFire("MOTO_001", ConditionFuel, 1000, time.Minute))
	// Same condition on a different device too.
	assert.True(t, r.ShouldFire("MOTO_002", ConditionSpeed, 1000, time.Minute))
}

func TestClearResetsCooldown(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1000, time.Minute))
	r.Clear("MOTO_001", ConditionSpeed)
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1001, time.Minute))
}

func TestSuccessfulFireRecordsTime(t *testing.T) {
	r := NewRegistry()
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 1000, time.Minute))
	assert.True(t, r.ShouldFire("MOTO_001", ConditionSpeed, 61_000, time.Minute))
	// The second fire restarted the clock.
	assert.False(t, r.ShouldFire("MOTO_001", ConditionSpeed, 62_000, time.Minute))
}
