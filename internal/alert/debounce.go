package alert

import (
	"sync"
	"time"
)

// Alert policy. Fixed constants, not per-device configuration.
const (
	SpeedLimitKph = 90.0
	LowFuelPct    = 15

	SpeedCooldown    = time.Minute
	FuelCooldown     = 5 * time.Minute
	GeofenceCooldown = time.Minute
)

// Condition keys. Each key has an independent cooldown clock per
// device; geofence conditions are keyed per zone via GeofenceCondition.
const (
	ConditionSpeed = "SPEED"
	ConditionFuel  = "FUEL"
)

type debounceKey struct {
	deviceID  string
	condition string
}

// Registry maps (device, condition) to the last time an alert fired,
// so evaluators can throttle repeating conditions. State lives for the
// process lifetime only and is safe for concurrent use.
type Registry struct {
	mu   sync.Mutex
	last map[debounceKey]int64
}

func NewRegistry() *Registry {
	return &Registry{last: make(map[debounceKey]int64)}
}

// ShouldFire reports whether an alert for the condition may fire at
// now (epoch ms). When it returns true, now is recorded as the last
// fire time as a side effect.
func (r *Registry) ShouldFire(deviceID, condition string, now int64, cooldown time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := debounceKey{deviceID: deviceID, condition: condition}
	last, ok := r.last[key]
	if ok && now-last < cooldown.Milliseconds() {
		return false
	}

	r.last[key] = now
	return true
}

// Clear forgets the condition's cooldown so the next occurrence fires
// immediately. Used when a geofence condition recovers: "re-entered
// then left again" is a fresh event, not a repeat.
func (r *Registry) Clear(deviceID, condition string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.last, debounceKey{deviceID: deviceID, condition: condition})
}
