package state

import (
	"context"
	"sync"

	"github.com/looplab/fsm"
)

// Zone containment states.
const (
	StateInside  = "inside"
	StateOutside = "outside"
)

// Transition events.
const (
	EventExit  = "exit"
	EventEnter = "enter"
)

type zoneKey struct {
	vehicleID string
	zoneID    int64
}

// ZoneTracker keeps an inside/outside state machine per
// (vehicle, geofence) pair so the evaluator can distinguish a fresh
// breach or re-entry from a condition that is merely persisting.
// Vehicles start inside: the first observation outside a zone is a
// transition.
type ZoneTracker struct {
	mu       sync.Mutex
	machines map[zoneKey]*fsm.FSM
	onChange func(vehicleID string, zoneID int64, from, to string)
}

// NewZoneTracker creates a tracker. onChange is invoked for every
// state transition and may be nil.
func NewZoneTracker(onChange func(vehicleID string, zoneID int64, from, to string)) *ZoneTracker {
	return &ZoneTracker{
		machines: make(map[zoneKey]*fsm.FSM),
		onChange: onChange,
	}
}

// Update feeds one containment observation into the machine for the
// pair and reports whether it caused a transition.
func (t *ZoneTracker) Update(vehicleID string, zoneID int64, inside bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := zoneKey{vehicleID: vehicleID, zoneID: zoneID}
	m, ok := t.machines[key]
	if !ok {
		m = t.newMachine(vehicleID, zoneID)
		t.machines[key] = m
	}

	event := EventExit
	if inside {
		event = EventEnter
	}
	if !m.Can(event) {
		// Already in the observed state.
		return false
	}

	// Transitions between two known states cannot fail here.
	_ = m.Event(context.Background(), event)
	return true
}

// Current returns the tracked state for the pair, defaulting to inside
// for pairs that have never been observed.
func (t *ZoneTracker) Current(vehicleID string, zoneID int64) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if m, ok := t.machines[zoneKey{vehicleID: vehicleID, zoneID: zoneID}]; ok {
		return m.Current()
	}
	return StateInside
}

// Forget drops the machines for a vehicle, used when it is removed.
func (t *ZoneTracker) Forget(vehicleID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key := range t.machines {
		if key.vehicleID == vehicleID {
			delete(t.machines, key)
		}
	}
}

func (t *ZoneTracker) newMachine(vehicleID string, zoneID int64) *fsm.FSM {
	return fsm.NewFSM(
		StateInside,
		fsm.Events{
			{Name: EventExit, Src: []string{StateInside}, Dst: StateOutside},
			{Name: EventEnter, Src: []string{StateOutside}, Dst: StateInside},
		},
		fsm.Callbacks{
			"after_event": func(_ context.Context, e *fsm.Event) {
				if t.onChange != nil && e.Src != e.Dst {
					t.onChange(vehicleID, zoneID, e.Src, e.Dst)
				}
			},
		},
	)
}
