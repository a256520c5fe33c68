// Package sim is the snapshot producer: a fixed-tick ecosystem of wandering
// organisms, stochastically spreading plants, and static water and terrain.
// The streaming layer consumes it only through Tick and TickInterval.
package sim

import (
	"math/rand"
	"sort"
	"sync"

	"EvoScope/internal/geometry"
	"EvoScope/internal/protocol"
)

// Behavior advances one object by a single tick. Implementations receive the
// object's current state and return the next one; they may queue spawns and
// removals on the world but must not touch other objects directly.
type Behavior interface {
	Step(w *World, id protocol.ObjectID, state protocol.ObjectState) protocol.ObjectState
}

type object struct {
	state    protocol.ObjectState
	behavior Behavior // nil for static scenery
}

type pendingSpawn struct {
	state    protocol.ObjectState
	behavior Behavior
}

// World owns the authoritative object table. All mutation happens inside
// Tick under the world's mutex; snapshots handed out are deep copies.
type World struct {
	mu      sync.Mutex
	tick    uint64
	nextID  protocol.ObjectID
	objects map[protocol.ObjectID]*object
	rng     *rand.Rand

	spawns  []pendingSpawn
	removes []protocol.ObjectID

	Width  float64
	Height float64
}

func NewWorld(seed int64) *World {
	return &World{
		nextID:  1,
		objects: map[protocol.ObjectID]*object{},
		rng:     rand.New(rand.NewSource(seed)),
		Width:   WorldW,
		Height:  WorldH,
	}
}

// Add inserts an object and returns its id. Safe to call before the tick
// loop starts; during a tick, behaviors must use QueueSpawn instead.
func (w *World) Add(state protocol.ObjectState, behavior Behavior) protocol.ObjectID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.addLocked(state, behavior)
}

func (w *World) addLocked(state protocol.ObjectState, behavior Behavior) protocol.ObjectID {
	id := w.nextID
	w.nextID++
	w.objects[id] = &object{state: state, behavior: behavior}
	return id
}

// QueueSpawn registers a new object to be added at the end of the current
// tick, so a behavior never mutates the table it is being iterated from.
func (w *World) QueueSpawn(state protocol.ObjectState, behavior Behavior) {
	w.spawns = append(w.spawns, pendingSpawn{state: state, behavior: behavior})
}

// QueueRemove registers an object for removal at the end of the current tick.
func (w *World) QueueRemove(id protocol.ObjectID) {
	w.removes = append(w.removes, id)
}

// Count returns the number of live objects of the given kind.
func (w *World) Count(kind protocol.Kind) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, obj := range w.objects {
		if obj.state.Kind == kind {
			n++
		}
	}
	return n
}

// Tick advances every behavior by Dt and returns the resulting snapshot.
// Objects are stepped in id order so a seeded world is fully deterministic.
func (w *World) Tick() *protocol.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]protocol.ObjectID, 0, len(w.objects))
	for id := range w.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		obj := w.objects[id]
		if obj.behavior == nil {
			continue
		}
		obj.state = obj.behavior.Step(w, id, obj.state)
	}

	for _, id := range w.removes {
		delete(w.objects, id)
	}
	w.removes = w.removes[:0]
	for _, s := range w.spawns {
		w.addLocked(s.state, s.behavior)
	}
	w.spawns = w.spawns[:0]

	w.tick++
	return w.snapshotLocked()
}

// Snapshot returns the current state without advancing the world.
func (w *World) Snapshot() *protocol.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *World) snapshotLocked() *protocol.Snapshot {
	objects := make(map[protocol.ObjectID]protocol.ObjectState, len(w.objects))
	for id, obj := range w.objects {
		objects[id] = obj.state
	}
	return &protocol.Snapshot{Tick: w.tick, Objects: objects}
}

// neighborWithin reports whether any object of the given kind other than
// skip sits closer than dist to loc. Used to throttle plant spreading.
func (w *World) neighborWithin(kind protocol.Kind, loc geometry.Point, dist float64, skip protocol.ObjectID) bool {
	for id, obj := range w.objects {
		if id == skip || obj.state.Kind != kind {
			continue
		}
		if obj.state.Location.Dist(loc) < dist {
			return true
		}
	}
	return false
}
