package observer

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EvoScope/internal/geometry"
	"EvoScope/internal/protocol"
)

func stateAt(x, y float64) protocol.ObjectState {
	return protocol.ObjectState{
		Kind:     protocol.KindOrganism,
		Shape:    geometry.RegularPolygon(3, 10),
		Location: geometry.Point{X: x, Y: y},
	}
}

func worldFrame(tick uint64, objects map[protocol.ObjectID]protocol.ObjectState) *protocol.Frame {
	return protocol.WorldFrame(&protocol.Snapshot{Tick: tick, Objects: objects})
}

func TestMirrorWorldThenDelta(t *testing.T) {
	m := NewStateMirror()
	require.False(t, m.Primed())

	a, b := stateAt(0, 0), stateAt(5, 5)
	require.NoError(t, m.Apply(worldFrame(10, map[protocol.ObjectID]protocol.ObjectState{1: a, 2: b})))
	assert.True(t, m.Primed())
	assert.Equal(t, uint64(10), m.Tick())
	assert.Equal(t, 2, m.Len())

	moved := stateAt(1, 0)
	delta := protocol.DeltaFrame(11, protocol.ChangeSet{
		Updated: []protocol.ObjectEntry{{ID: 1, State: moved}},
		Removed: []protocol.ObjectID{2},
	})
	require.NoError(t, m.Apply(delta))

	assert.Equal(t, uint64(11), m.Tick())
	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, protocol.ObjectID(1), entries[0].ID)
	assert.True(t, moved.Equal(entries[0].State))
}

func TestMirrorEmptyDeltaAdvancesTick(t *testing.T) {
	m := NewStateMirror()
	require.NoError(t, m.Apply(worldFrame(3, nil)))
	require.NoError(t, m.Apply(protocol.DeltaFrame(4, protocol.ChangeSet{})))
	assert.Equal(t, uint64(4), m.Tick())
	assert.Equal(t, 0, m.Len())
}

func TestMirrorDeltaBeforeWorldFails(t *testing.T) {
	m := NewStateMirror()
	err := m.Apply(protocol.DeltaFrame(1, protocol.ChangeSet{}))
	assert.ErrorIs(t, err, protocol.ErrEmptyMirror)
}

func TestMirrorRejectsTickGap(t *testing.T) {
	m := NewStateMirror()
	require.NoError(t, m.Apply(worldFrame(5, nil)))

	err := m.Apply(protocol.DeltaFrame(7, protocol.ChangeSet{}))
	assert.ErrorIs(t, err, protocol.ErrTickGap)

	// Replays of an already-applied tick are gaps too.
	err = m.Apply(protocol.DeltaFrame(5, protocol.ChangeSet{}))
	assert.ErrorIs(t, err, protocol.ErrTickGap)
}

func TestMirrorRejectsDuplicateCreate(t *testing.T) {
	m := NewStateMirror()
	require.NoError(t, m.Apply(worldFrame(0, map[protocol.ObjectID]protocol.ObjectState{1: stateAt(0, 0)})))

	create := protocol.ChangeSet{Created: []protocol.ObjectEntry{{ID: 2, State: stateAt(1, 1)}}}
	require.NoError(t, m.Apply(protocol.DeltaFrame(1, create)))

	err := m.Apply(protocol.DeltaFrame(2, protocol.ChangeSet{
		Created: []protocol.ObjectEntry{{ID: 2, State: stateAt(2, 2)}},
	}))
	assert.ErrorIs(t, err, protocol.ErrDuplicateObject)
}

func TestMirrorRejectsUnknownUpdateAndRemove(t *testing.T) {
	m := NewStateMirror()
	require.NoError(t, m.Apply(worldFrame(0, map[protocol.ObjectID]protocol.ObjectState{1: stateAt(0, 0)})))

	err := m.Apply(protocol.DeltaFrame(1, protocol.ChangeSet{
		Updated: []protocol.ObjectEntry{{ID: 9, State: stateAt(1, 1)}},
	}))
	assert.ErrorIs(t, err, protocol.ErrUnknownObject)

	m2 := NewStateMirror()
	require.NoError(t, m2.Apply(worldFrame(0, map[protocol.ObjectID]protocol.ObjectState{1: stateAt(0, 0)})))
	err = m2.Apply(protocol.DeltaFrame(1, protocol.ChangeSet{Removed: []protocol.ObjectID{9}}))
	assert.ErrorIs(t, err, protocol.ErrUnknownObject)
}

func TestMirrorRejectsHelloFrame(t *testing.T) {
	m := NewStateMirror()
	err := m.Apply(protocol.HelloFrame())
	assert.ErrorIs(t, err, protocol.ErrUnexpectedFrame)
}

func TestMirrorSecondWorldFrameReplacesWholesale(t *testing.T) {
	m := NewStateMirror()
	require.NoError(t, m.Apply(worldFrame(3, map[protocol.ObjectID]protocol.ObjectState{1: stateAt(0, 0), 2: stateAt(1, 1)})))
	require.NoError(t, m.Apply(worldFrame(9, map[protocol.ObjectID]protocol.ObjectState{7: stateAt(2, 2)})))

	assert.Equal(t, uint64(9), m.Tick())
	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, protocol.ObjectID(7), entries[0].ID)
}

// Two mirrors fed the same frame sequence must end up identical, and both
// must equal the snapshot the server diffed toward.
func TestMirrorDiffApplyRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	randomSnapshot := func(tick uint64, prev *protocol.Snapshot) *protocol.Snapshot {
		objects := map[protocol.ObjectID]protocol.ObjectState{}
		if prev != nil {
			for id, s := range prev.Objects {
				if rng.Float64() < 0.1 {
					continue // removed
				}
				if rng.Float64() < 0.5 {
					s.Location.X += rng.Float64() // updated
				}
				objects[id] = s
			}
		}
		for i := 0; i < rng.Intn(4); i++ {
			objects[protocol.ObjectID(tick*100+uint64(i))] = stateAt(rng.Float64()*100, rng.Float64()*100)
		}
		return &protocol.Snapshot{Tick: tick, Objects: objects}
	}

	prev := randomSnapshot(0, nil)
	m1, m2 := NewStateMirror(), NewStateMirror()
	require.NoError(t, m1.Apply(protocol.WorldFrame(prev)))
	require.NoError(t, m2.Apply(protocol.WorldFrame(prev)))

	for tick := uint64(1); tick <= 50; tick++ {
		cur := randomSnapshot(tick, prev)
		frame := protocol.DeltaFrame(tick, protocol.Diff(prev, cur))
		require.NoError(t, m1.Apply(frame))
		require.NoError(t, m2.Apply(frame))
		prev = cur
	}

	assert.Equal(t, prev.Tick, m1.Tick())
	assert.Equal(t, m1.Entries(), m2.Entries())

	got := m1.Snapshot()
	require.Equal(t, len(prev.Objects), len(got.Objects))
	for id, want := range prev.Objects {
		have, ok := got.Objects[id]
		require.True(t, ok, "id %d missing from mirror", id)
		assert.True(t, want.Equal(have), "id %d diverged", id)
	}
}
