package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EvoScope/internal/geometry"
)

func stateAt(x, y float64) ObjectState {
	return ObjectState{
		Kind:     KindOrganism,
		Shape:    geometry.RegularPolygon(3, 10),
		Location: geometry.Point{X: x, Y: y},
	}
}

func TestDiffNilPrevCreatesEverything(t *testing.T) {
	cur := &Snapshot{Tick: 1, Objects: map[ObjectID]ObjectState{
		3: stateAt(1, 1),
		1: stateAt(2, 2),
	}}

	cs := Diff(nil, cur)

	require.Len(t, cs.Created, 2)
	assert.Empty(t, cs.Updated)
	assert.Empty(t, cs.Removed)
	assert.Equal(t, ObjectID(1), cs.Created[0].ID)
	assert.Equal(t, ObjectID(3), cs.Created[1].ID)
}

func TestDiffClassifiesChanges(t *testing.T) {
	prev := &Snapshot{Tick: 4, Objects: map[ObjectID]ObjectState{
		1: stateAt(0, 0),
		2: stateAt(5, 5),
		3: stateAt(9, 9),
	}}
	cur := &Snapshot{Tick: 5, Objects: map[ObjectID]ObjectState{
		1: stateAt(0, 0), // untouched
		2: stateAt(6, 5), // moved
		4: stateAt(7, 7), // new
	}}

	cs := Diff(prev, cur)

	require.Len(t, cs.Created, 1)
	assert.Equal(t, ObjectID(4), cs.Created[0].ID)
	require.Len(t, cs.Updated, 1)
	assert.Equal(t, ObjectID(2), cs.Updated[0].ID)
	assert.Equal(t, cur.Objects[2], cs.Updated[0].State)
	require.Len(t, cs.Removed, 1)
	assert.Equal(t, ObjectID(3), cs.Removed[0])
}

func TestDiffIdenticalSnapshotsIsEmpty(t *testing.T) {
	snap := &Snapshot{Tick: 2, Objects: map[ObjectID]ObjectState{
		1: stateAt(0, 0),
		2: stateAt(5, 5),
	}}

	cs := Diff(snap, snap)
	assert.True(t, cs.Empty())
}

func TestDiffListsAreDisjointAndSorted(t *testing.T) {
	prev := &Snapshot{Tick: 0, Objects: map[ObjectID]ObjectState{}}
	cur := &Snapshot{Tick: 1, Objects: map[ObjectID]ObjectState{}}
	for id := ObjectID(1); id <= 40; id++ {
		switch {
		case id%3 == 0:
			prev.Objects[id] = stateAt(float64(id), 0) // will be removed
		case id%3 == 1:
			cur.Objects[id] = stateAt(float64(id), 0) // will be created
		default:
			prev.Objects[id] = stateAt(float64(id), 0)
			cur.Objects[id] = stateAt(float64(id), 1) // will be updated
		}
	}

	cs := Diff(prev, cur)

	seen := map[ObjectID]int{}
	for _, e := range cs.Created {
		seen[e.ID]++
	}
	for _, e := range cs.Updated {
		seen[e.ID]++
	}
	for _, id := range cs.Removed {
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %d appears in %d lists", id, n)
	}

	for i := 1; i < len(cs.Created); i++ {
		assert.Less(t, cs.Created[i-1].ID, cs.Created[i].ID)
	}
	for i := 1; i < len(cs.Updated); i++ {
		assert.Less(t, cs.Updated[i-1].ID, cs.Updated[i].ID)
	}
	for i := 1; i < len(cs.Removed); i++ {
		assert.Less(t, cs.Removed[i-1], cs.Removed[i])
	}
}

func TestDiffEncodesByteStable(t *testing.T) {
	prev := &Snapshot{Tick: 7, Objects: map[ObjectID]ObjectState{
		1: stateAt(0, 0), 2: stateAt(1, 1), 3: stateAt(2, 2), 4: stateAt(3, 3),
	}}
	cur := &Snapshot{Tick: 8, Objects: map[ObjectID]ObjectState{
		2: stateAt(1, 2), 3: stateAt(2, 2), 5: stateAt(4, 4), 6: stateAt(5, 5),
	}}

	codec := MsgpackCodec{}
	first, err := codec.EncodeFrame(DeltaFrame(cur.Tick, Diff(prev, cur)))
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := codec.EncodeFrame(DeltaFrame(cur.Tick, Diff(prev, cur)))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWorldFrameSortsEntries(t *testing.T) {
	snap := &Snapshot{Tick: 3, Objects: map[ObjectID]ObjectState{
		9: stateAt(0, 0), 1: stateAt(1, 1), 5: stateAt(2, 2),
	}}

	f := WorldFrame(snap)

	require.Len(t, f.Objects, 3)
	assert.Equal(t, ObjectID(1), f.Objects[0].ID)
	assert.Equal(t, ObjectID(5), f.Objects[1].ID)
	assert.Equal(t, ObjectID(9), f.Objects[2].ID)
	assert.Equal(t, uint64(3), f.Tick)
}
