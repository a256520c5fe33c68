// Package observer is the client half of the stream: it mirrors the server's
// world from decoded frames and redraws the mirror onto a surface at the
// simulation's own cadence, independent of frame arrival.
package observer

import (
	"fmt"
	"sort"

	"EvoScope/internal/protocol"
)

// StateMirror is the local reconstruction of server state. It starts empty,
// is primed by exactly one world frame, and then advances one delta frame at
// a time. After every successful Apply it equals the server's snapshot at
// Tick().
//
// A mirror has a single owner: the Viewer serializes frame application and
// rendering against it, so it carries no lock of its own.
type StateMirror struct {
	objects map[protocol.ObjectID]protocol.ObjectState
	tick    uint64
	primed  bool
}

func NewStateMirror() *StateMirror {
	return &StateMirror{objects: map[protocol.ObjectID]protocol.ObjectState{}}
}

func (m *StateMirror) Tick() uint64 { return m.tick }

// Primed reports whether a world frame has been applied yet.
func (m *StateMirror) Primed() bool { return m.primed }

func (m *StateMirror) Len() int { return len(m.objects) }

// Apply mutates the mirror with one decoded frame. Any returned error is
// unrecoverable for the connection that produced the frame: the mirror may
// be partially mutated and its consistency guarantee only comes back with a
// fresh world frame, so callers must tear the transport down.
func (m *StateMirror) Apply(f *protocol.Frame) error {
	switch f.Kind {
	case protocol.FrameWorld:
		objects := make(map[protocol.ObjectID]protocol.ObjectState, len(f.Objects))
		for _, entry := range f.Objects {
			objects[entry.ID] = entry.State
		}
		m.objects = objects
		m.tick = f.Tick
		m.primed = true
		return nil

	case protocol.FrameDelta:
		if !m.primed {
			return protocol.ErrEmptyMirror
		}
		if f.Tick != m.tick+1 {
			return fmt.Errorf("%w: mirror at tick %d, frame claims %d", protocol.ErrTickGap, m.tick, f.Tick)
		}
		for _, entry := range f.Changes.Created {
			if _, ok := m.objects[entry.ID]; ok {
				return fmt.Errorf("%w: id %d", protocol.ErrDuplicateObject, entry.ID)
			}
			m.objects[entry.ID] = entry.State
		}
		for _, entry := range f.Changes.Updated {
			if _, ok := m.objects[entry.ID]; !ok {
				return fmt.Errorf("%w: updated id %d", protocol.ErrUnknownObject, entry.ID)
			}
			m.objects[entry.ID] = entry.State
		}
		for _, id := range f.Changes.Removed {
			if _, ok := m.objects[id]; !ok {
				return fmt.Errorf("%w: removed id %d", protocol.ErrUnknownObject, id)
			}
			delete(m.objects, id)
		}
		m.tick = f.Tick
		return nil

	default:
		return fmt.Errorf("%w: %s", protocol.ErrUnexpectedFrame, f.Kind)
	}
}

// Entries returns a copy of the mirrored objects sorted by id.
func (m *StateMirror) Entries() []protocol.ObjectEntry {
	entries := make([]protocol.ObjectEntry, 0, len(m.objects))
	for id, state := range m.objects {
		entries = append(entries, protocol.ObjectEntry{ID: id, State: state})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Snapshot exposes the mirror as a protocol snapshot, mainly for tests that
// compare it against the server side.
func (m *StateMirror) Snapshot() *protocol.Snapshot {
	objects := make(map[protocol.ObjectID]protocol.ObjectState, len(m.objects))
	for id, state := range m.objects {
		objects[id] = state
	}
	return &protocol.Snapshot{Tick: m.tick, Objects: objects}
}
