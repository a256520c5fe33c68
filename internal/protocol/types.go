// Package protocol defines the wire format shared by the simulation server
// and its observers: full-world snapshots, per-tick change-sets, and the
// frame envelope both ends agree on.
package protocol

import (
	"EvoScope/internal/geometry"
)

// ProtocolVersion is advertised by the client in its hello frame. The server
// refuses mismatched versions during the handshake.
const ProtocolVersion uint32 = 1

// ObjectID identifies one simulated entity for its whole lifetime. IDs are
// allocated monotonically and never reused within a session.
type ObjectID uint64

type Kind string

const (
	KindOrganism Kind = "organism"
	KindPlant    Kind = "plant"
	KindWater    Kind = "water"
	KindTerrain  Kind = "terrain"
)

// ObjectState is the full set of renderable attributes of one entity.
type ObjectState struct {
	Kind     Kind             `json:"kind"`
	Shape    geometry.Polygon `json:"shape"`
	Location geometry.Point   `json:"location"`
	Rotation float64          `json:"rotation"`
	Name     string           `json:"name,omitempty"`
	Energy   float64          `json:"energy,omitempty"`
}

// Equal compares two states structurally. The delta encoder relies on this
// being the only notion of "changed".
func (s ObjectState) Equal(o ObjectState) bool {
	return s.Kind == o.Kind &&
		s.Location == o.Location &&
		s.Rotation == o.Rotation &&
		s.Name == o.Name &&
		s.Energy == o.Energy &&
		s.Shape.Equal(o.Shape)
}

// Snapshot is the complete world state at one tick. It is immutable once
// produced by the simulation.
type Snapshot struct {
	Tick    uint64                   `json:"tick"`
	Objects map[ObjectID]ObjectState `json:"objects"`
}

// ObjectEntry pairs an id with a full state on the wire.
type ObjectEntry struct {
	ID    ObjectID    `json:"id"`
	State ObjectState `json:"state"`
}

// ChangeSet is the difference between two consecutive snapshots. An id
// appears in at most one of the three lists; each list is sorted by id so a
// given pair of snapshots always encodes to the same bytes.
type ChangeSet struct {
	Created []ObjectEntry `json:"created,omitempty"`
	Updated []ObjectEntry `json:"updated,omitempty"`
	Removed []ObjectID    `json:"removed,omitempty"`
}

func (c *ChangeSet) Empty() bool {
	return len(c.Created) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

type FrameKind uint8

const (
	// FrameHello is the client's explicit ready signal, sent once
	// immediately after the transport opens. The server sends nothing
	// before receiving it.
	FrameHello FrameKind = 1
	// FrameWorld carries a full snapshot. Sent exactly once per session,
	// as the first server frame.
	FrameWorld FrameKind = 2
	// FrameDelta carries the change-set from tick-1 to tick. Sent once per
	// simulation tick after the world frame, strictly in tick order.
	FrameDelta FrameKind = 3
)

func (k FrameKind) String() string {
	switch k {
	case FrameHello:
		return "hello"
	case FrameWorld:
		return "world"
	case FrameDelta:
		return "delta"
	default:
		return "unknown"
	}
}

// ClientHello is the payload of the handshake frame.
type ClientHello struct {
	Protocol uint32 `json:"protocol"`
}

// Frame is one wire message. Exactly one payload field is set, matching Kind.
type Frame struct {
	Kind    FrameKind     `json:"kind"`
	Tick    uint64        `json:"tick"`
	Hello   *ClientHello  `json:"hello,omitempty"`
	Objects []ObjectEntry `json:"objects,omitempty"`
	Changes *ChangeSet    `json:"changes,omitempty"`
}

// HelloFrame builds the client's ready signal.
func HelloFrame() *Frame {
	return &Frame{Kind: FrameHello, Hello: &ClientHello{Protocol: ProtocolVersion}}
}

// WorldFrame encodes a full snapshot, entries sorted by id.
func WorldFrame(snap *Snapshot) *Frame {
	return &Frame{Kind: FrameWorld, Tick: snap.Tick, Objects: sortedEntries(snap.Objects)}
}

// DeltaFrame wraps a change-set with the tick it produces.
func DeltaFrame(tick uint64, changes ChangeSet) *Frame {
	return &Frame{Kind: FrameDelta, Tick: tick, Changes: &changes}
}

// Validate checks that the frame's payload matches its kind. Decoders call
// this so a structurally valid message with a mismatched payload is still a
// protocol violation.
func (f *Frame) Validate() error {
	switch f.Kind {
	case FrameHello:
		if f.Hello == nil {
			return ErrMalformedFrame
		}
	case FrameWorld:
		// an empty world is legal; nothing beyond the kind to check
	case FrameDelta:
		if f.Changes == nil {
			return ErrMalformedFrame
		}
	default:
		return ErrUnknownFrameKind
	}
	return nil
}
