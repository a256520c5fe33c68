package observer

import (
	"context"
	"sync"
	"time"

	"EvoScope/internal/geometry"
	"EvoScope/internal/protocol"
	"EvoScope/internal/sim"
)

// Surface is the drawable handle the host hands to New. It consumes decoded
// state and produces pixels; everything behind it is outside the protocol
// core. Implementations are called from a single goroutine.
type Surface interface {
	Clear()
	FillPolygon(vertices []geometry.Point, kind protocol.Kind, name string)
	Flush()
}

// Viewer ties the frame decoder, the state mirror and the render loop
// together behind one mutex: the message-arrival callback and the render
// tick are independent triggers, but both touch the mirror, so they are
// mutually exclusive here.
type Viewer struct {
	mu      sync.Mutex
	mirror  *StateMirror
	surface Surface
	codec   protocol.Codec
}

type Option func(*Viewer)

// WithCodec selects the wire codec; the default is msgpack.
func WithCodec(c protocol.Codec) Option {
	return func(v *Viewer) { v.codec = c }
}

// New initializes the observer core around a drawable surface.
func New(surface Surface, opts ...Option) *Viewer {
	v := &Viewer{
		mirror:  NewStateMirror(),
		surface: surface,
		codec:   protocol.MsgpackCodec{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Viewer) Codec() protocol.Codec { return v.codec }

// TickInterval is the redraw period hosts should schedule RenderNow at. It
// is the simulation's tick duration, not anything derived from the network.
func (v *Viewer) TickInterval() time.Duration { return sim.TickInterval }

// OnMessage decodes one incoming transport message and applies it to the
// mirror. An error means the connection must be torn down; the mirror
// cannot be trusted past a failed apply.
func (v *Viewer) OnMessage(data []byte) error {
	frame, err := v.codec.DecodeFrame(data)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mirror.Apply(frame)
}

// Tick returns the mirror's current tick.
func (v *Viewer) Tick() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mirror.Tick()
}

// RenderNow redraws the current mirror once. It never blocks on network
// I/O; it only reads whatever the mirror holds right now.
func (v *Viewer) RenderNow() {
	v.mu.Lock()
	entries := v.mirror.Entries()
	v.mu.Unlock()

	// Scenery first so moving objects paint on top.
	byLayer := make([]protocol.ObjectEntry, 0, len(entries))
	for _, kind := range []protocol.Kind{protocol.KindTerrain, protocol.KindWater, protocol.KindPlant, protocol.KindOrganism} {
		for _, entry := range entries {
			if entry.State.Kind == kind {
				byLayer = append(byLayer, entry)
			}
		}
	}

	v.surface.Clear()
	for _, entry := range byLayer {
		s := entry.State
		global := s.Shape.Transform(s.Location, s.Rotation)
		v.surface.FillPolygon(global.Vertices, s.Kind, s.Name)
	}
	v.surface.Flush()
}

// Run is the render loop: one immediate draw so the first applied world
// frame shows without waiting a full period, then a redraw every tick
// interval until the context is cancelled.
func (v *Viewer) Run(ctx context.Context) {
	v.RenderNow()
	ticker := time.NewTicker(v.TickInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.RenderNow()
		}
	}
}
