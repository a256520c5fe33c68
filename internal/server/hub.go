package server

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"EvoScope/internal/protocol"
	"EvoScope/internal/sim"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Hub fans the tick stream out to sessions. The tick loop is the single
// producer; each session consumes through its own bounded queue, so one
// stalled socket can never hold the simulation back.
type Hub struct {
	log      *slog.Logger
	sessions *xsync.MapOf[uuid.UUID, *Session]
	latest   atomic.Pointer[protocol.Snapshot]

	maxSessions int
	queueDepth  int
}

func NewHub(log *slog.Logger, maxSessions, queueDepth int) *Hub {
	return &Hub{
		log:         log,
		sessions:    xsync.NewMapOf[uuid.UUID, *Session](),
		maxSessions: maxSessions,
		queueDepth:  queueDepth,
	}
}

// Latest returns the most recently published snapshot. Sessions read it at
// handshake completion, so each gets the snapshot current at its own
// handshake moment.
func (h *Hub) Latest() *protocol.Snapshot {
	return h.latest.Load()
}

// Publish records snap as latest and offers it to every streaming session
// without blocking. A session whose queue is full is dropped, treated like
// a disconnect; backpressure never reaches the caller.
func (h *Hub) Publish(snap *protocol.Snapshot) {
	h.latest.Store(snap)
	h.sessions.Range(func(_ uuid.UUID, s *Session) bool {
		s.offer(snap)
		return true
	})
}

// register reserves a slot for a new connection. It fails when the hub is
// at capacity; the caller closes the transport.
func (h *Hub) register(s *Session) bool {
	if h.sessions.Size() >= h.maxSessions {
		return false
	}
	h.sessions.Store(s.ID, s)
	sessionsActive.Inc()
	return true
}

func (h *Hub) unregister(s *Session) {
	if _, loaded := h.sessions.LoadAndDelete(s.ID); loaded {
		sessionsActive.Dec()
	}
}

// SessionCount returns the number of registered sessions, streaming or not.
func (h *Hub) SessionCount() int { return h.sessions.Size() }

// Run drives the simulation: it publishes the world's current state once,
// then advances one tick per interval and publishes each resulting
// snapshot, until the context is cancelled.
func (h *Hub) Run(ctx context.Context, world *sim.World) {
	h.Publish(world.Snapshot())
	ticker := time.NewTicker(sim.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.log.Info("tick loop stopped")
			return
		case <-ticker.C:
			h.Publish(world.Tick())
		}
	}
}
