package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"EvoScope/internal/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Close reasons, used as the metrics label and in logs.
const (
	reasonTransport = "transport"
	reasonViolation = "violation"
	reasonSlow      = "slow"
	reasonShutdown  = "shutdown"
)

// Session is one observer connection walking the Connecting → Streaming →
// Closed state machine. While Connecting it consumes nothing from the hub;
// after the hello frame it sends one world frame and then a delta frame per
// tick, strictly in tick order, until the transport dies or a protocol rule
// is broken. Sessions never retry: a reconnecting observer is a brand-new
// session with a fresh world frame.
type Session struct {
	ID    uuid.UUID
	conn  *websocket.Conn
	codec protocol.Codec
	hub   *Hub
	log   *slog.Logger

	queue     chan *protocol.Snapshot
	streaming atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

func newSession(hub *Hub, conn *websocket.Conn, codec protocol.Codec, log *slog.Logger) *Session {
	id := uuid.New()
	return &Session{
		ID:    id,
		conn:  conn,
		codec: codec,
		hub:   hub,
		log:   log.With("session", id.String(), "codec", codec.Name()),
		queue: make(chan *protocol.Snapshot, hub.queueDepth),
		done:  make(chan struct{}),
	}
}

// offer hands a snapshot to the session without blocking. Sessions still in
// the handshake ignore the stream; a streaming session that cannot keep up
// is dropped.
func (s *Session) offer(snap *protocol.Snapshot) {
	if !s.streaming.Load() {
		return
	}
	select {
	case s.queue <- snap:
	default:
		s.log.Warn("send queue full, dropping session")
		s.close(reasonSlow)
	}
}

// close tears the session down exactly once: the transport is closed (which
// unblocks both loops), the hub slot is released, and pending sends are
// abandoned.
func (s *Session) close(reason string) {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
		s.hub.unregister(s)
		sessionsClosed.WithLabelValues(reason).Inc()
		s.log.Info("session closed", "reason", reason)
	})
}

// Run drives the session to completion. It blocks until the session closes.
func (s *Session) Run(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			s.close(reasonShutdown)
		case <-s.done:
		}
	}()

	if err := s.awaitHello(); err != nil {
		if errors.Is(err, errTransport) {
			s.close(reasonTransport)
		} else {
			s.log.Warn("handshake failed", "err", err)
			s.close(reasonViolation)
		}
		return
	}

	// Subscribe before reading the latest snapshot. Publish stores latest
	// before offering, so anything the queue missed while we were still
	// Connecting is at or before last and gets skipped below; anything
	// newer lands in the queue. Ticks reach the client with no gaps.
	s.streaming.Store(true)
	last := s.hub.Latest()
	if last == nil {
		// Handshake raced the tick loop's first publish; the subscription
		// above guarantees that publish lands in the queue.
		select {
		case <-s.done:
			return
		case last = <-s.queue:
		}
	}
	if err := s.sendFrame(protocol.WorldFrame(last)); err != nil {
		s.close(reasonTransport)
		return
	}

	// After the handshake the client must stay quiet; any further inbound
	// message is a protocol violation. The reader also notices transport
	// closes for us.
	go s.readUntilClosed()

	for {
		select {
		case <-s.done:
			return
		case snap := <-s.queue:
			if snap.Tick <= last.Tick {
				// Published before this session subscribed.
				continue
			}
			changes := protocol.Diff(last, snap)
			if err := s.sendFrame(protocol.DeltaFrame(snap.Tick, changes)); err != nil {
				s.close(reasonTransport)
				return
			}
			last = snap
		}
	}
}

// errTransport marks read failures that are connection-level, not protocol
// violations by the client.
var errTransport = errors.New("transport error")

// awaitHello blocks until the client's ready signal arrives. The server
// sends nothing before it, and there is deliberately no timeout here: a
// silent client is only ever cleaned up by the transport closing.
func (s *Session) awaitHello() error {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("%w: %v", errTransport, err)
	}
	frame, err := s.codec.DecodeFrame(data)
	if err != nil {
		return err
	}
	if frame.Kind != protocol.FrameHello {
		return fmt.Errorf("%w: got %s before hello", protocol.ErrUnexpectedFrame, frame.Kind)
	}
	if frame.Hello.Protocol != protocol.ProtocolVersion {
		return fmt.Errorf("%w: client speaks v%d, server speaks v%d",
			protocol.ErrVersionMismatch, frame.Hello.Protocol, protocol.ProtocolVersion)
	}
	return nil
}

func (s *Session) readUntilClosed() {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.close(reasonTransport)
			return
		}
		s.log.Warn("unexpected message from streaming client")
		s.close(reasonViolation)
		return
	}
}

func (s *Session) sendFrame(f *protocol.Frame) error {
	data, err := s.codec.EncodeFrame(f)
	if err != nil {
		return err
	}
	msgType := websocket.TextMessage
	if s.codec.Binary() {
		msgType = websocket.BinaryMessage
	}
	if err := s.conn.WriteMessage(msgType, data); err != nil {
		return err
	}
	framesSent.WithLabelValues(f.Kind.String()).Inc()
	bytesSent.Add(float64(len(data)))
	return nil
}
