package observer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"EvoScope/internal/protocol"

	"github.com/gorilla/websocket"
)

// Client owns the observer's side of the transport: it dials, sends the
// hello frame, and feeds every received message into the viewer in arrival
// order. There is no reconnection; when Run returns, the session is over.
type Client struct {
	conn   *websocket.Conn
	viewer *Viewer
	log    *slog.Logger
}

// Dial connects to the server's stream endpoint and completes the client's
// half of the handshake. rawURL is the ws:// endpoint without codec
// parameter; the viewer's codec is appended.
func Dial(ctx context.Context, rawURL string, viewer *Viewer, log *slog.Logger) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("codec", viewer.Codec().Name())
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u, err)
	}

	c := &Client{conn: conn, viewer: viewer, log: log}
	if err := c.sendHello(); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) sendHello() error {
	data, err := c.viewer.Codec().EncodeFrame(protocol.HelloFrame())
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(c.messageType(), data)
}

func (c *Client) messageType() int {
	if c.viewer.Codec().Binary() {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// Run reads frames until the transport closes, the context is cancelled, or
// a frame fails to apply. A decode/apply error is returned after the
// connection is torn down; the mirror is not usable past it.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		if err := c.viewer.OnMessage(data); err != nil {
			c.conn.Close()
			return fmt.Errorf("apply frame at mirror tick %d: %w", c.viewer.Tick(), err)
		}
	}
}

func (c *Client) Close() error { return c.conn.Close() }
