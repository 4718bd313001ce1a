// Package ws is the websocket engine transport: one binary message out, one
// binary message back, per frame.
package ws

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/ports"
)

// SessionHeader carries the client's session id on the upgrade request.
const SessionHeader = "X-Simstep-Session"

// Options tunes the connection.
type Options struct {
	// ReadLimit caps the size of a response batch in bytes. Zero means no
	// cap.
	ReadLimit int64
}

// Client is a strict request/response connection to the engine. It applies no
// read deadline: a simulation step may take arbitrarily long, and a slow step
// is not an error. A failed read or write is fatal because the engine is
// stateful and cannot be resumed over a new connection.
type Client struct {
	conn      *websocket.Conn
	sessionID string
}

var _ ports.Transport = (*Client)(nil)

// Dial connects to an engine endpoint (ws:// or wss://).
func Dial(ctx context.Context, endpoint string, opts Options) (*Client, error) {
	sessionID := uuid.NewString()
	header := http.Header{}
	header.Set(SessionHeader, sessionID)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrTransport, endpoint, err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if opts.ReadLimit > 0 {
		conn.SetReadLimit(opts.ReadLimit)
	}

	return &Client{conn: conn, sessionID: sessionID}, nil
}

func (c *Client) SessionID() string { return c.sessionID }

// Exchange sends one command batch and blocks until the engine's response
// arrives. Cancellation is checked before the send only; a frame in flight
// cannot be cancelled.
func (c *Client) Exchange(ctx context.Context, batch []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	if err := c.conn.WriteMessage(websocket.BinaryMessage, batch); err != nil {
		return nil, fmt.Errorf("%w: write frame: %v", domain.ErrTransport, err)
	}

	msgType, raw, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("%w: read frame: %v", domain.ErrTransport, err)
	}
	if msgType != websocket.BinaryMessage {
		return nil, fmt.Errorf("%w: engine sent message type %d, want binary", domain.ErrTransport, msgType)
	}
	return raw, nil
}

func (c *Client) Close() error {
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
