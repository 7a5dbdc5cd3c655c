package beacon

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket writes each payload as a text message over a lazily dialed connection.
type WebSocket struct {
	*queue
	uri    string
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocket returns a Sender writing payloads to the websocket endpoint uri.
func NewWebSocket(uri string, opts ...Option) *WebSocket {
	o := buildOptions(opts)
	w := &WebSocket{
		uri: uri,
		dialer: &websocket.Dialer{
			HandshakeTimeout: o.timeout,
			Proxy:            http.ProxyFromEnvironment,
		},
	}
	w.queue = newQueue(uri, o, w.write)
	return w
}

func (w *WebSocket) write(ctx context.Context, payload []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.conn == nil {
		conn, resp, err := w.dialer.DialContext(ctx, w.uri, nil)
		if err != nil {
			if resp != nil {
				return fmt.Errorf("websocket dial failed with status %d: %w", resp.StatusCode, err)
			}
			return fmt.Errorf("websocket dial failed: %w", err)
		}
		w.conn = conn
		w.stats.MarkConnected()
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = w.conn.SetWriteDeadline(deadline)
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		_ = w.conn.Close()
		w.conn = nil
		w.stats.Reset()
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// Close drains queued payloads and closes the connection gracefully.
func (w *WebSocket) Close(ctx context.Context) error {
	err := w.queue.Close(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = w.conn.Close()
		w.conn = nil
		w.stats.Reset()
	}
	return err
}
