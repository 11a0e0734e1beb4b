package transport

import (
	"context"
	"encoding"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local use
	},
}

// WebSocket is a Conn carrying one buffer per binary message.
type WebSocket struct {
	conn *websocket.Conn

	wmu    sync.Mutex
	mu     sync.Mutex
	closed bool
}

// DialWebSocket connects to url.
func DialWebSocket(ctx context.Context, url string) (*WebSocket, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	return NewWebSocket(c), nil
}

// Upgrade accepts a WebSocket connection on the server side.
func Upgrade(w http.ResponseWriter, r *http.Request) (*WebSocket, error) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewWebSocket(c), nil
}

// NewWebSocket wraps an established connection.
func NewWebSocket(c *websocket.Conn) *WebSocket { return &WebSocket{conn: c} }

func (ws *WebSocket) isClosed() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.closed
}

// WriteReport sends one marshalled report as a binary message.
func (ws *WebSocket) WriteReport(r encoding.BinaryMarshaler) error {
	b, err := marshal(r)
	if err != nil {
		return err
	}
	return ws.WriteMessage(b)
}

// WriteMessage sends b as one binary message.
func (ws *WebSocket) WriteMessage(b []byte) error {
	if ws.isClosed() {
		return ErrClosed
	}
	ws.wmu.Lock()
	defer ws.wmu.Unlock()
	return ws.conn.WriteMessage(websocket.BinaryMessage, b)
}

// ReadReport reads one message and unmarshals it into dst.
func (ws *WebSocket) ReadReport(dst encoding.BinaryUnmarshaler, size int) error {
	b, err := ws.ReadFeedback(size)
	if err != nil {
		return err
	}
	return dst.UnmarshalBinary(b)
}

// ReadFeedback reads one binary message and returns at most its first size
// bytes. The message carries its own length, so a shorter message is
// returned whole and the caller's decoder decides whether it is complete.
// Text messages are skipped.
func (ws *WebSocket) ReadFeedback(size int) ([]byte, error) {
	for {
		if ws.isClosed() {
			return nil, ErrClosed
		}
		mt, b, err := ws.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		if len(b) > size {
			b = b[:size]
		}
		return b, nil
	}
}

// Close is idempotent.
func (ws *WebSocket) Close() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.closed {
		return nil
	}
	ws.closed = true
	return ws.conn.Close()
}
