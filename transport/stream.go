package transport

import (
	"context"
	"encoding"
	"io"
	"net"
	"sync"
)

// Stream is a Conn over a byte stream such as TCP.
type Stream struct {
	conn net.Conn

	mu     sync.Mutex
	closed bool
}

// Dial opens a TCP stream to addr.
func Dial(ctx context.Context, addr string) (*Stream, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewStream(c), nil
}

// NewStream wraps an established connection.
func NewStream(c net.Conn) *Stream { return &Stream{conn: c} }

func (s *Stream) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream) Write(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrClosed
	}
	return s.conn.Write(p)
}

func (s *Stream) Read(p []byte) (int, error) {
	if s.isClosed() {
		return 0, ErrClosed
	}
	return s.conn.Read(p)
}

// WriteReport writes one marshalled report.
func (s *Stream) WriteReport(r encoding.BinaryMarshaler) error {
	b, err := marshal(r)
	if err != nil {
		return err
	}
	_, err = s.Write(b)
	return err
}

// ReadReport reads exactly size bytes and unmarshals them into dst.
func (s *Stream) ReadReport(dst encoding.BinaryUnmarshaler, size int) error {
	b, err := s.ReadFeedback(size)
	if err != nil {
		return err
	}
	return dst.UnmarshalBinary(b)
}

// ReadFeedback reads exactly size bytes.
func (s *Stream) ReadFeedback(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(s, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Close is idempotent.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
