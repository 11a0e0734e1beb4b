// Package transport moves fixed-size reports and feedback buffers between
// padmap and whatever presents the virtual controller. A buffer is written
// as is; there is no framing beyond its fixed size.
//
// On TCP the reader has to know the size up front: ReadFeedback(size) blocks
// until exactly size bytes arrived, so both ends must agree on it (2 bytes
// for Xbox rumble, 5 for DS4 feedback). On WebSocket every message is one
// buffer and ReadFeedback returns up to size bytes of it, so a 2-byte DS4
// rumble-only message is delivered as is.
package transport

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrClosed is returned by operations on a closed connection.
var ErrClosed = errors.New("stream closed")

// DialTimeout bounds Open.
const DialTimeout = 5 * time.Second

// Conn carries reports out and feedback back in.
type Conn interface {
	WriteReport(r encoding.BinaryMarshaler) error
	ReadReport(dst encoding.BinaryUnmarshaler, size int) error
	ReadFeedback(size int) ([]byte, error)
	Close() error
}

// Open dials target, which is either a ws:// or wss:// URL or a TCP
// host:port, optionally prefixed with tcp://.
func Open(ctx context.Context, target string) (Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, DialTimeout)
	defer cancel()
	switch {
	case strings.HasPrefix(target, "ws://"), strings.HasPrefix(target, "wss://"):
		return DialWebSocket(ctx, target)
	case target == "":
		return nil, fmt.Errorf("no transport target")
	default:
		return Dial(ctx, strings.TrimPrefix(target, "tcp://"))
	}
}

func marshal(r encoding.BinaryMarshaler) ([]byte, error) {
	b, err := r.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return b, nil
}
