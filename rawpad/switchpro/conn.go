package switchpro

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Alia5/padmap/internal/log"
	"github.com/Alia5/padmap/rawpad"
)

// ErrExhausted is returned when a subcommand got no matching reply within
// MaxAttempts requests.
var ErrExhausted = errors.New("no matching reply")

// Subcommands go out as native 0x01 reports on both transports. After the
// wired handshake ends with usbNoTimeout the controller talks plain HID, so
// every read starts at the report id.

// Subcommand request defaults.
const (
	MaxAttempts     = 10
	ReadsPerAttempt = 5
	ReplyTimeout    = 25 * time.Millisecond
)

// Output report ids.
const (
	outSubcommand byte = 0x01
	outRumble     byte = 0x10
	outUSB        byte = 0x80
)

const (
	subcmdSPIRead byte = 0x10

	outputReportSize = 49
	spiHeaderSize    = 5

	// Reply field positions relative to the start of the reply report.
	replySubcmd  = 14
	replyAddr    = 15
	replyPayload = 20
)

// Conn sends requests to a controller and matches their replies.
type Conn struct {
	hid       rawpad.HID
	transport rawpad.Transport
	logger    *slog.Logger
	raw       log.RawLogger

	MaxAttempts     int
	ReadsPerAttempt int
	ReplyTimeout    time.Duration

	counter atomic.Uint32
	buf     []byte
}

// NewConn wraps an open HID device. raw may be nil.
func NewConn(hid rawpad.HID, t rawpad.Transport, logger *slog.Logger, raw log.RawLogger) *Conn {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Conn{
		hid:             hid,
		transport:       t,
		logger:          logger,
		raw:             raw,
		MaxAttempts:     MaxAttempts,
		ReadsPerAttempt: ReadsPerAttempt,
		ReplyTimeout:    ReplyTimeout,
		buf:             make([]byte, 362),
	}
}

func (c *Conn) next() uint8 { return uint8(c.counter.Add(1)-1) & 0x0F }

func (c *Conn) write(b []byte) error {
	c.raw.Log(true, b)
	_, err := c.hid.Write(b)
	return err
}

// request builds a subcommand report with neutral rumble.
func (c *Conn) request(id byte, args []byte) []byte {
	b := make([]byte, outputReportSize)
	b[0] = outSubcommand
	b[1] = c.next()
	copy(b[2:6], NeutralRumble[:])
	copy(b[6:10], NeutralRumble[:])
	b[10] = id
	copy(b[11:], args)
	return b
}

// Subcommand sends id with args until a reply echoing id arrives and
// returns that reply, starting at its report id.
func (c *Conn) Subcommand(ctx context.Context, id byte, args ...byte) ([]byte, error) {
	return c.exchange(ctx, id, args, func([]byte) bool { return true })
}

// ReadSPI reads length bytes of SPI flash at addr. Replies for another
// address are ignored; after MaxAttempts requests ErrExhausted is returned.
func (c *Conn) ReadSPI(ctx context.Context, addr uint32, length uint8) ([]byte, error) {
	args := make([]byte, spiHeaderSize)
	binary.LittleEndian.PutUint32(args, addr)
	args[4] = length
	reply, err := c.exchange(ctx, subcmdSPIRead, args, func(r []byte) bool {
		return len(r) >= replyPayload+int(length) && binary.LittleEndian.Uint32(r[replyAddr:]) == addr
	})
	if err != nil {
		return nil, fmt.Errorf("spi read 0x%04x: %w", addr, err)
	}
	return reply[replyPayload : replyPayload+int(length)], nil
}

func (c *Conn) exchange(ctx context.Context, id byte, args []byte, match func(reply []byte) bool) ([]byte, error) {
	for attempt := 1; attempt <= c.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.write(c.request(id, args)); err != nil {
			return nil, err
		}
		for range c.ReadsPerAttempt {
			n, err := c.hid.ReadTimeout(c.buf, c.ReplyTimeout)
			if errors.Is(err, rawpad.ErrTimeout) {
				break
			}
			if err != nil {
				return nil, err
			}
			c.raw.Log(false, c.buf[:n])
			if n <= replySubcmd {
				continue
			}
			r := c.buf[:n]
			if r[0] != ReportReply || r[replySubcmd] != id || !match(r) {
				continue
			}
			return append([]byte(nil), r...), nil
		}
		c.logger.Debug("no reply to subcommand", "subcommand", id, "attempt", attempt)
	}
	return nil, ErrExhausted
}

// Read reads one input report. The returned slice is reused by the next read.
func (c *Conn) Read(timeout time.Duration) ([]byte, error) {
	n, err := c.hid.ReadTimeout(c.buf, timeout)
	if err != nil {
		return nil, err
	}
	c.raw.Log(false, c.buf[:n])
	if n == 0 {
		return nil, nil
	}
	return c.buf[:n], nil
}

// SendRumble writes a rumble-only report.
func (c *Conn) SendRumble(left, right [4]byte) error {
	b := make([]byte, 10)
	b[0] = outRumble
	b[1] = c.next()
	copy(b[2:6], left[:])
	copy(b[6:10], right[:])
	return c.write(b)
}

func (c *Conn) Close() error { return c.hid.Close() }
