package ds4

import (
	"errors"
	"time"

	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/internal/log"
	"github.com/Alia5/padmap/rawpad"
)

// ReadTimeout bounds a single Poll.
const ReadTimeout = 8 * time.Millisecond

const readBufferSize = 128

// Pad polls a DS4 over raw HID.
type Pad struct {
	hid       rawpad.HID
	name      string
	transport rawpad.Transport
	raw       log.RawLogger

	buf   []byte
	state dualshock4.InputState
}

// NewPad wraps an open HID device. raw may be nil.
func NewPad(hid rawpad.HID, name string, t rawpad.Transport, raw log.RawLogger) *Pad {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	p := &Pad{hid: hid, name: name, transport: t, raw: raw, buf: make([]byte, readBufferSize)}
	p.state.Reset()
	return p
}

func (p *Pad) Name() string                { return p.name }
func (p *Pad) Transport() rawpad.Transport { return p.transport }

// Poll reads at most one report and returns the latest decoded state. No
// report within ReadTimeout, or an undecodable one, leaves the state as it
// was. Read errors are returned as is; physical.ErrRemoved ends the pad.
func (p *Pad) Poll() (dualshock4.InputState, error) {
	n, err := p.hid.ReadTimeout(p.buf, ReadTimeout)
	if errors.Is(err, rawpad.ErrTimeout) {
		return p.state, nil
	}
	if err != nil {
		return p.state, err
	}
	p.raw.Log(false, p.buf[:n])
	if s, ok := Decode(p.buf[:n]); ok {
		p.state = s
	}
	return p.state, nil
}

// Feedback sends rumble and light bar values to the pad.
func (p *Pad) Feedback(fb dualshock4.OutputState) error {
	b := OutputReport(p.transport, fb)
	p.raw.Log(true, b)
	_, err := p.hid.Write(b)
	return err
}

func (p *Pad) Close() error { return p.hid.Close() }
