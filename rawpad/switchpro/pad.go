package switchpro

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/rawpad"
)

// ReadTimeout bounds a single Poll.
const ReadTimeout = 8 * time.Millisecond

// Pad is an initialised Pro Controller with calibration loaded and rumble
// running.
type Pad struct {
	conn    *Conn
	name    string
	cal     Calibration
	rumbler *Rumbler
	state   dualshock4.InputState

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// OpenPad initialises the controller behind c, reads its calibration and
// starts the rumble loop. The loop stops on Close or when ctx is done.
func OpenPad(ctx context.Context, c *Conn, name string) (*Pad, error) {
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	p := &Pad{
		conn:    c,
		name:    name,
		cal:     c.LoadCalibration(ctx),
		rumbler: NewRumbler(c, RumblePeriod),
	}
	p.state.Reset()

	rctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.rumbler.Run(rctx)
	}()
	return p, nil
}

func (p *Pad) Name() string             { return p.name }
func (p *Pad) Calibration() Calibration { return p.cal }

// Poll reads at most one report and returns the latest decoded state.
func (p *Pad) Poll() (dualshock4.InputState, error) {
	r, err := p.conn.Read(ReadTimeout)
	if errors.Is(err, rawpad.ErrTimeout) {
		return p.state, nil
	}
	if err != nil {
		return p.state, err
	}
	if s, ok := Decode(r, p.cal); ok {
		p.state = s
	}
	return p.state, nil
}

// Feedback turns motor levels into a rumble frame. The light bar has no
// counterpart on this controller.
func (p *Pad) Feedback(fb dualshock4.OutputState) error {
	p.rumbler.Set(FrameFromMotors(fb.Left, fb.Right, FeedbackDuration))
	return nil
}

func (p *Pad) Close() error {
	p.cancel()
	p.wg.Wait()
	return p.conn.Close()
}
