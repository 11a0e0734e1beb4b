package cmd

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/device/xbox360"
	"github.com/Alia5/padmap/internal/log"
	"github.com/Alia5/padmap/mapping"
	"github.com/Alia5/padmap/physical"
	"github.com/Alia5/padmap/transport"
	"github.com/Alia5/padmap/translate"
)

// Report targets.
const (
	TargetXbox360    = "xbox360"
	TargetDualShock4 = "dualshock4"
)

// feedbackHold is how long one feedback buffer keeps the motors running.
const feedbackHold = time.Second

// wireReport is a canonical report that can be sent over a transport.
type wireReport interface {
	translate.Report
	encoding.BinaryMarshaler
}

// target is the report variant of a session and its feedback format.
type target struct {
	report       wireReport
	feedbackSize int
	decode       func([]byte) (dualshock4.OutputState, error)
}

func newTarget(name string) (target, error) {
	switch name {
	case TargetXbox360:
		return target{
			report:       &xbox360.InputState{},
			feedbackSize: 2,
			decode: func(b []byte) (dualshock4.OutputState, error) {
				var r xbox360.XRumbleState
				if err := r.UnmarshalBinary(b); err != nil {
					return dualshock4.OutputState{}, err
				}
				return dualshock4.OutputState{Left: r.LeftMotor, Right: r.RightMotor}, nil
			},
		}, nil
	case TargetDualShock4:
		return target{
			report:       dualshock4.NewInputState(),
			feedbackSize: 5,
			decode: func(b []byte) (dualshock4.OutputState, error) {
				var o dualshock4.OutputState
				err := o.UnmarshalBinary(b)
				return o, err
			},
		}, nil
	}
	return target{}, fmt.Errorf("unknown target %q", name)
}

// readFeedback forwards feedback buffers read from conn until it fails.
// When the consumer lags only the newest buffer is kept.
func readFeedback(ctx context.Context, conn transport.Conn, size int, logger *slog.Logger) <-chan []byte {
	ch := make(chan []byte, 1)
	go func() {
		for {
			b, err := conn.ReadFeedback(size)
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, transport.ErrClosed) {
					logger.Debug("feedback stream ended", "error", err)
				}
				return
			}
			select {
			case ch <- b:
				continue
			default:
			}
			select {
			case <-ch:
			default:
			}
			ch <- b
		}
	}()
	return ch
}

// pipeline polls a physical device once per tick, translates its events
// into the canonical report and sends the report downstream.
type pipeline struct {
	device     physical.Device
	translator *translate.Translator
	report     wireReport
	conn       transport.Conn
	tick       time.Duration
	logger     *slog.Logger

	// reload swaps the mapping table; feedback carries decoded feedback to
	// onFeedback. Both may be nil.
	reload     <-chan *mapping.Table
	feedback   <-chan []byte
	decode     func([]byte) (dualshock4.OutputState, error)
	onFeedback func(dualshock4.OutputState) error

	held int
}

// run returns nil when ctx is done and physical.ErrRemoved when the device
// goes away. A failed device read is logged and retried on the next tick.
func (p *pipeline) run(ctx context.Context) error {
	poller := physical.NewPoller(p.device)
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-p.reload:
			p.translator.SetTable(t)
			p.held = 0
		case b := <-p.feedback:
			p.applyFeedback(b)
		case <-ticker.C:
			evs, err := poller.Poll()
			if aerr := p.translator.ApplyAll(evs); aerr != nil {
				return aerr
			}
			if h := p.translator.Held(); h != p.held {
				p.held = h
				p.logger.Log(ctx, log.LevelTrace, "held inputs changed", "held", h)
			}
			if err != nil {
				p.logger.Debug("device read failed", "device", p.device.Name(), "error", err)
				continue
			}
			if err := p.conn.WriteReport(p.report); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
	}
}

func (p *pipeline) applyFeedback(b []byte) {
	fb, err := p.decode(b)
	if err != nil {
		p.logger.Debug("bad feedback buffer", "error", err)
		return
	}
	p.logger.Debug("feedback", "strong", fb.Left, "weak", fb.Right)
	if p.onFeedback == nil {
		return
	}
	if err := p.onFeedback(fb); err != nil {
		p.logger.Debug("apply feedback", "error", err)
	}
}

// watchProfile reloads the table of device into the returned channel while
// ctx is live.
func watchProfile(ctx context.Context, store *mapping.Store, device string, logger *slog.Logger) <-chan *mapping.Table {
	ch := make(chan *mapping.Table, 1)
	go func() {
		err := mapping.Watch(ctx, store, device, logger, func(t *mapping.Table) {
			select {
			case <-ch:
			default:
			}
			ch <- t
		})
		if err != nil {
			logger.Warn("map file watcher stopped", "error", err)
		}
	}()
	return ch
}
