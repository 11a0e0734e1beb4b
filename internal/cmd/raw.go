package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/internal/log"
	"github.com/Alia5/padmap/physical"
	"github.com/Alia5/padmap/physical/reportpad"
	"github.com/Alia5/padmap/rawpad"
	"github.com/Alia5/padmap/rawpad/ds4"
	"github.com/Alia5/padmap/rawpad/hidraw"
	"github.com/Alia5/padmap/rawpad/switchpro"
	"github.com/Alia5/padmap/transport"
	"github.com/Alia5/padmap/translate"
)

// Raw reads a DualShock 4 or Pro Controller directly over hidraw and streams
// its decoded report.
type Raw struct {
	MapDir   `embed:""`
	Capture  `embed:""`
	Session  `embed:""`
	Baseline Baseline `embed:"" prefix:"baseline."`

	Path  string `help:"hidraw node (default: first supported controller)" env:"PADMAP_RAW_PATH"`
	Remap bool   `help:"Translate through the pad's map file instead of forwarding the decoded report" env:"PADMAP_REMAP"`
}

// rawPad is a decoded vendor pad that accepts feedback.
type rawPad interface {
	reportpad.Source
	Feedback(fb dualshock4.OutputState) error
}

// Run is called by Kong when the raw command is executed.
func (c *Raw) Run(logger *slog.Logger, raw log.RawLogger) error {
	ctx, cancel := signalContext()
	defer cancel()

	pad, err := openRawPad(ctx, c.Path, logger, raw)
	if err != nil {
		return err
	}
	defer pad.Close()

	conn, err := transport.Open(ctx, c.Connect)
	if err != nil {
		return err
	}
	defer conn.Close()

	if c.Remap {
		err = c.remapped(ctx, pad, conn, logger)
	} else {
		logger.Info("forwarding", "device", pad.Name(), "connect", c.Connect)
		fb := readFeedback(ctx, conn, 5, logger)
		err = forward(ctx, pad, conn, c.Tick, fb, logger)
	}
	if errors.Is(err, physical.ErrRemoved) {
		logger.Warn("device removed", "device", pad.Name())
	}
	return err
}

func (c *Raw) remapped(ctx context.Context, pad rawPad, conn transport.Conn, logger *slog.Logger) error {
	store, err := c.Store()
	if err != nil {
		return err
	}
	tgt, err := newTarget(c.Target)
	if err != nil {
		return err
	}
	dev := reportpad.New(pad)
	baseline, err := measureBaseline(ctx, dev, c.Baseline, logger)
	if err != nil {
		return err
	}
	table, err := newProfiles(store, logger, c.notifier()).ensure(ctx, dev, c.terminalSession(dev, baseline, logger))
	if err != nil {
		return err
	}

	p := &pipeline{
		device:     dev,
		translator: translate.New(table, baseline, tgt.report, translate.WithDeadzone(c.Deadzone), translate.WithLogger(logger)),
		report:     tgt.report,
		conn:       conn,
		tick:       c.Tick,
		logger:     logger,
		feedback:   readFeedback(ctx, conn, tgt.feedbackSize, logger),
		decode:     tgt.decode,
		onFeedback: pad.Feedback,
	}
	if c.Watch {
		p.reload = watchProfile(ctx, store, dev.Name(), logger)
	}
	logger.Info("translating", "device", dev.Name(), "target", c.Target, "connect", c.Connect, "mapped", table.Mapped())
	return p.run(ctx)
}

// forward sends the decoded report of pad downstream once per tick and
// hands DS4 feedback buffers back to the pad.
func forward(ctx context.Context, pad rawPad, conn transport.Conn, tick time.Duration, feedback <-chan []byte, logger *slog.Logger) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case b := <-feedback:
			var fb dualshock4.OutputState
			if err := fb.UnmarshalBinary(b); err != nil {
				logger.Debug("bad feedback buffer", "error", err)
				continue
			}
			if err := pad.Feedback(fb); err != nil {
				logger.Debug("apply feedback", "error", err)
			}
		case <-ticker.C:
			st, err := pad.Poll()
			if errors.Is(err, physical.ErrRemoved) {
				return err
			}
			if err != nil {
				logger.Debug("device read failed", "device", pad.Name(), "error", err)
				continue
			}
			if err := conn.WriteReport(&st); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}
	}
}

// openRawPad opens the hidraw node at path, or the first supported
// controller when path is empty.
func openRawPad(ctx context.Context, path string, logger *slog.Logger, raw log.RawLogger) (rawPad, error) {
	if path == "" {
		devs, err := hidraw.Enumerate()
		if err != nil {
			return nil, err
		}
		for _, d := range devs {
			if d.Info.Model() != rawpad.ModelUnknown {
				path = d.Path
				break
			}
		}
		if path == "" {
			return nil, errors.New("no supported controller found")
		}
	}

	dev, err := hidraw.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := dev.Info()
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	name, err := dev.Name()
	if err != nil || strings.TrimSpace(name) == "" {
		name = info.String()
	}
	pad, err := newRawPad(ctx, dev, name, info, logger, raw)
	if err != nil {
		_ = dev.Close()
		return nil, err
	}
	logger.Info("opened controller", "path", path, "name", name, "model", info.Model(), "transport", info.Transport())
	return pad, nil
}

// newRawPad picks the decoder for the controller model.
func newRawPad(ctx context.Context, hid rawpad.HID, name string, info hidraw.Info, logger *slog.Logger, raw log.RawLogger) (rawPad, error) {
	switch info.Model() {
	case rawpad.ModelDualShock4:
		return ds4.NewPad(hid, name, info.Transport(), raw), nil
	case rawpad.ModelSwitchPro:
		p, err := switchpro.OpenPad(ctx, switchpro.NewConn(hid, info.Transport(), logger, raw), name)
		if err != nil {
			return nil, err
		}
		logger.Info("imu calibration", "source", p.Calibration().Source)
		return p, nil
	}
	return nil, fmt.Errorf("unsupported controller %s", info)
}
