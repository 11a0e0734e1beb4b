package cmd

import (
	"errors"
	"log/slog"
	"time"

	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/physical"
	"github.com/Alia5/padmap/transport"
	"github.com/Alia5/padmap/translate"
)

// Session flags shared by run and raw.
type Session struct {
	Connect  string        `help:"Report sink: host:port, tcp://host:port or ws(s)://url" required:"" env:"PADMAP_CONNECT"`
	Target   string        `help:"Canonical report variant" default:"xbox360" enum:"xbox360,dualshock4" env:"PADMAP_TARGET"`
	Tick     time.Duration `help:"Polling interval" default:"4ms" env:"PADMAP_TICK"`
	Deadzone int32         `help:"Axis deadzone around the idle baseline" default:"8000" env:"PADMAP_DEADZONE"`
	Watch    bool          `help:"Reload the map file when it changes on disk" env:"PADMAP_WATCH"`
}

// Run translates a joystick through its map file and streams the canonical
// report.
type Run struct {
	MapDir   `embed:""`
	Capture  `embed:""`
	Session  `embed:""`
	Baseline Baseline `embed:"" prefix:"baseline."`

	Device string `help:"Joystick name (default: first connected)" env:"PADMAP_DEVICE"`
}

// Run is called by Kong when the run command is executed.
func (c *Run) Run(logger *slog.Logger, js Joysticks) error {
	store, err := c.Store()
	if err != nil {
		return err
	}
	tgt, err := newTarget(c.Target)
	if err != nil {
		return err
	}

	stop, err := startJoysticks(js)
	if err != nil {
		return err
	}
	defer stop()

	dev, err := js.Open(c.Device)
	if err != nil {
		return err
	}
	defer dev.Close()
	logger = logger.With("device", dev.Name())

	ctx, cancel := signalContext()
	defer cancel()

	baseline, err := measureBaseline(ctx, dev, c.Baseline, logger)
	if err != nil {
		return err
	}
	table, err := newProfiles(store, logger, c.notifier()).ensure(ctx, dev, c.terminalSession(dev, baseline, logger))
	if err != nil {
		return err
	}

	conn, err := transport.Open(ctx, c.Connect)
	if err != nil {
		return err
	}
	defer conn.Close()

	p := &pipeline{
		device:     dev,
		translator: translate.New(table, baseline, tgt.report, translate.WithDeadzone(c.Deadzone), translate.WithLogger(logger)),
		report:     tgt.report,
		conn:       conn,
		tick:       c.Tick,
		logger:     logger,
		feedback:   readFeedback(ctx, conn, tgt.feedbackSize, logger),
		decode:     tgt.decode,
		onFeedback: func(fb dualshock4.OutputState) error {
			return dev.Rumble(uint16(fb.Left)*0x101, uint16(fb.Right)*0x101, feedbackHold)
		},
	}
	if c.Watch {
		p.reload = watchProfile(ctx, store, dev.Name(), logger)
	}

	logger.Info("translating", "target", c.Target, "connect", c.Connect, "mapped", table.Mapped())
	err = p.run(ctx)
	if errors.Is(err, physical.ErrRemoved) {
		logger.Warn("device removed")
	}
	return err
}
