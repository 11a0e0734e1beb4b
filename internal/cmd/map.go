package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Alia5/padmap/capture"
	"github.com/Alia5/padmap/input"
	"github.com/Alia5/padmap/mapping"
)

// Map captures or re-captures the map file of a joystick.
type Map struct {
	MapDir   `embed:""`
	Capture  `embed:""`
	Baseline Baseline `embed:"" prefix:"baseline."`

	Device string   `help:"Joystick name (default: first connected)" env:"PADMAP_DEVICE"`
	Inputs []string `arg:"" optional:"" help:"Inputs to map, e.g. a left-stick-up (default: all)"`
}

// Run is called by Kong when the map command is executed.
func (c *Map) Run(logger *slog.Logger, js Joysticks) error {
	inputs, err := parseInputs(c.Inputs)
	if err != nil {
		return err
	}
	store, err := c.Store()
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

	ctx, cancel := signalContext()
	defer cancel()

	baseline, err := measureBaseline(ctx, dev, c.Baseline, logger)
	if err != nil {
		return err
	}
	p := newProfiles(store, logger, c.notifier())
	s, done, err := c.terminalSession(dev, baseline, logger)()
	if err != nil {
		return err
	}
	defer done()

	_, err = remap(ctx, p, s, dev.Name(), inputs)
	return err
}

// remap captures inputs for device on top of its stored table. An abort is
// not an error: the stored profile stays as it was unless the session
// committed what it had.
func remap(ctx context.Context, p *profiles, s *capture.Session, device string, inputs []input.Input) (*mapping.Table, error) {
	table, err := p.load(device)
	switch {
	case errors.Is(err, mapping.ErrNotFound):
		// nothing stored or unusable: every input has to be captured
		table, inputs = nil, nil
	case err != nil:
		return nil, err
	}

	got, err := p.capture(ctx, s, device, table, inputs)
	switch {
	case errors.Is(err, capture.ErrAborted):
		p.logger.Warn("capture aborted", "device", device, "committed", got != nil)
		return got, nil
	case err != nil:
		return nil, err
	}
	if missing := got.Unmapped(); len(missing) > 0 {
		p.logger.Info("inputs left unmapped", "device", device, "inputs", missing)
	}
	return got, nil
}
