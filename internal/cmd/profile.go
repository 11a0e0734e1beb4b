package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Alia5/padmap/capture"
	"github.com/Alia5/padmap/input"
	"github.com/Alia5/padmap/internal/console"
	"github.com/Alia5/padmap/mapping"
	"github.com/Alia5/padmap/physical"
)

// profiles manages the map file lifecycle of physical devices.
type profiles struct {
	store  *mapping.Store
	warn   console.Warner
	logger *slog.Logger
}

func newProfiles(store *mapping.Store, logger *slog.Logger, notifier console.Notifier) *profiles {
	return &profiles{
		store:  store,
		warn:   console.Warner{Logger: logger, Notifier: notifier},
		logger: logger,
	}
}

// load returns the stored table for device. A corrupt file is deleted and
// reported as mapping.ErrNotFound so the caller captures from scratch.
func (p *profiles) load(device string) (*mapping.Table, error) {
	t, format, err := p.store.Load(device)
	switch {
	case errors.Is(err, mapping.ErrCorrupt):
		p.logger.Warn("map file unusable, capturing again", "device", device, "error", err)
		if err := p.store.Delete(device); err != nil {
			return nil, fmt.Errorf("delete corrupt map file: %w", err)
		}
		return nil, mapping.ErrNotFound
	case err != nil:
		return nil, err
	}
	if format == mapping.FormatLegacy {
		p.warn.Warn("old map file, please re-map", "device", device)
	}
	return t, nil
}

// capture runs s over inputs starting from table and saves whatever table
// the session hands back, including a partial one committed on abort.
func (p *profiles) capture(ctx context.Context, s *capture.Session, device string, table *mapping.Table, inputs []input.Input) (*mapping.Table, error) {
	got, err := s.Run(ctx, table, inputs)
	if got != nil {
		if serr := p.store.Save(device, got); serr != nil {
			return nil, fmt.Errorf("save map file: %w", serr)
		}
		p.logger.Info("map file saved", "device", device, "mapped", got.Mapped(), "path", p.store.Path(device))
	}
	return got, err
}

// ensure loads the table for dev or, when there is none, captures a full
// one interactively.
func (p *profiles) ensure(ctx context.Context, dev physical.Device, newSession func() (*capture.Session, func(), error)) (*mapping.Table, error) {
	t, err := p.load(dev.Name())
	if !errors.Is(err, mapping.ErrNotFound) {
		return t, err
	}
	p.logger.Info("no map file for device, starting capture", "device", dev.Name())
	s, done, err := newSession()
	if err != nil {
		return nil, err
	}
	defer done()
	return p.capture(ctx, s, dev.Name(), nil, nil)
}

// session builds a capture session for dev from the command flags.
func (c Capture) session(dev physical.Device, prompter capture.Prompter, baseline *physical.Baseline, logger *slog.Logger) *capture.Session {
	return &capture.Session{
		Device:        dev,
		Prompter:      prompter,
		Logger:        logger,
		Baseline:      baseline,
		Threshold:     c.Threshold,
		CommitOnAbort: c.CommitOnAbort,
	}
}

func (c Capture) notifier() console.Notifier {
	if c.Notify {
		return console.Desktop{}
	}
	return nil
}

// terminalSession wires a terminal prompter into a capture session.
func (c Capture) terminalSession(dev physical.Device, baseline *physical.Baseline, logger *slog.Logger) func() (*capture.Session, func(), error) {
	return func() (*capture.Session, func(), error) {
		prompter, err := console.NewTerminalPrompter(c.notifier())
		if err != nil {
			return nil, nil, err
		}
		prompter.Println(fmt.Sprintf("Mapping %s", dev.Name()))
		return c.session(dev, prompter, baseline, logger), func() { _ = prompter.Close() }, nil
	}
}

func measureBaseline(ctx context.Context, dev physical.Device, b Baseline, logger *slog.Logger) (*physical.Baseline, error) {
	logger.Info("measuring idle baseline, leave the controller untouched", "device", dev.Name())
	bl, err := physical.MeasureBaseline(ctx, dev, b.Samples, b.Interval)
	if err != nil {
		return nil, fmt.Errorf("measure baseline: %w", err)
	}
	for i, a := range bl.Axes {
		logger.Debug("axis baseline", "axis", i, "mean", a.Mean, "median", a.Median, "mode", a.Mode, "range", a.Range())
	}
	return bl, nil
}

// parseInputs resolves input names. No names selects every input.
func parseInputs(names []string) ([]input.Input, error) {
	var out []input.Input
	for _, n := range names {
		in, err := input.Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}
