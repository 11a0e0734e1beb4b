// Package translate turns live physical events into a canonical report using
// a captured mapping table.
package translate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Alia5/padmap/input"
	"github.com/Alia5/padmap/internal/log"
	"github.com/Alia5/padmap/mapping"
	"github.com/Alia5/padmap/physical"
)

// Report is a canonical report the translator mutates in place. Stick values
// are positive toward right and down; stick 0 is left, axis 0 is X.
type Report interface {
	SetButton(in input.Input, on bool)
	Button(in input.Input) bool
	SetStick(stick, axis int, v int16)
	SetTrigger(in input.Input, v uint8)
	Reset()
}

const (
	maxMagnitude = 32767
	maxTrigger   = 255
)

// Translator owns one report for the lifetime of a device session.
type Translator struct {
	table    *mapping.Table
	baseline *physical.Baseline
	deadzone int32
	report   Report
	logger   *slog.Logger

	// magnitude of each stick direction, 0..32767
	dirs    [input.Count]int32
	held    int
	removed bool
}

// Option configures a Translator.
type Option func(*Translator)

// WithDeadzone overrides physical.Deadzone.
func WithDeadzone(dz int32) Option { return func(t *Translator) { t.deadzone = dz } }

// WithLogger sets the logger used for trace output.
func WithLogger(l *slog.Logger) Option { return func(t *Translator) { t.logger = l } }

// New returns a translator writing into report, which is reset first.
func New(table *mapping.Table, baseline *physical.Baseline, report Report, opts ...Option) *Translator {
	t := &Translator{
		table:    table,
		baseline: baseline,
		deadzone: physical.Deadzone,
		report:   report,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(t)
	}
	report.Reset()
	return t
}

// Report returns the report being driven.
func (t *Translator) Report() Report { return t.report }

// Held returns how many digital canonical inputs are currently pressed.
func (t *Translator) Held() int { return t.held }

// SetTable swaps the mapping table and returns the report to rest.
func (t *Translator) SetTable(table *mapping.Table) {
	t.table = table
	t.dirs = [input.Count]int32{}
	t.held = 0
	t.report.Reset()
}

// ApplyAll applies every event of one tick in order.
func (t *Translator) ApplyAll(evs []physical.Event) error {
	for _, ev := range evs {
		if err := t.Apply(ev); err != nil {
			return err
		}
	}
	return nil
}

// Apply updates the report for one physical event. Once the device has been
// reported removed every call fails with physical.ErrRemoved and the report
// is left as it was.
func (t *Translator) Apply(ev physical.Event) error {
	if t.removed {
		return physical.ErrRemoved
	}
	if ev.Removed {
		t.removed = true
		return physical.ErrRemoved
	}
	bound := t.table.Bound(ev.Kind, ev.Index)
	if len(bound) == 0 {
		return nil
	}
	t.logger.Log(context.Background(), log.LevelTrace, "event", "event", ev.String(), "bound", len(bound))

	switch ev.Kind {
	case input.Hat:
		// one reading carries the whole hat: drop every direction first, then
		// derive the active ones from the new mask
		for _, in := range bound {
			t.digital(in, false)
		}
		for _, in := range bound {
			if ev.Value&t.table.Get(in).Value != 0 {
				t.digital(in, true)
			}
		}
	case input.Button, input.Shoulder, input.Thumb:
		for _, in := range bound {
			t.digital(in, ev.Value != 0)
		}
	case input.Stick, input.Trigger:
		for _, in := range bound {
			t.axis(in, ev.Value)
		}
	default:
		return fmt.Errorf("unsupported event kind %s", ev.Kind)
	}
	return nil
}

// digital drives in from a two-state source. Analog targets go to their
// extreme or to rest.
func (t *Translator) digital(in input.Input, on bool) {
	switch input.Category(in) {
	case input.Stick:
		m := int32(0)
		if on {
			m = maxMagnitude
		}
		t.direction(in, m)
	case input.Trigger:
		v := uint8(0)
		if on {
			v = maxTrigger
		}
		t.report.SetTrigger(in, v)
	default:
		t.button(in, on)
	}
}

func (t *Translator) button(in input.Input, on bool) {
	was := t.report.Button(in)
	switch {
	case on && !was:
		t.held++
	case !on && was:
		t.held--
	}
	t.report.SetButton(in, on)
}

// axis drives in from a raw axis reading.
func (t *Translator) axis(in input.Input, raw int32) {
	sig := t.table.Get(in)
	if sig.Range == input.RangeFull && input.Category(in) == input.Trigger {
		t.report.SetTrigger(in, ExtendedTrigger(raw, sig.Value))
		return
	}

	m := Magnitude(raw, t.baseline.Center(sig.Kind, sig.Index), t.deadzone, sig.Value)
	switch input.Category(in) {
	case input.Stick:
		t.direction(in, m)
	case input.Trigger:
		t.report.SetTrigger(in, uint8(m*maxTrigger/maxMagnitude))
	default:
		t.button(in, m > 0)
	}
}

// Magnitude is how far raw has travelled from center in direction dir
// (+1 or -1), 0..32767. Readings within deadzone of center, or on the other
// side of it, are 0.
func Magnitude(raw, center, deadzone, dir int32) int32 {
	d := raw - center
	if physical.Abs(d) <= deadzone {
		return 0
	}
	if (d < 0) != (dir < 0) {
		return 0
	}
	return physical.Clamp(physical.Abs(d), 0, maxMagnitude)
}

// ExtendedTrigger rescales a full-range axis onto a trigger. dir +1 maps
// -32768..32767 onto 0..255 ascending, dir -1 descending.
func ExtendedTrigger(raw, dir int32) uint8 {
	raw = physical.Clamp(raw, -32768, 32767)
	v := (raw + 32768) * maxTrigger / 65535
	if dir < 0 {
		v = maxTrigger - v
	}
	return uint8(v)
}

type stickAxis struct {
	stick, axis int
	neg, pos    input.Input
}

var stickAxes = []stickAxis{
	{0, 0, input.LeftStickLeft, input.LeftStickRight},
	{0, 1, input.LeftStickUp, input.LeftStickDown},
	{1, 0, input.RightStickLeft, input.RightStickRight},
	{1, 1, input.RightStickUp, input.RightStickDown},
}

// direction records the magnitude of one stick direction and rewrites the
// stick field from both opposing directions.
func (t *Translator) direction(in input.Input, m int32) {
	t.dirs[in] = m
	for _, sa := range stickAxes {
		if sa.neg != in && sa.pos != in {
			continue
		}
		v := physical.Clamp(t.dirs[sa.pos]-t.dirs[sa.neg], -32768, maxMagnitude)
		t.report.SetStick(sa.stick, sa.axis, int16(v))
		return
	}
}
