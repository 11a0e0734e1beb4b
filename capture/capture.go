// Package capture learns which physical control drives each canonical input
// by prompting an operator and watching the device.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Alia5/padmap/input"
	"github.com/Alia5/padmap/mapping"
	"github.com/Alia5/padmap/physical"
)

var (
	// ErrAborted is returned when the operator or the process cancels a
	// session.
	ErrAborted = errors.New("capture aborted")
	// ErrDuplicate is handed to the prompter when a signal is already bound
	// to another input of the same table.
	ErrDuplicate = errors.New("signal already bound")
)

// Key is an out-of-band operator command read between polls.
type Key int

const (
	KeyNone Key = iota
	// KeySkip leaves the current input Unset and moves on.
	KeySkip
	// KeyAbort ends the session.
	KeyAbort
)

// Prompter is the operator-facing side of a capture session.
type Prompter interface {
	// Prompt asks the operator to actuate in.
	Prompt(in input.Input, text string)
	// Reject tells the operator the last signal was refused and in will be
	// prompted again.
	Reject(in input.Input, err error)
	// Key polls for a pending skip or abort without blocking.
	Key() Key
}

// Defaults for the capture heuristics.
const (
	DefaultThreshold    int32 = 16384
	DefaultWindow             = 200 * time.Millisecond
	DefaultSteps              = 12
	DefaultPollInterval       = 10 * time.Millisecond
)

// Session captures signatures from one device.
type Session struct {
	Device   physical.Device
	Prompter Prompter
	Logger   *slog.Logger
	Baseline *physical.Baseline

	// Threshold is how far from baseline an axis has to travel to count as
	// actuated. IdleThreshold is the tolerance used while waiting for the
	// device to settle.
	Threshold     int32
	IdleThreshold int32
	// Window and Steps shape the crossover detection that follows the first
	// significant axis reading.
	Window       time.Duration
	Steps        int
	PollInterval time.Duration

	// CommitOnAbort returns the inputs captured before an abort instead of
	// discarding them.
	CommitOnAbort bool

	// Sleep waits between polls; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (s *Session) defaults() {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.Threshold <= 0 {
		s.Threshold = DefaultThreshold
	}
	if s.IdleThreshold <= 0 {
		s.IdleThreshold = physical.Deadzone
	}
	if s.Window <= 0 {
		s.Window = DefaultWindow
	}
	if s.Steps <= 0 {
		s.Steps = DefaultSteps
	}
	if s.PollInterval <= 0 {
		s.PollInterval = DefaultPollInterval
	}
	if s.Sleep == nil {
		s.Sleep = sleep
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var errSkipped = errors.New("skipped")

// Run captures inputs in order (every input in capture order when empty) and
// returns a new table holding the result. table itself is never modified and
// may be nil.
//
// On abort Run returns ErrAborted together with nil, or with the table as it
// stood before the interrupted input when CommitOnAbort is set. Device
// removal ends the session with physical.ErrRemoved and no table.
func (s *Session) Run(ctx context.Context, table *mapping.Table, inputs []input.Input) (*mapping.Table, error) {
	s.defaults()
	if table == nil {
		table = mapping.NewTable()
	}
	if len(inputs) == 0 {
		inputs = mapping.CaptureOrder()
	}
	work := table.Clone()

	remap := make(map[input.Input]bool, len(inputs))
	for _, in := range inputs {
		remap[in] = true
	}
	used := make(map[input.Key]input.Input)
	for i, sig := range work.Entries() {
		in := input.Input(i)
		if sig.IsSet() && !remap[in] {
			used[sig.Key()] = in
		}
	}

	for _, in := range inputs {
		if !in.Valid() {
			return nil, fmt.Errorf("unknown input %d", in)
		}
		for {
			sig, err := s.captureOne(ctx, in)
			if errors.Is(err, errSkipped) {
				s.Logger.Info("input skipped", "input", in)
				work.Clear(in)
				break
			}
			if err != nil {
				if errors.Is(err, ErrAborted) {
					s.Logger.Info("capture aborted", "input", in)
					if s.CommitOnAbort {
						return work, ErrAborted
					}
					return nil, ErrAborted
				}
				return nil, err
			}
			if owner, dup := used[sig.Key()]; dup && owner != in {
				rej := fmt.Errorf("%w: %s is already bound to %s", ErrDuplicate, sig, owner.Format())
				s.Logger.Warn("duplicate signal", "input", in, "signal", sig.String(), "owner", owner)
				s.Prompter.Reject(in, rej)
				continue
			}
			used[sig.Key()] = in
			work.Set(in, sig)
			s.Logger.Debug("input captured", "input", in, "signal", sig.String())
			break
		}
	}
	return work, nil
}

// Text is the prompt shown for in, e.g. "Squeeze Left Trigger".
func Text(in input.Input) string {
	verb := in.Verb()
	return strings.ToUpper(verb[:1]) + verb[1:] + " " + in.Format()
}

func (s *Session) captureOne(ctx context.Context, in input.Input) (input.Signature, error) {
	if err := s.waitIdle(ctx); err != nil {
		return input.Signature{}, err
	}
	s.Prompter.Prompt(in, Text(in))
	for {
		if err := s.check(ctx); err != nil {
			return input.Signature{}, err
		}
		if err := s.Device.Update(); err != nil {
			if errors.Is(err, physical.ErrRemoved) {
				return input.Signature{}, err
			}
			s.Logger.Debug("device read failed", "error", err)
		} else if sig, analog := s.detect(s.Device.State()); sig.IsSet() {
			if !analog {
				return sig, nil
			}
			return s.sweep(ctx, sig)
		}
		if err := s.pause(ctx, s.PollInterval); err != nil {
			return input.Signature{}, err
		}
	}
}

func (s *Session) check(ctx context.Context) error {
	if ctx.Err() != nil {
		return ErrAborted
	}
	switch s.Prompter.Key() {
	case KeyAbort:
		return ErrAborted
	case KeySkip:
		return errSkipped
	}
	return nil
}

func (s *Session) pause(ctx context.Context, d time.Duration) error {
	if err := s.Sleep(ctx, d); err != nil {
		return ErrAborted
	}
	return nil
}

// waitIdle blocks until nothing on the device is actuated so a held control
// from the previous input cannot leak into the next one.
func (s *Session) waitIdle(ctx context.Context) error {
	for {
		if err := s.check(ctx); err != nil {
			return err
		}
		if err := s.Device.Update(); err != nil {
			if errors.Is(err, physical.ErrRemoved) {
				return err
			}
		} else if !physical.Active(s.Device.State(), s.Baseline, s.IdleThreshold) {
			return nil
		}
		if err := s.pause(ctx, s.PollInterval); err != nil {
			return err
		}
	}
}

var hatOrder = []int32{input.HatUp, input.HatRight, input.HatDown, input.HatLeft}

// detect returns the first actuated control of st. analog is true when the
// control is an axis whose direction still has to be classified.
func (s *Session) detect(st *physical.State) (sig input.Signature, analog bool) {
	for i, h := range st.Hats {
		for _, bit := range hatOrder {
			if int32(h)&bit != 0 {
				return input.Signature{Kind: input.Hat, Index: int32(i), Value: bit}, false
			}
		}
	}
	digital := []struct {
		kind input.Kind
		vals []bool
	}{
		{input.Button, st.Buttons},
		{input.Shoulder, st.Shoulders},
		{input.Thumb, st.Thumbs},
	}
	for _, d := range digital {
		for i, on := range d.vals {
			if on {
				return input.Signature{Kind: d.kind, Index: int32(i), Value: 1}, false
			}
		}
	}
	for i, v := range st.Axes {
		if d := int32(v) - s.Baseline.Center(input.Stick, int32(i)); physical.Abs(d) > s.Threshold {
			return input.Signature{Kind: input.Stick, Index: int32(i), Value: sign(d)}, true
		}
	}
	for i, v := range st.Triggers {
		if d := int32(v) - s.Baseline.Center(input.Trigger, int32(i)); physical.Abs(d) > s.Threshold {
			return input.Signature{Kind: input.Trigger, Index: int32(i), Value: sign(d)}, true
		}
	}
	return input.Signature{}, false
}

// sweep watches the axis of first for a short window. The direction is taken
// from the raw reading, not from the baseline, so an axis that rests at one
// end still registers a crossover through zero. Readings that stay on one side
// keep the initial direction; a crossover marks the signature full range and
// takes the side the sweep ended on. Readings within IdleThreshold of zero
// have no side.
func (s *Session) sweep(ctx context.Context, first input.Signature) (input.Signature, error) {
	step := s.Window / time.Duration(s.Steps)
	start := int32(0)
	if v, ok := s.Device.State().Read(first.Kind, first.Index); ok {
		start = s.side(v)
	}
	last := start
	crossed := false
	for n := 0; n < s.Steps; n++ {
		if err := s.pause(ctx, step); err != nil {
			return input.Signature{}, err
		}
		if err := s.Device.Update(); err != nil {
			if errors.Is(err, physical.ErrRemoved) {
				return input.Signature{}, err
			}
			continue
		}
		v, ok := s.Device.State().Read(first.Kind, first.Index)
		if !ok {
			continue
		}
		sd := s.side(v)
		switch {
		case sd == 0:
		case start == 0:
			start, last = sd, sd
		case sd != start:
			crossed = true
			last = sd
		case crossed:
			last = sd
		}
	}
	if !crossed {
		return first, nil
	}
	return input.Signature{Kind: first.Kind, Index: first.Index, Value: last, Range: input.RangeFull}, nil
}

// side is the sign of a raw reading, or 0 inside the idle band around zero.
func (s *Session) side(v int32) int32 {
	if physical.Abs(v) <= s.IdleThreshold {
		return 0
	}
	return sign(v)
}

func sign(v int32) int32 {
	if v < 0 {
		return -1
	}
	return 1
}
