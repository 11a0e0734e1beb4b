// Package testing holds fakes shared by the package tests.
package testing

import (
	"sync"

	"github.com/Alia5/padmap/capture"
	"github.com/Alia5/padmap/input"
	"github.com/Alia5/padmap/physical"
)

// MaxUpdates bounds how often a FakeDevice may be polled so a broken test
// fails with ErrRemoved instead of spinning forever.
const MaxUpdates = 100000

// FakeDevice replays a script of states, one per Update. Once the script is
// exhausted the last state is repeated. When RemoveAt is non-zero, the
// RemoveAt-th Update reports the device as removed.
type FakeDevice struct {
	DeviceName string
	Frames     []*physical.State
	RemoveAt   int

	mu      sync.Mutex
	updates int
	cur     *physical.State
	closed  bool
}

// NewFakeDevice returns a device named name replaying frames.
func NewFakeDevice(name string, frames ...*physical.State) *FakeDevice {
	return &FakeDevice{DeviceName: name, Frames: frames}
}

func (d *FakeDevice) Name() string { return d.DeviceName }

func (d *FakeDevice) Update() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updates++
	if d.closed || d.updates > MaxUpdates || (d.RemoveAt > 0 && d.updates >= d.RemoveAt) {
		return physical.ErrRemoved
	}
	switch {
	case d.updates <= len(d.Frames):
		d.cur = d.Frames[d.updates-1]
	case d.cur == nil:
		d.cur = &physical.State{}
	}
	return nil
}

func (d *FakeDevice) State() *physical.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cur == nil {
		return &physical.State{}
	}
	return d.cur
}

func (d *FakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Updates returns how many times Update was called.
func (d *FakeDevice) Updates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.updates
}

// Idle returns a state of 16 buttons, one hat and 6 axes, all at rest.
func Idle() *physical.State { return physical.NewState(16, 1, 6) }

// Button returns an idle state with button i held.
func Button(i int) *physical.State {
	s := Idle()
	s.Buttons[i] = true
	return s
}

// Hat returns an idle state with hat 0 reading mask.
func Hat(mask uint8) *physical.State {
	s := Idle()
	s.Hats[0] = mask
	return s
}

// Axis returns an idle state with axis i at v.
func Axis(i int, v int16) *physical.State {
	s := Idle()
	s.Axes[i] = v
	return s
}

// Repeat returns n copies of s.
func Repeat(s *physical.State, n int) []*physical.State {
	out := make([]*physical.State, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// Script concatenates frame groups.
func Script(groups ...[]*physical.State) []*physical.State {
	var out []*physical.State
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Frames is a convenience for building a group from single states.
func Frames(states ...*physical.State) []*physical.State { return states }

// FakePrompter records prompts and rejections. Inputs listed in Skip or Abort
// make the next Key call after their prompt return the respective key.
type FakePrompter struct {
	Skip  map[input.Input]bool
	Abort map[input.Input]bool

	mu      sync.Mutex
	Prompts []input.Input
	Texts   []string
	Rejects []error
	pending capture.Key
}

func (p *FakePrompter) Prompt(in input.Input, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Prompts = append(p.Prompts, in)
	p.Texts = append(p.Texts, text)
	switch {
	case p.Abort[in]:
		p.pending = capture.KeyAbort
	case p.Skip[in]:
		p.pending = capture.KeySkip
	}
}

func (p *FakePrompter) Reject(in input.Input, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Rejects = append(p.Rejects, err)
}

// Key returns and clears the key queued by the last prompt.
func (p *FakePrompter) Key() capture.Key {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := p.pending
	p.pending = capture.KeyNone
	return k
}
