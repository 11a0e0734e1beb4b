// Package physical models a connected controller as seen before any mapping
// is applied: anonymous buttons, hats and axes addressed by index.
package physical

import (
	"errors"

	"github.com/Alia5/padmap/input"
)

// ErrRemoved is returned once the device has gone away. It is final; the
// session owning the device has to end.
var ErrRemoved = errors.New("device removed")

// Deadzone is the default tolerance around an axis baseline, in raw int16
// units, within which the axis counts as centered.
const Deadzone = 8000

// Device is a physical controller that is polled once per tick.
type Device interface {
	// Name is the name the driver reports; profiles are keyed on it.
	Name() string
	// Update refreshes the state snapshot. Transient failures are returned
	// as-is and may be retried next tick; ErrRemoved is final.
	Update() error
	// State returns the snapshot taken by the last Update. The caller must
	// not retain it across Update calls.
	State() *State
	Close() error
}

// State is one snapshot of every control of a device. Axis values use the
// full int16 range; hats use the HatUp/Right/Down/Left bitmask.
type State struct {
	Buttons   []bool
	Hats      []uint8
	Axes      []int16
	Triggers  []int16
	Shoulders []bool
	Thumbs    []bool
}

// NewState allocates a zeroed state with the given control counts.
func NewState(buttons, hats, axes int) *State {
	return &State{
		Buttons: make([]bool, buttons),
		Hats:    make([]uint8, hats),
		Axes:    make([]int16, axes),
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	return &State{
		Buttons:   append([]bool(nil), s.Buttons...),
		Hats:      append([]uint8(nil), s.Hats...),
		Axes:      append([]int16(nil), s.Axes...),
		Triggers:  append([]int16(nil), s.Triggers...),
		Shoulders: append([]bool(nil), s.Shoulders...),
		Thumbs:    append([]bool(nil), s.Thumbs...),
	}
}

// Read returns the current reading of the control (kind, index). Digital
// controls read 0 or 1, hats read their bitmask. ok is false for controls the
// device does not have.
func (s *State) Read(kind input.Kind, index int32) (v int32, ok bool) {
	if index < 0 {
		return 0, false
	}
	switch kind {
	case input.Button:
		return readBool(s.Buttons, index)
	case input.Shoulder:
		return readBool(s.Shoulders, index)
	case input.Thumb:
		return readBool(s.Thumbs, index)
	case input.Hat:
		if int(index) < len(s.Hats) {
			return int32(s.Hats[index]), true
		}
	case input.Stick:
		if int(index) < len(s.Axes) {
			return int32(s.Axes[index]), true
		}
	case input.Trigger:
		if int(index) < len(s.Triggers) {
			return int32(s.Triggers[index]), true
		}
	}
	return 0, false
}

func readBool(s []bool, index int32) (int32, bool) {
	if int(index) >= len(s) {
		return 0, false
	}
	if s[index] {
		return 1, true
	}
	return 0, true
}

// Active reports whether any control deviates from rest: a digital control is
// held, a hat is off-center or an axis is further than threshold from its
// baseline.
func Active(s *State, b *Baseline, threshold int32) bool {
	for _, list := range [][]bool{s.Buttons, s.Shoulders, s.Thumbs} {
		for _, on := range list {
			if on {
				return true
			}
		}
	}
	for _, h := range s.Hats {
		if h != 0 {
			return true
		}
	}
	for i, v := range s.Axes {
		if Abs(int32(v)-b.Center(input.Stick, int32(i))) > threshold {
			return true
		}
	}
	for i, v := range s.Triggers {
		if Abs(int32(v)-b.Center(input.Trigger, int32(i))) > threshold {
			return true
		}
	}
	return false
}
