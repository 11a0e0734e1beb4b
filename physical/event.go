package physical

import (
	"errors"
	"fmt"

	"github.com/Alia5/padmap/input"
)

// Event is a single change of one physical control. Value is 0/1 for digital
// controls, the new bitmask for hats and the raw reading for axes.
type Event struct {
	Kind    input.Kind
	Index   int32
	Value   int32
	Removed bool
}

// RemovedEvent signals that the device is gone.
var RemovedEvent = Event{Removed: true}

func (e Event) String() string {
	if e.Removed {
		return "removed"
	}
	return fmt.Sprintf("%s %d = %d", e.Kind, e.Index, e.Value)
}

// Diff returns the events that turn prev into cur, hats first, then digital
// controls, then axes, each by ascending index. A nil prev is treated as the
// all-zero state of the same shape.
func Diff(prev, cur *State) []Event {
	if cur == nil {
		return nil
	}
	if prev == nil {
		prev = &State{}
	}
	var out []Event
	for i, h := range cur.Hats {
		var was uint8
		if i < len(prev.Hats) {
			was = prev.Hats[i]
		}
		if h != was {
			out = append(out, Event{Kind: input.Hat, Index: int32(i), Value: int32(h)})
		}
	}
	out = diffBools(out, input.Button, prev.Buttons, cur.Buttons)
	out = diffBools(out, input.Shoulder, prev.Shoulders, cur.Shoulders)
	out = diffBools(out, input.Thumb, prev.Thumbs, cur.Thumbs)
	out = diffAxes(out, input.Stick, prev.Axes, cur.Axes)
	out = diffAxes(out, input.Trigger, prev.Triggers, cur.Triggers)
	return out
}

func diffBools(out []Event, kind input.Kind, prev, cur []bool) []Event {
	for i, on := range cur {
		was := i < len(prev) && prev[i]
		if on == was {
			continue
		}
		v := int32(0)
		if on {
			v = 1
		}
		out = append(out, Event{Kind: kind, Index: int32(i), Value: v})
	}
	return out
}

func diffAxes(out []Event, kind input.Kind, prev, cur []int16) []Event {
	for i, v := range cur {
		var was int16
		if i < len(prev) {
			was = prev[i]
		}
		if v == was {
			continue
		}
		out = append(out, Event{Kind: kind, Index: int32(i), Value: int32(v)})
	}
	return out
}

// Poller turns a polled Device into an event stream.
type Poller struct {
	dev  Device
	prev *State
}

// NewPoller returns a poller whose first Poll reports every control that
// reads non-zero.
func NewPoller(dev Device) *Poller { return &Poller{dev: dev} }

// Poll updates the device and returns the changes since the last call. A
// removed device yields the single RemovedEvent together with ErrRemoved.
func (p *Poller) Poll() ([]Event, error) {
	if err := p.dev.Update(); err != nil {
		if errors.Is(err, ErrRemoved) {
			return []Event{RemovedEvent}, err
		}
		return nil, err
	}
	cur := p.dev.State().Clone()
	evs := Diff(p.prev, cur)
	p.prev = cur
	return evs, nil
}
