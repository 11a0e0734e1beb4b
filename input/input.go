// Package input defines the canonical vocabulary of logical gamepad controls
// and the signature type used to describe whatever physical control was
// observed to drive one of them.
package input

import (
	"fmt"
	"strings"
)

// Input is one logical control of the abstract target gamepad.
type Input uint8

const (
	DPadUp Input = iota
	DPadDown
	DPadLeft
	DPadRight
	Start
	Back
	Guide
	A
	B
	X
	Y
	LeftShoulder
	RightShoulder
	LeftTrigger
	RightTrigger
	LeftThumb
	RightThumb
	LeftStickUp
	LeftStickDown
	LeftStickLeft
	LeftStickRight
	RightStickUp
	RightStickDown
	RightStickLeft
	RightStickRight

	// Count is the number of canonical inputs.
	Count
)

var names = [Count]string{
	DPadUp:          "DPAD_UP",
	DPadDown:        "DPAD_DOWN",
	DPadLeft:        "DPAD_LEFT",
	DPadRight:       "DPAD_RIGHT",
	Start:           "START",
	Back:            "BACK",
	Guide:           "GUIDE",
	A:               "A",
	B:               "B",
	X:               "X",
	Y:               "Y",
	LeftShoulder:    "LEFT_SHOULDER",
	RightShoulder:   "RIGHT_SHOULDER",
	LeftTrigger:     "LEFT_TRIGGER",
	RightTrigger:    "RIGHT_TRIGGER",
	LeftThumb:       "LEFT_THUMB",
	RightThumb:      "RIGHT_THUMB",
	LeftStickUp:     "LEFT_STICK_UP",
	LeftStickDown:   "LEFT_STICK_DOWN",
	LeftStickLeft:   "LEFT_STICK_LEFT",
	LeftStickRight:  "LEFT_STICK_RIGHT",
	RightStickUp:    "RIGHT_STICK_UP",
	RightStickDown:  "RIGHT_STICK_DOWN",
	RightStickLeft:  "RIGHT_STICK_LEFT",
	RightStickRight: "RIGHT_STICK_RIGHT",
}

// All returns every canonical input in declaration order.
func All() []Input {
	out := make([]Input, Count)
	for i := range out {
		out[i] = Input(i)
	}
	return out
}

// Valid reports whether in names a canonical input.
func (in Input) Valid() bool { return in < Count }

// String returns the stable identifier (e.g. "LEFT_STICK_LEFT").
func (in Input) String() string {
	if !in.Valid() {
		return fmt.Sprintf("INPUT(%d)", uint8(in))
	}
	return names[in]
}

// Format returns a human readable name (e.g. "Left Stick Left") used by
// capture prompts and diagnostics.
func (in Input) Format() string {
	if !in.Valid() {
		return in.String()
	}
	switch in {
	case DPadUp, DPadDown, DPadLeft, DPadRight:
		return "D-Pad " + title(strings.TrimPrefix(names[in], "DPAD_"))
	}
	return title(names[in])
}

// Verb is the action an operator performs on this input ("press", "move",
// "squeeze").
func (in Input) Verb() string { return Category(in).Verb() }

// IsAnalog reports whether the canonical output for in is an analog field
// (trigger or stick direction) rather than a single bit.
func (in Input) IsAnalog() bool {
	k := Category(in)
	return k == Trigger || k == Stick
}

// Category returns the kind of control the canonical input represents. It is
// also used to group inputs for capture ordering.
func Category(in Input) Kind {
	switch in {
	case DPadUp, DPadDown, DPadLeft, DPadRight:
		return Hat
	case LeftShoulder, RightShoulder:
		return Shoulder
	case LeftTrigger, RightTrigger:
		return Trigger
	case LeftThumb, RightThumb:
		return Thumb
	case LeftStickUp, LeftStickDown, LeftStickLeft, LeftStickRight,
		RightStickUp, RightStickDown, RightStickLeft, RightStickRight:
		return Stick
	case Start, Back, Guide, A, B, X, Y:
		return Button
	}
	return Unset
}

// Parse resolves a canonical input from its identifier. Matching ignores
// case and treats '-', ' ' and '_' alike, so "left-stick-left" works.
func Parse(s string) (Input, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for i, n := range names {
		if n == norm {
			return Input(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input: %q", s)
}

func title(ident string) string {
	parts := strings.Split(strings.ToLower(ident), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
