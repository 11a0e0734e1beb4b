package input

import "fmt"

// Kind is the class of a physical (or canonical) control.
type Kind uint8

const (
	Unset Kind = iota
	Hat
	Stick
	Thumb
	Trigger
	Shoulder
	Button
)

var kindNames = [...]string{
	Unset:    "unset",
	Hat:      "hat",
	Stick:    "stick",
	Thumb:    "thumb",
	Trigger:  "trigger",
	Shoulder: "shoulder",
	Button:   "button",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is a known kind (including Unset).
func (k Kind) Valid() bool { return int(k) < len(kindNames) }

// Verb returns the operator action for a control of this kind.
func (k Kind) Verb() string {
	switch k {
	case Trigger:
		return "squeeze"
	case Stick:
		return "move"
	default:
		return "press"
	}
}

// Analog reports whether controls of this kind produce axis readings.
func (k Kind) Analog() bool { return k == Stick || k == Trigger }

// RangeMode marks an analog axis that sweeps through both signs and has to
// be treated as one full-range input.
type RangeMode uint8

const (
	RangeNone RangeMode = iota
	// RangeFull is set when capture observed the axis crossing over from one
	// sign to the other.
	RangeFull
)

// Hat direction bits. One hat reading encodes the whole d-pad at once.
const (
	HatUp    int32 = 0x01
	HatRight int32 = 0x02
	HatDown  int32 = 0x04
	HatLeft  int32 = 0x08
)

// Signature describes a physical control. It is comparable and used as a map
// key; the zero value is the Unset signature.
type Signature struct {
	Kind  Kind
	Index int32
	// Value is the discriminating reading: direction sign for axes, direction
	// bit for hats and 1 for buttons.
	Value int32
	Range RangeMode
}

// IsSet reports whether the signature describes a physical control.
func (s Signature) IsSet() bool { return s.Kind != Unset }

// Key is the (kind, index, value) identity used to reject duplicate captures.
type Key struct {
	Kind  Kind
	Index int32
	Value int32
}

// Key returns the deduplication key of s. RangeMode is not part of it.
func (s Signature) Key() Key { return Key{Kind: s.Kind, Index: s.Index, Value: s.Value} }

// String renders the signature for prompts and diagnostics.
func (s Signature) String() string {
	switch s.Kind {
	case Unset:
		return "unset"
	case Hat:
		return fmt.Sprintf("hat %d %s", s.Index, hatName(s.Value))
	case Stick, Trigger:
		sign := "+"
		if s.Value < 0 {
			sign = "-"
		}
		out := fmt.Sprintf("%s %d %s", s.Kind, s.Index, sign)
		if s.Range == RangeFull {
			out += " (full range)"
		}
		return out
	default:
		return fmt.Sprintf("%s %d", s.Kind, s.Index)
	}
}

func hatName(v int32) string {
	switch v {
	case HatUp:
		return "up"
	case HatRight:
		return "right"
	case HatDown:
		return "down"
	case HatLeft:
		return "left"
	}
	return fmt.Sprintf("0x%02x", v)
}
