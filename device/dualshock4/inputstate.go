// Package dualshock4 is the DS4-shaped canonical report: a button word with
// the hat in its low nibble, a special-button byte, 8-bit triggers and
// sticks, and one IMU sample.
package dualshock4

import (
	"encoding/binary"
	"io"

	"github.com/Alia5/padmap/input"
)

// Button bits of InputState.Buttons. The low nibble holds the hat code.
const (
	ButtonSquare   uint16 = 1 << 4
	ButtonCross    uint16 = 1 << 5
	ButtonCircle   uint16 = 1 << 6
	ButtonTriangle uint16 = 1 << 7
	ButtonL1       uint16 = 1 << 8
	ButtonR1       uint16 = 1 << 9
	ButtonL2       uint16 = 1 << 10
	ButtonR2       uint16 = 1 << 11
	ButtonShare    uint16 = 1 << 12
	ButtonOptions  uint16 = 1 << 13
	ButtonL3       uint16 = 1 << 14
	ButtonR3       uint16 = 1 << 15

	hatMask uint16 = 0x000F
)

// Special bits.
const (
	SpecialPS       uint8 = 0x01
	SpecialTouchpad uint8 = 0x02
)

// Hat codes run clockwise from north.
const (
	HatN uint8 = iota
	HatNE
	HatE
	HatSE
	HatS
	HatSW
	HatW
	HatNW
	HatNeutral
)

// Direction bits of a hat mask.
const (
	DirUp    uint8 = 0x01
	DirRight uint8 = 0x02
	DirDown  uint8 = 0x04
	DirLeft  uint8 = 0x08
)

var hatMasks = [8]uint8{
	HatN:  DirUp,
	HatNE: DirUp | DirRight,
	HatE:  DirRight,
	HatSE: DirDown | DirRight,
	HatS:  DirDown,
	HatSW: DirDown | DirLeft,
	HatW:  DirLeft,
	HatNW: DirUp | DirLeft,
}

// HatFromMask encodes a direction mask as a hat code. Opposing directions
// cancel out.
func HatFromMask(mask uint8) uint8 {
	if mask&(DirUp|DirDown) == DirUp|DirDown {
		mask &^= DirUp | DirDown
	}
	if mask&(DirLeft|DirRight) == DirLeft|DirRight {
		mask &^= DirLeft | DirRight
	}
	mask &= 0x0F
	for code, m := range hatMasks {
		if m == mask {
			return uint8(code)
		}
	}
	return HatNeutral
}

// MaskFromHat decodes a hat code. Codes outside 0..7 are neutral.
func MaskFromHat(code uint8) uint8 {
	if int(code) >= len(hatMasks) {
		return 0
	}
	return hatMasks[code]
}

var buttonBits = map[input.Input]uint16{
	input.A:             ButtonCross,
	input.B:             ButtonCircle,
	input.X:             ButtonSquare,
	input.Y:             ButtonTriangle,
	input.LeftShoulder:  ButtonL1,
	input.RightShoulder: ButtonR1,
	input.Back:          ButtonShare,
	input.Start:         ButtonOptions,
	input.LeftThumb:     ButtonL3,
	input.RightThumb:    ButtonR3,
}

var dpadBits = map[input.Input]uint8{
	input.DPadUp:    DirUp,
	input.DPadRight: DirRight,
	input.DPadDown:  DirDown,
	input.DPadLeft:  DirLeft,
}

// InputStateSize is the wire size of InputState.
const InputStateSize = 24

// InputState is the wire format for one canonical report.
// Total size: 24 bytes (fixed), little-endian.
// Layout:
//
//	Buttons: 2 bytes (hat code in bits 0-3, button bits above)
//	Special: 1 byte
//	LT, RT: 1 byte each
//	LX, LY, RX, RY: 1 byte each (0x80 centered, Y grows downward)
//	Gyro: 3 x 2 bytes (int16, 16 per deg/s)
//	Accel: 3 x 2 bytes (int16, 8192 per g)
//	Timestamp: 2 bytes
//	Battery: 1 byte
type InputState struct {
	Buttons   uint16
	Special   uint8
	LT, RT    uint8
	LX, LY    uint8
	RX, RY    uint8
	Gyro      [3]int16
	Accel     [3]int16
	Timestamp uint16
	Battery   uint8

	// dpad holds the pressed d-pad directions, which the hat code cannot
	// carry once opposing directions are held together. It is not part of
	// the wire format.
	dpad uint8
}

// NewInputState returns a report at rest.
func NewInputState() *InputState {
	s := &InputState{}
	s.Reset()
	return s
}

// MarshalBinary encodes InputState to the fixed 24-byte wire format.
func (s *InputState) MarshalBinary() ([]byte, error) {
	b := make([]byte, InputStateSize)
	binary.LittleEndian.PutUint16(b[0:2], s.Buttons)
	b[2] = s.Special
	b[3] = s.LT
	b[4] = s.RT
	b[5] = s.LX
	b[6] = s.LY
	b[7] = s.RX
	b[8] = s.RY
	o := 9
	putI16 := func(v int16) {
		binary.LittleEndian.PutUint16(b[o:o+2], uint16(v))
		o += 2
	}
	for _, v := range s.Gyro {
		putI16(v)
	}
	for _, v := range s.Accel {
		putI16(v)
	}
	binary.LittleEndian.PutUint16(b[o:o+2], s.Timestamp)
	b[o+2] = s.Battery
	return b, nil
}

// UnmarshalBinary decodes InputState from the fixed 24-byte wire format.
func (s *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < InputStateSize {
		return io.ErrUnexpectedEOF
	}
	s.Buttons = binary.LittleEndian.Uint16(data[0:2])
	s.Special = data[2]
	s.LT = data[3]
	s.RT = data[4]
	s.LX = data[5]
	s.LY = data[6]
	s.RX = data[7]
	s.RY = data[8]
	o := 9
	getI16 := func() int16 {
		v := int16(binary.LittleEndian.Uint16(data[o : o+2]))
		o += 2
		return v
	}
	for i := range s.Gyro {
		s.Gyro[i] = getI16()
	}
	for i := range s.Accel {
		s.Accel[i] = getI16()
	}
	s.Timestamp = binary.LittleEndian.Uint16(data[o : o+2])
	s.Battery = data[o+2]
	return nil
}

// Hat returns the hat code held in the button word.
func (s *InputState) Hat() uint8 { return uint8(s.Buttons & hatMask) }

// SetHat stores a hat code in the button word.
func (s *InputState) SetHat(code uint8) {
	s.Buttons = s.Buttons&^hatMask | uint16(code)&hatMask
}

// SetButton sets or clears a digital canonical input. D-pad inputs are
// folded into the hat code; Guide drives the PS bit.
func (s *InputState) SetButton(in input.Input, on bool) {
	if dir, ok := dpadBits[in]; ok {
		mask := s.heldDirections()
		if on {
			mask |= dir
		} else {
			mask &^= dir
		}
		s.dpad = mask
		s.SetHat(HatFromMask(mask))
		return
	}
	if in == input.Guide {
		if on {
			s.Special |= SpecialPS
		} else {
			s.Special &^= SpecialPS
		}
		return
	}
	bit, ok := buttonBits[in]
	if !ok {
		return
	}
	if on {
		s.Buttons |= bit
	} else {
		s.Buttons &^= bit
	}
}

// Button reports whether in is currently held in the report. A d-pad
// direction stays held while its opposite is held too, even though the hat
// reads neutral.
func (s *InputState) Button(in input.Input) bool {
	if dir, ok := dpadBits[in]; ok {
		return s.heldDirections()&dir != 0
	}
	if in == input.Guide {
		return s.Special&SpecialPS != 0
	}
	bit, ok := buttonBits[in]
	return ok && s.Buttons&bit != 0
}

// heldDirections returns the pressed d-pad directions. A hat code written
// with SetHat or decoded from the wire takes precedence over a stale mask.
func (s *InputState) heldDirections() uint8 {
	if HatFromMask(s.dpad) != s.Hat() {
		return MaskFromHat(s.Hat())
	}
	return s.dpad
}

// SetStick stores one stick axis. stick 0 is left, 1 is right; axis 0 is X,
// 1 is Y. v is positive toward right and down.
func (s *InputState) SetStick(stick, axis int, v int16) {
	b := uint8(int32(v)>>8 + 0x80)
	switch {
	case stick == 0 && axis == 0:
		s.LX = b
	case stick == 0 && axis == 1:
		s.LY = b
	case stick == 1 && axis == 0:
		s.RX = b
	case stick == 1 && axis == 1:
		s.RY = b
	}
}

// SetTrigger stores a trigger value and the matching digital L2/R2 bit.
func (s *InputState) SetTrigger(in input.Input, v uint8) {
	var bit uint16
	switch in {
	case input.LeftTrigger:
		s.LT, bit = v, ButtonL2
	case input.RightTrigger:
		s.RT, bit = v, ButtonR2
	default:
		return
	}
	if v > 0 {
		s.Buttons |= bit
	} else {
		s.Buttons &^= bit
	}
}

// Reset returns every input field to rest. IMU, timestamp and battery are
// kept.
func (s *InputState) Reset() {
	s.Buttons = uint16(HatNeutral)
	s.dpad = 0
	s.Special = 0
	s.LT, s.RT = 0, 0
	s.LX, s.LY, s.RX, s.RY = 0x80, 0x80, 0x80, 0x80
}
