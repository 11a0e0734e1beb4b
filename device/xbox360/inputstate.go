// Package xbox360 is the Xbox-shaped canonical report: one button word, two
// trigger bytes and four signed 16-bit stick axes.
package xbox360

import (
	"encoding/binary"
	"io"

	"github.com/Alia5/padmap/input"
)

// Button bits, XInput layout.
const (
	ButtonDPadUp    uint16 = 0x0001
	ButtonDPadDown  uint16 = 0x0002
	ButtonDPadLeft  uint16 = 0x0004
	ButtonDPadRight uint16 = 0x0008
	ButtonStart     uint16 = 0x0010
	ButtonBack      uint16 = 0x0020
	ButtonLThumb    uint16 = 0x0040
	ButtonRThumb    uint16 = 0x0080
	ButtonLShoulder uint16 = 0x0100
	ButtonRShoulder uint16 = 0x0200
	ButtonGuide     uint16 = 0x0400
	ButtonA         uint16 = 0x1000
	ButtonB         uint16 = 0x2000
	ButtonX         uint16 = 0x4000
	ButtonY         uint16 = 0x8000
)

var buttonBits = map[input.Input]uint16{
	input.DPadUp:        ButtonDPadUp,
	input.DPadDown:      ButtonDPadDown,
	input.DPadLeft:      ButtonDPadLeft,
	input.DPadRight:     ButtonDPadRight,
	input.Start:         ButtonStart,
	input.Back:          ButtonBack,
	input.Guide:         ButtonGuide,
	input.A:             ButtonA,
	input.B:             ButtonB,
	input.X:             ButtonX,
	input.Y:             ButtonY,
	input.LeftShoulder:  ButtonLShoulder,
	input.RightShoulder: ButtonRShoulder,
	input.LeftThumb:     ButtonLThumb,
	input.RightThumb:    ButtonRThumb,
}

// ButtonBit returns the report bit of a digital canonical input.
func ButtonBit(in input.Input) (uint16, bool) {
	b, ok := buttonBits[in]
	return b, ok
}

// InputStateSize is the wire size of InputState.
const InputStateSize = 12

// InputState is the wire format for one canonical report.
// Total size: 12 bytes (fixed).
// Layout:
//
//	Buttons: 2 bytes (LE uint16)
//	LT: 1 byte
//	RT: 1 byte
//	LX: 2 bytes (LE int16)
//	LY: 2 bytes (LE int16, positive is up)
//	RX: 2 bytes (LE int16)
//	RY: 2 bytes (LE int16, positive is up)
type InputState struct {
	Buttons uint16
	LT, RT  uint8
	LX, LY  int16
	RX, RY  int16
}

// MarshalBinary encodes InputState to 12 bytes.
func (x *InputState) MarshalBinary() ([]byte, error) {
	b := make([]byte, InputStateSize)
	binary.LittleEndian.PutUint16(b[0:2], x.Buttons)
	b[2] = x.LT
	b[3] = x.RT
	binary.LittleEndian.PutUint16(b[4:6], uint16(x.LX))
	binary.LittleEndian.PutUint16(b[6:8], uint16(x.LY))
	binary.LittleEndian.PutUint16(b[8:10], uint16(x.RX))
	binary.LittleEndian.PutUint16(b[10:12], uint16(x.RY))
	return b, nil
}

// UnmarshalBinary decodes 12 bytes into InputState.
func (x *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < InputStateSize {
		return io.ErrUnexpectedEOF
	}
	x.Buttons = binary.LittleEndian.Uint16(data[0:2])
	x.LT = data[2]
	x.RT = data[3]
	x.LX = int16(binary.LittleEndian.Uint16(data[4:6]))
	x.LY = int16(binary.LittleEndian.Uint16(data[6:8]))
	x.RX = int16(binary.LittleEndian.Uint16(data[8:10]))
	x.RY = int16(binary.LittleEndian.Uint16(data[10:12]))
	return nil
}

// SetButton sets or clears the bit of a digital canonical input.
func (x *InputState) SetButton(in input.Input, on bool) {
	bit, ok := buttonBits[in]
	if !ok {
		return
	}
	if on {
		x.Buttons |= bit
	} else {
		x.Buttons &^= bit
	}
}

// Button reports whether the bit of in is set.
func (x *InputState) Button(in input.Input) bool {
	bit, ok := buttonBits[in]
	return ok && x.Buttons&bit != 0
}

// SetStick stores one stick axis. stick 0 is left, 1 is right; axis 0 is X,
// 1 is Y. v is positive toward right and down, the report's Y grows upward.
func (x *InputState) SetStick(stick, axis int, v int16) {
	if axis == 1 {
		v = invert(v)
	}
	switch {
	case stick == 0 && axis == 0:
		x.LX = v
	case stick == 0 && axis == 1:
		x.LY = v
	case stick == 1 && axis == 0:
		x.RX = v
	case stick == 1 && axis == 1:
		x.RY = v
	}
}

// SetTrigger stores the analog value of LeftTrigger or RightTrigger.
func (x *InputState) SetTrigger(in input.Input, v uint8) {
	switch in {
	case input.LeftTrigger:
		x.LT = v
	case input.RightTrigger:
		x.RT = v
	}
}

// Reset returns the report to rest.
func (x *InputState) Reset() { *x = InputState{} }

func invert(v int16) int16 {
	if v == -32768 {
		return 32767
	}
	return -v
}

// XRumbleState is the wire format for rumble/motor commands sent back to
// the physical pad.
// Total size: 2 bytes (fixed).
// Layout:
//
//	LeftMotor: 1 byte (0-255)
//	RightMotor: 1 byte (0-255)
type XRumbleState struct {
	LeftMotor  uint8
	RightMotor uint8
}

// MarshalBinary encodes XRumbleState to 2 bytes.
func (r *XRumbleState) MarshalBinary() ([]byte, error) {
	return []byte{r.LeftMotor, r.RightMotor}, nil
}

// UnmarshalBinary decodes 2 bytes into XRumbleState.
func (r *XRumbleState) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return io.ErrUnexpectedEOF
	}
	r.LeftMotor = data[0]
	r.RightMotor = data[1]
	return nil
}
