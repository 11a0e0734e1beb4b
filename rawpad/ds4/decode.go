package ds4

import (
	"encoding/binary"

	"github.com/Alia5/padmap/device/dualshock4"
)

// Decode reads one raw input report. It reports false for unknown report
// ids and for reports too short for their layout.
func Decode(buf []byte) (dualshock4.InputState, bool) {
	if len(buf) == 0 {
		return dualshock4.InputState{}, false
	}
	l, ok := layoutForReport(buf[0])
	if !ok {
		return dualshock4.InputState{}, false
	}
	return DecodeLayout(buf, l)
}

// DecodeLayout reads buf with an explicit layout.
func DecodeLayout(buf []byte, l Layout) (dualshock4.InputState, bool) {
	var s dualshock4.InputState
	if len(buf) < l.MinLen() {
		return s, false
	}

	s.LX, s.LY = buf[l.LX], buf[l.LY]
	s.RX, s.RY = buf[l.RX], buf[l.RY]

	s.Buttons = binary.LittleEndian.Uint16(buf[l.Buttons:])
	nibble := uint8(s.Buttons & 0x0F)
	if l.Hat == HatBitmask {
		s.SetHat(dualshock4.HatFromMask(nibble))
	} else if nibble > dualshock4.HatNeutral {
		s.SetHat(dualshock4.HatNeutral)
	}

	s.Special = buf[l.Special] & (dualshock4.SpecialPS | dualshock4.SpecialTouchpad)
	s.LT, s.RT = buf[l.L2], buf[l.R2]
	s.Timestamp = binary.LittleEndian.Uint16(buf[l.Timestamp:])

	for i := range s.Gyro {
		s.Gyro[i] = int16(binary.LittleEndian.Uint16(buf[l.Gyro+2*i:]))
		s.Accel[i] = int16(binary.LittleEndian.Uint16(buf[l.Accel+2*i:]))
	}
	s.Battery = buf[l.Battery] & 0x0F
	return s, true
}
