// Package switchpro talks to a Nintendo Switch Pro Controller over raw HID:
// it decodes both input report shapes into the canonical DS4 report, reads
// the IMU calibration from SPI flash, drives HD rumble and performs the
// initial handshake.
package switchpro

import (
	"encoding/binary"
	"math"

	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/physical"
)

// Input report ids.
const (
	ReportFull   byte = 0x30
	ReportSimple byte = 0x3F
	ReportReply  byte = 0x21
)

const (
	fullReportSize   = 49
	simpleReportSize = 12

	imuOffset     = 13
	imuSampleSize = 12
	imuSamples    = 3
)

// Unpack12 splits three bytes into two 12-bit values packed low nibble
// first.
func Unpack12(b []byte) (x, y uint16) {
	x = uint16(b[0]) | uint16(b[1]&0x0F)<<8
	y = uint16(b[1]>>4) | uint16(b[2])<<4
	return x, y
}

// ReadInt16LE reads a signed little-endian 16-bit value.
func ReadInt16LE(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}

// Scale12To8 maps 0..4095 onto 0..255, rounding to nearest.
func Scale12To8(v uint16) uint8 {
	v = min(v, 4095)
	return uint8((uint32(v)*255 + 2047) / 4095)
}

// Scale16To8 maps 0..65535 onto 0..255, rounding to nearest.
func Scale16To8(v uint16) uint8 {
	return uint8((uint32(v)*255 + 32767) / 65535)
}

// target is where one source bit lands in the canonical report.
type target struct {
	button  uint16
	special uint8
	dir     uint8
}

type bitMap struct {
	at   int
	mask uint8
	to   target
}

// Buttons of the full report. Face buttons map by position, so Nintendo A
// (east) becomes Circle.
var fullButtons = []bitMap{
	{3, 0x01, target{button: dualshock4.ButtonSquare}},   // Y
	{3, 0x02, target{button: dualshock4.ButtonTriangle}}, // X
	{3, 0x04, target{button: dualshock4.ButtonCross}},    // B
	{3, 0x08, target{button: dualshock4.ButtonCircle}},   // A
	{3, 0x40, target{button: dualshock4.ButtonR1}},       // R
	{3, 0x80, target{button: dualshock4.ButtonR2}},       // ZR
	{4, 0x01, target{button: dualshock4.ButtonShare}},    // Minus
	{4, 0x02, target{button: dualshock4.ButtonOptions}},  // Plus
	{4, 0x04, target{button: dualshock4.ButtonR3}},
	{4, 0x08, target{button: dualshock4.ButtonL3}},
	{4, 0x10, target{special: dualshock4.SpecialPS}},       // Home
	{4, 0x20, target{special: dualshock4.SpecialTouchpad}}, // Capture
	{5, 0x01, target{dir: dualshock4.DirDown}},
	{5, 0x02, target{dir: dualshock4.DirUp}},
	{5, 0x04, target{dir: dualshock4.DirRight}},
	{5, 0x08, target{dir: dualshock4.DirLeft}},
	{5, 0x40, target{button: dualshock4.ButtonL1}}, // L
	{5, 0x80, target{button: dualshock4.ButtonL2}}, // ZL
}

var simpleButtons = []bitMap{
	{1, 0x01, target{button: dualshock4.ButtonCross}},    // B
	{1, 0x02, target{button: dualshock4.ButtonCircle}},   // A
	{1, 0x04, target{button: dualshock4.ButtonSquare}},   // Y
	{1, 0x08, target{button: dualshock4.ButtonTriangle}}, // X
	{1, 0x10, target{button: dualshock4.ButtonL1}},
	{1, 0x20, target{button: dualshock4.ButtonR1}},
	{1, 0x40, target{button: dualshock4.ButtonL2}},
	{1, 0x80, target{button: dualshock4.ButtonR2}},
	{2, 0x01, target{button: dualshock4.ButtonShare}},
	{2, 0x02, target{button: dualshock4.ButtonOptions}},
	{2, 0x04, target{button: dualshock4.ButtonL3}},
	{2, 0x08, target{button: dualshock4.ButtonR3}},
	{2, 0x10, target{special: dualshock4.SpecialPS}},
	{2, 0x20, target{special: dualshock4.SpecialTouchpad}},
}

// applyButtons sets the mapped bits and returns the d-pad mask.
func applyButtons(s *dualshock4.InputState, buf []byte, table []bitMap) uint8 {
	var dirs uint8
	for _, m := range table {
		if buf[m.at]&m.mask == 0 {
			continue
		}
		s.Buttons |= m.to.button
		s.Special |= m.to.special
		dirs |= m.to.dir
	}
	// ZL / ZR are digital
	if s.Buttons&dualshock4.ButtonL2 != 0 {
		s.LT = 0xFF
	}
	if s.Buttons&dualshock4.ButtonR2 != 0 {
		s.RT = 0xFF
	}
	return dirs
}

// Decode dispatches on the report id. Replies and unknown reports yield
// false.
func Decode(buf []byte, cal Calibration) (dualshock4.InputState, bool) {
	if len(buf) == 0 {
		return dualshock4.InputState{}, false
	}
	switch buf[0] {
	case ReportFull:
		return DecodeFull(buf, cal)
	case ReportSimple:
		return DecodeSimple(buf)
	}
	return dualshock4.InputState{}, false
}

// DecodeSimple reads the reduced 0x3F report: one hat code and four 16-bit
// stick values, Y growing downward.
func DecodeSimple(buf []byte) (dualshock4.InputState, bool) {
	var s dualshock4.InputState
	if len(buf) < simpleReportSize || buf[0] != ReportSimple {
		return s, false
	}
	applyButtons(&s, buf, simpleButtons)
	hat := buf[3] & 0x0F
	if hat > dualshock4.HatNeutral {
		hat = dualshock4.HatNeutral
	}
	s.SetHat(hat)
	s.LX = Scale16To8(binary.LittleEndian.Uint16(buf[4:]))
	s.LY = Scale16To8(binary.LittleEndian.Uint16(buf[6:]))
	s.RX = Scale16To8(binary.LittleEndian.Uint16(buf[8:]))
	s.RY = Scale16To8(binary.LittleEndian.Uint16(buf[10:]))
	return s, true
}

// DecodeFull reads the 0x30 report: 12-bit sticks with Y growing upward and
// three IMU samples, of which the latest is kept.
func DecodeFull(buf []byte, cal Calibration) (dualshock4.InputState, bool) {
	var s dualshock4.InputState
	if len(buf) < fullReportSize || buf[0] != ReportFull {
		return s, false
	}
	s.Timestamp = uint16(buf[1])
	s.Battery = buf[2] >> 4

	s.SetHat(dualshock4.HatFromMask(applyButtons(&s, buf, fullButtons)))

	lx, ly := Unpack12(buf[6:9])
	rx, ry := Unpack12(buf[9:12])
	s.LX, s.LY = Scale12To8(lx), 0xFF-Scale12To8(ly)
	s.RX, s.RY = Scale12To8(rx), 0xFF-Scale12To8(ry)

	o := imuOffset + (imuSamples-1)*imuSampleSize
	var accel, gyro [3]int16
	for i := range 3 {
		accel[i] = ReadInt16LE(buf[o+2*i:])
		gyro[i] = ReadInt16LE(buf[o+6+2*i:])
	}
	s.Accel = PermuteIMU(cal.Accel(accel))
	s.Gyro = PermuteIMU(cal.Gyro(gyro))
	return s, true
}

// PermuteIMU reorders a sample from the controller's axes onto the DS4
// axes: (x, y, z) becomes (-y, z, -x).
func PermuteIMU(v [3]int32) [3]int16 {
	return [3]int16{clamp16(-v[1]), clamp16(v[2]), clamp16(-v[0])}
}

func clamp16(v int32) int16 {
	return int16(physical.Clamp(v, math.MinInt16, math.MaxInt16))
}
