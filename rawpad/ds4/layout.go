// Package ds4 decodes raw DualShock 4 HID input reports into the canonical
// DS4 report and builds its rumble / light bar output reports.
package ds4

import "github.com/Alia5/padmap/rawpad"

// Report ids.
const (
	ReportUSB       byte = 0x01
	ReportBluetooth byte = 0x11
	// ReportMaskHat is a wired report carrying the d-pad as a direction
	// bitmask instead of a clockwise code.
	ReportMaskHat byte = 0x04

	OutputUSB       byte = 0x05
	OutputBluetooth byte = 0x11
)

// HatCoding is how the low nibble of the first button byte encodes the d-pad.
type HatCoding uint8

const (
	// HatClockwise: 0 north, clockwise to 7, 8 neutral.
	HatClockwise HatCoding = iota
	// HatBitmask: up 1, right 2, down 4, left 8.
	HatBitmask
)

// Layout names the byte position of every field of an input report.
// Positions are absolute; use LayoutFor to get one.
type Layout struct {
	Transport rawpad.Transport
	Hat       HatCoding

	LX, LY, RX, RY int
	Buttons        int // two bytes: hat nibble, face, shoulders, menu, thumbs
	Special        int // PS, touchpad click, frame counter
	L2, R2         int
	Timestamp      int
	Gyro           int
	Accel          int
	Battery        int
}

// MinLen is the shortest report the layout can be read from.
func (l Layout) MinLen() int { return l.Battery + 1 }

// LayoutFor returns the layout of reports arriving over t. Every field sits
// at the same distance from the report payload; only the payload start
// differs.
func LayoutFor(t rawpad.Transport) Layout {
	base := 1
	if t == rawpad.Bluetooth {
		base = 3
	}
	return Layout{
		Transport: t,
		LX:        base + 0,
		LY:        base + 1,
		RX:        base + 2,
		RY:        base + 3,
		Buttons:   base + 4,
		Special:   base + 6,
		L2:        base + 7,
		R2:        base + 8,
		Timestamp: base + 9,
		Gyro:      base + 12,
		Accel:     base + 18,
		Battery:   base + 29,
	}
}

// layoutForReport picks the layout by report id.
func layoutForReport(id byte) (Layout, bool) {
	switch id {
	case ReportUSB:
		return LayoutFor(rawpad.USB), true
	case ReportBluetooth:
		return LayoutFor(rawpad.Bluetooth), true
	case ReportMaskHat:
		l := LayoutFor(rawpad.USB)
		l.Hat = HatBitmask
		return l, true
	}
	return Layout{}, false
}
