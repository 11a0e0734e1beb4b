package ds4

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/device/dualshock4"
	padmapTesting "github.com/Alia5/padmap/internal/testing"
	"github.com/Alia5/padmap/physical"
	"github.com/Alia5/padmap/rawpad"
)

// payload is a report body starting at the left stick X byte.
func payload() []byte {
	p := make([]byte, 61)
	p[0], p[1], p[2], p[3] = 0x10, 0x20, 0x30, 0x40
	p[4] = 0x20 | dualshock4.HatE
	p[5] = 0x21
	p[6] = 0x05
	p[7], p[8] = 0x99, 0x11
	p[9], p[10] = 0x34, 0x12
	binary.LittleEndian.PutUint16(p[12:], uint16(0xFFFE)) // gyro x = -2
	binary.LittleEndian.PutUint16(p[16:], 300)
	binary.LittleEndian.PutUint16(p[18:], 8192)
	binary.LittleEndian.PutUint16(p[22:], uint16(0x8000))
	p[29] = 0x1B
	return p
}

func usbReport(id byte) []byte { return append([]byte{id}, payload()...) }
func btReport() []byte         { return append([]byte{ReportBluetooth, 0xC0, 0x00}, payload()...) }

func wantState() dualshock4.InputState {
	return dualshock4.InputState{
		Buttons:   0x2122,
		Special:   dualshock4.SpecialPS,
		LT:        0x99,
		RT:        0x11,
		LX:        0x10,
		LY:        0x20,
		RX:        0x30,
		RY:        0x40,
		Gyro:      [3]int16{-2, 0, 300},
		Accel:     [3]int16{8192, 0, -32768},
		Timestamp: 0x1234,
		Battery:   0x0B,
	}
}

func TestDecode(t *testing.T) {
	masked := usbReport(ReportMaskHat)
	masked[5] = 0x20 | dualshock4.DirUp | dualshock4.DirRight
	wantMasked := wantState()
	wantMasked.SetHat(dualshock4.HatNE)

	bogusHat := usbReport(ReportUSB)
	bogusHat[5] = 0x2C
	wantNeutral := wantState()
	wantNeutral.SetHat(dualshock4.HatNeutral)

	type testCase struct {
		name string
		buf  []byte
		want dualshock4.InputState
	}

	cases := []testCase{
		{"usb", usbReport(ReportUSB), wantState()},
		{"bluetooth", btReport(), wantState()},
		{"bitmask hat", masked, wantMasked},
		{"hat out of range", bogusHat, wantNeutral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Decode(tc.buf)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	type testCase struct {
		name string
		buf  []byte
	}

	cases := []testCase{
		{"empty", nil},
		{"short usb", usbReport(ReportUSB)[:20]},
		{"short bluetooth", btReport()[:31]},
		{"unknown id", usbReport(0x30)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, ok := Decode(tc.buf)
				assert.False(t, ok)
			})
		})
	}
}

func TestLayouts(t *testing.T) {
	usb := LayoutFor(rawpad.USB)
	bt := LayoutFor(rawpad.Bluetooth)
	assert.Equal(t, 1, usb.LX)
	assert.Equal(t, 3, bt.LX)
	assert.Equal(t, 2, bt.Battery-usb.Battery)
	assert.Equal(t, 31, usb.MinLen())
	assert.Equal(t, HatClockwise, usb.Hat)
}

func TestOutputReport(t *testing.T) {
	fb := dualshock4.OutputState{Left: 0xC0, Right: 0x40, R: 1, G: 2, B: 3, HasColor: true}

	usb := OutputReport(rawpad.USB, fb)
	require.Len(t, usb, OutputUSBSize)
	assert.Equal(t, []byte{OutputUSB, 0x03, 0, 0, 0x40, 0xC0, 1, 2, 3}, usb[:9])

	rumbleOnly := OutputReport(rawpad.USB, dualshock4.OutputState{Left: 1})
	assert.Equal(t, byte(0x01), rumbleOnly[1])

	bt := OutputReport(rawpad.Bluetooth, fb)
	require.Len(t, bt, OutputBluetoothSize)
	assert.Equal(t, OutputBluetooth, bt[0])
	assert.Equal(t, byte(0xC4), bt[1])
	assert.Equal(t, byte(0x03), bt[3])
	assert.Equal(t, []byte{0x40, 0xC0, 1, 2, 3}, bt[6:11])

	want := crc32.ChecksumIEEE(append([]byte{0xA2}, bt[:74]...))
	assert.Equal(t, want, binary.LittleEndian.Uint32(bt[74:]))
}

func TestPad(t *testing.T) {
	hid := padmapTesting.NewFakeHID(usbReport(ReportUSB), []byte{0x01, 0x02})
	p := NewPad(hid, "Wireless Controller", rawpad.USB, nil)

	s, err := p.Poll()
	require.NoError(t, err)
	assert.Equal(t, wantState(), s)

	// short report keeps the previous state
	s, err = p.Poll()
	require.NoError(t, err)
	assert.Equal(t, wantState(), s)

	// timeout
	s, err = p.Poll()
	require.NoError(t, err)
	assert.Equal(t, wantState(), s)

	require.NoError(t, p.Feedback(dualshock4.OutputState{Left: 9}))
	require.Len(t, hid.Writes(), 1)
	assert.Equal(t, OutputUSB, hid.Writes()[0][0])

	hid.ReadErr = physical.ErrRemoved
	_, err = p.Poll()
	assert.ErrorIs(t, err, physical.ErrRemoved)
}

func TestPadStartsAtRest(t *testing.T) {
	p := NewPad(padmapTesting.NewFakeHID(), "pad", rawpad.Bluetooth, nil)
	s, err := p.Poll()
	require.NoError(t, err)
	assert.Equal(t, dualshock4.HatNeutral, s.Hat())
	assert.Equal(t, uint8(0x80), s.LX)
}
