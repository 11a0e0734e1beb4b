package hidraw

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padmap/rawpad"
)

func TestInfo(t *testing.T) {
	type testCase struct {
		name      string
		info      Info
		transport rawpad.Transport
		model     rawpad.Model
	}

	cases := []testCase{
		{"ds4 usb", Info{Bus: BusUSB, Vendor: 0x054C, Product: 0x05C4}, rawpad.USB, rawpad.ModelDualShock4},
		{"ds4 v2 bluetooth", Info{Bus: BusBluetooth, Vendor: 0x054C, Product: 0x09CC}, rawpad.Bluetooth, rawpad.ModelDualShock4},
		{"pro controller", Info{Bus: BusBluetooth, Vendor: 0x057E, Product: 0x2009}, rawpad.Bluetooth, rawpad.ModelSwitchPro},
		{"other", Info{Bus: 0x06, Vendor: 0x1234, Product: 0x5678}, rawpad.USB, rawpad.ModelUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.transport, tc.info.Transport())
			assert.Equal(t, tc.model, tc.info.Model())
		})
	}
	assert.Equal(t, "054c:05c4 (usb)", cases[0].info.String())
}

func TestClassify(t *testing.T) {
	known := DeviceInfo{Info: Info{Vendor: 0x057E, Product: 0x2009}}
	classify(&known, nil)
	assert.True(t, known.Gamepad)

	pad := DeviceInfo{Info: Info{Vendor: 0x1, Product: 0x2}}
	classify(&pad, []byte{0x05, 0x01, 0x09, 0x05, 0xA1, 0x01, 0xC0})
	assert.True(t, pad.Gamepad)

	keyboard := DeviceInfo{Info: Info{Vendor: 0x1, Product: 0x2}}
	classify(&keyboard, []byte{0x05, 0x01, 0x09, 0x06, 0xA1, 0x01, 0xC0})
	assert.False(t, keyboard.Gamepad)
}
