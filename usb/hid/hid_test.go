package hid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gamepadDescriptor(t *testing.T, usage uint16) Data {
	t.Helper()
	d, err := Report{Items: []Item{
		UsagePage{Page: UsagePageGenericDesktop},
		Usage{Usage: usage},
		Collection{Kind: CollectionApplication, Items: []Item{
			ReportID{ID: 0x01},
			Usage{Usage: UsageX},
			Usage{Usage: UsageY},
			LogicalMinimum{Min: 0},
			LogicalMaximum{Max: 255},
			ReportSize{Bits: 8},
			ReportCount{Count: 2},
			Input{Flags: MainData | MainVar | MainAbs},
			UsagePage{Page: UsagePageButton},
			UsageMinimum{Min: 1},
			UsageMaximum{Max: 14},
			LogicalMaximum{Max: 1},
			ReportSize{Bits: 1},
			ReportCount{Count: 14},
			Input{Flags: MainData | MainVar | MainAbs},
		}},
	}}.Bytes()
	require.NoError(t, err)
	return d
}

func TestEncode(t *testing.T) {
	d := gamepadDescriptor(t, UsageGamePad)
	assert.Equal(t, Data{0x05, 0x01, 0x09, 0x05, 0xA1, 0x01, 0x85, 0x01}, d[:8])
	assert.Equal(t, byte(0xC0), d[len(d)-1])

	d, err := Report{Items: []Item{LogicalMinimum{Min: -32768}, LogicalMaximum{Max: 70000}}}.Bytes()
	require.NoError(t, err)
	assert.Equal(t, Data{0x16, 0x00, 0x80, 0x27, 0x70, 0x11, 0x01, 0x00}, d)

	_, err = Report{Items: []Item{nil}}.Bytes()
	assert.Error(t, err)
}

func TestParseApplication(t *testing.T) {
	type testCase struct {
		name      string
		desc      Data
		wantPage  uint16
		wantUsage uint16
		wantErr   error
		gamepad   bool
	}

	cases := []testCase{
		{"gamepad", gamepadDescriptor(t, UsageGamePad), UsagePageGenericDesktop, UsageGamePad, nil, true},
		{"joystick", gamepadDescriptor(t, UsageJoystick), UsagePageGenericDesktop, UsageJoystick, nil, true},
		{"multi-axis", gamepadDescriptor(t, UsageMultiAxis), UsagePageGenericDesktop, UsageMultiAxis, nil, true},
		{"mouse", gamepadDescriptor(t, UsageMouse), UsagePageGenericDesktop, UsageMouse, nil, false},
		{"keyboard", gamepadDescriptor(t, UsageKeyboard), UsagePageGenericDesktop, UsageKeyboard, nil, false},
		{"extended usage", Data{0x0B, 0x05, 0x00, 0x01, 0x00, 0xA1, 0x01, 0xC0}, UsagePageGenericDesktop, UsageGamePad, nil, true},
		{"long item skipped", append(Data{0xFE, 0x02, 0x10, 0xAA, 0xBB}, gamepadDescriptor(t, UsageGamePad)...), UsagePageGenericDesktop, UsageGamePad, nil, true},
		{"vendor", Data{0x06, 0x00, 0xFF, 0x09, 0x01, 0xA1, 0x01, 0xC0}, UsagePageVendor, 0x01, nil, false},
		{"no application", Data{0x05, 0x01, 0x09, 0x05, 0xA1, 0x00, 0xC0}, 0, 0, ErrNoApplication, false},
		{"truncated", Data{0x05, 0x01, 0x0A, 0x05}, 0, 0, ErrTruncated, false},
		{"truncated long", Data{0xFE, 0x09, 0x10}, 0, 0, ErrTruncated, false},
		{"empty", nil, 0, 0, ErrNoApplication, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, usage, err := ParseApplication(tc.desc)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.wantPage, page)
				assert.Equal(t, tc.wantUsage, usage)
			}
			assert.Equal(t, tc.gamepad, IsGamepad(tc.desc))
		})
	}
}

func TestParseItems(t *testing.T) {
	items, err := Parse(Data{0x05, 0x01, 0x27, 0xFF, 0xFF, 0x00, 0x00, 0xC0})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, ShortItem{Type: ItemTypeGlobal, Tag: 0x0, Data: Data{0x01}}, items[0])
	assert.Equal(t, uint32(0xFFFF), items[1].Uint())
	assert.Equal(t, ItemTypeMain, items[2].Type)
	assert.Equal(t, uint8(0xC), items[2].Tag)
	assert.Empty(t, items[2].Data)
}
