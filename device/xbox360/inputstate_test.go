package xbox360_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/device/xbox360"
	"github.com/Alia5/padmap/input"
)

func TestInputStateWire(t *testing.T) {
	type testCase struct {
		name       string
		inputState xbox360.InputState
		expected   []byte
	}

	cases := []testCase{
		{
			name:       "no inputs",
			inputState: xbox360.InputState{},
			expected:   make([]byte, 12),
		},
		{
			name:       "buttons a+dpad up",
			inputState: xbox360.InputState{Buttons: xbox360.ButtonA | xbox360.ButtonDPadUp},
			expected:   []byte{0x01, 0x10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name: "triggers and sticks",
			inputState: xbox360.InputState{
				LT: 0xFF, RT: 0x10,
				LX: 1234, LY: -2345,
				RX: -32768, RY: 32767,
			},
			expected: []byte{0x00, 0x00, 0xFF, 0x10, 0xD2, 0x04, 0xD7, 0xF6, 0x00, 0x80, 0xFF, 0x7F},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.inputState.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, b)

			var back xbox360.InputState
			require.NoError(t, back.UnmarshalBinary(b))
			assert.Equal(t, tc.inputState, back)
		})
	}

	var s xbox360.InputState
	assert.Error(t, s.UnmarshalBinary(make([]byte, 11)))
}

func TestSetters(t *testing.T) {
	var s xbox360.InputState
	s.SetButton(input.A, true)
	s.SetButton(input.Guide, true)
	s.SetButton(input.LeftTrigger, true)
	assert.Equal(t, xbox360.ButtonA|xbox360.ButtonGuide, s.Buttons)
	assert.True(t, s.Button(input.A))
	assert.False(t, s.Button(input.B))

	s.SetButton(input.A, false)
	assert.Equal(t, xbox360.ButtonGuide, s.Buttons)

	s.SetStick(0, 0, 1000)
	s.SetStick(0, 1, 2000)
	s.SetStick(1, 1, -32768)
	assert.Equal(t, int16(1000), s.LX)
	assert.Equal(t, int16(-2000), s.LY, "down is negative on the wire")
	assert.Equal(t, int16(32767), s.RY)

	s.SetTrigger(input.RightTrigger, 200)
	assert.Equal(t, uint8(200), s.RT)

	s.Reset()
	assert.Equal(t, xbox360.InputState{}, s)
}

func TestButtonBits(t *testing.T) {
	seen := map[uint16]input.Input{}
	for _, in := range input.All() {
		bit, ok := xbox360.ButtonBit(in)
		if input.Category(in) == input.Trigger || input.Category(in) == input.Stick {
			assert.False(t, ok, in.String())
			continue
		}
		require.True(t, ok, in.String())
		_, dup := seen[bit]
		assert.False(t, dup, in.String())
		seen[bit] = in
	}
}

func TestRumbleWire(t *testing.T) {
	r := xbox360.XRumbleState{LeftMotor: 0x40, RightMotor: 0xFF}
	b, err := r.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x40, 0xFF}, b)

	var back xbox360.XRumbleState
	require.NoError(t, back.UnmarshalBinary(b))
	assert.Equal(t, r, back)
	assert.Error(t, back.UnmarshalBinary([]byte{1}))
}
