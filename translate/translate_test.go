package translate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/device/xbox360"
	"github.com/Alia5/padmap/input"
	"github.com/Alia5/padmap/mapping"
	"github.com/Alia5/padmap/physical"
	"github.com/Alia5/padmap/translate"
)

func stickTable() *mapping.Table {
	t := mapping.NewTable()
	t.Set(input.LeftStickLeft, input.Signature{Kind: input.Stick, Index: 0, Value: -1})
	t.Set(input.LeftStickRight, input.Signature{Kind: input.Stick, Index: 0, Value: 1})
	t.Set(input.LeftStickUp, input.Signature{Kind: input.Stick, Index: 1, Value: -1})
	t.Set(input.LeftStickDown, input.Signature{Kind: input.Stick, Index: 1, Value: 1})
	// inverted physical axis
	t.Set(input.RightStickLeft, input.Signature{Kind: input.Stick, Index: 2, Value: 1})
	t.Set(input.RightStickRight, input.Signature{Kind: input.Stick, Index: 2, Value: -1})
	return t
}

func axis(i int32, v int32) physical.Event {
	return physical.Event{Kind: input.Stick, Index: i, Value: v}
}

func TestDeadzoneAndDirection(t *testing.T) {
	const center = 500
	baseline := &physical.Baseline{Axes: []physical.AxisStats{{Mean: center}, {Mean: 0}, {Mean: 0}}}
	report := &xbox360.InputState{}
	tr := translate.New(stickTable(), baseline, report)

	for r := int32(-32768); r <= 32767; r += 61 {
		require.NoError(t, tr.Apply(axis(0, r)))
		d := r - center
		switch {
		case d >= -physical.Deadzone && d <= physical.Deadzone:
			assert.Equal(t, int16(0), report.LX, "raw %d", r)
		case d < 0:
			assert.Negative(t, report.LX, "raw %d", r)
		default:
			assert.Positive(t, report.LX, "raw %d", r)
		}
	}
}

func TestDirectionFollowsCapture(t *testing.T) {
	type testCase struct {
		name  string
		ev    physical.Event
		check func(t *testing.T, r *xbox360.InputState)
	}

	cases := []testCase{
		{"left stick left", axis(0, -20000), func(t *testing.T, r *xbox360.InputState) { assert.Equal(t, int16(-20000), r.LX) }},
		{"left stick right", axis(0, 32767), func(t *testing.T, r *xbox360.InputState) { assert.Equal(t, int16(32767), r.LX) }},
		{"left stick up", axis(1, -20000), func(t *testing.T, r *xbox360.InputState) { assert.Equal(t, int16(20000), r.LY) }},
		{"left stick down", axis(1, -32768+65535), func(t *testing.T, r *xbox360.InputState) { assert.Equal(t, int16(-32767), r.LY) }},
		{"inverted axis left", axis(2, 20000), func(t *testing.T, r *xbox360.InputState) { assert.Equal(t, int16(-20000), r.RX) }},
		{"inverted axis right", axis(2, -32768), func(t *testing.T, r *xbox360.InputState) { assert.Equal(t, int16(32767), r.RX) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := &xbox360.InputState{}
			tr := translate.New(stickTable(), nil, report)
			require.NoError(t, tr.Apply(tc.ev))
			tc.check(t, report)
		})
	}
}

func dpadTable() *mapping.Table {
	t := mapping.NewTable()
	t.Set(input.DPadUp, input.Signature{Kind: input.Hat, Index: 0, Value: input.HatUp})
	t.Set(input.DPadRight, input.Signature{Kind: input.Hat, Index: 0, Value: input.HatRight})
	t.Set(input.DPadDown, input.Signature{Kind: input.Hat, Index: 0, Value: input.HatDown})
	t.Set(input.DPadLeft, input.Signature{Kind: input.Hat, Index: 0, Value: input.HatLeft})
	return t
}

func TestDPadExactness(t *testing.T) {
	const dpad = xbox360.ButtonDPadUp | xbox360.ButtonDPadDown | xbox360.ButtonDPadLeft | xbox360.ButtonDPadRight

	type testCase struct {
		code int32
		want uint16
	}

	cases := []testCase{
		{0, 0},
		{input.HatUp, xbox360.ButtonDPadUp},
		{input.HatUp | input.HatRight, xbox360.ButtonDPadUp | xbox360.ButtonDPadRight},
		{input.HatRight, xbox360.ButtonDPadRight},
		{input.HatRight | input.HatDown, xbox360.ButtonDPadRight | xbox360.ButtonDPadDown},
		{input.HatDown, xbox360.ButtonDPadDown},
		{input.HatDown | input.HatLeft, xbox360.ButtonDPadDown | xbox360.ButtonDPadLeft},
		{input.HatLeft, xbox360.ButtonDPadLeft},
		{input.HatLeft | input.HatUp, xbox360.ButtonDPadLeft | xbox360.ButtonDPadUp},
	}

	// every code is applied on top of every other one so stale directions
	// would show up
	for _, prev := range cases {
		for _, tc := range cases {
			report := &xbox360.InputState{}
			tr := translate.New(dpadTable(), nil, report)
			require.NoError(t, tr.Apply(physical.Event{Kind: input.Hat, Value: prev.code}))
			require.NoError(t, tr.Apply(physical.Event{Kind: input.Hat, Value: tc.code}))
			assert.Equal(t, tc.want, report.Buttons&dpad, "%#x after %#x", tc.code, prev.code)
			assert.Equal(t, countBits(tc.want), tr.Held())
		}
	}
}

func TestDPadOnDualShock4(t *testing.T) {
	report := dualshock4.NewInputState()
	tr := translate.New(dpadTable(), nil, report)

	require.NoError(t, tr.Apply(physical.Event{Kind: input.Hat, Value: input.HatDown | input.HatLeft}))
	assert.Equal(t, dualshock4.HatSW, report.Hat())
	require.NoError(t, tr.Apply(physical.Event{Kind: input.Hat, Value: input.HatUp}))
	assert.Equal(t, dualshock4.HatN, report.Hat())
	require.NoError(t, tr.Apply(physical.Event{Kind: input.Hat, Value: 0}))
	assert.Equal(t, dualshock4.HatNeutral, report.Hat())
	assert.Equal(t, 0, tr.Held())
}

func TestOpposingDPadButtons(t *testing.T) {
	table := mapping.NewTable()
	table.Set(input.DPadUp, input.Signature{Kind: input.Button, Index: 0, Value: 1})
	table.Set(input.DPadDown, input.Signature{Kind: input.Button, Index: 1, Value: 1})
	report := dualshock4.NewInputState()
	tr := translate.New(table, nil, report)

	press := func(i int32, on bool) {
		v := int32(0)
		if on {
			v = 1
		}
		require.NoError(t, tr.Apply(physical.Event{Kind: input.Button, Index: i, Value: v}))
	}

	press(0, true)
	press(1, true)
	assert.Equal(t, dualshock4.HatNeutral, report.Hat())
	assert.Equal(t, 2, tr.Held())

	press(0, false)
	assert.Equal(t, dualshock4.HatS, report.Hat())
	assert.Equal(t, 1, tr.Held())

	press(1, false)
	assert.Equal(t, dualshock4.HatNeutral, report.Hat())
	assert.Equal(t, 0, tr.Held())
}

func countBits(v uint16) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

func TestExtendedRangeTrigger(t *testing.T) {
	type testCase struct {
		name      string
		dir       int32
		ascending bool
	}

	cases := []testCase{
		{"ascending", 1, true},
		{"descending", -1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := mapping.NewTable()
			table.Set(input.LeftTrigger, input.Signature{Kind: input.Stick, Index: 4, Value: tc.dir, Range: input.RangeFull})
			report := &xbox360.InputState{}
			tr := translate.New(table, nil, report)

			seen := make(map[uint8]bool)
			var prev uint8
			for r := int32(-32768); r <= 32767; r++ {
				require.NoError(t, tr.Apply(axis(4, r)))
				v := report.LT
				if r > -32768 {
					if tc.ascending {
						require.GreaterOrEqual(t, v, prev, "raw %d", r)
					} else {
						require.LessOrEqual(t, v, prev, "raw %d", r)
					}
				}
				seen[v] = true
				prev = v
			}
			assert.Len(t, seen, 256)

			require.NoError(t, tr.Apply(axis(4, -32768)))
			lo := report.LT
			require.NoError(t, tr.Apply(axis(4, 32767)))
			hi := report.LT
			if tc.ascending {
				assert.Equal(t, [2]uint8{0, 255}, [2]uint8{lo, hi})
			} else {
				assert.Equal(t, [2]uint8{255, 0}, [2]uint8{lo, hi})
			}
		})
	}
}

func TestIdempotentPress(t *testing.T) {
	table := mapping.NewTable()
	table.Set(input.A, input.Signature{Kind: input.Button, Index: 3, Value: 1})
	table.Set(input.LeftShoulder, input.Signature{Kind: input.Shoulder, Index: 0, Value: 1})
	report := &xbox360.InputState{}
	tr := translate.New(table, nil, report)

	press := physical.Event{Kind: input.Button, Index: 3, Value: 1}
	release := physical.Event{Kind: input.Button, Index: 3, Value: 0}

	require.NoError(t, tr.ApplyAll([]physical.Event{press, press}))
	assert.Equal(t, 1, tr.Held())
	assert.Equal(t, xbox360.ButtonA, report.Buttons)

	require.NoError(t, tr.Apply(physical.Event{Kind: input.Shoulder, Index: 0, Value: 1}))
	assert.Equal(t, 2, tr.Held())

	require.NoError(t, tr.ApplyAll([]physical.Event{release, release}))
	assert.Equal(t, 1, tr.Held())
	assert.Equal(t, xbox360.ButtonLShoulder, report.Buttons)

	// unmapped controls are ignored
	require.NoError(t, tr.Apply(physical.Event{Kind: input.Button, Index: 9, Value: 1}))
	assert.Equal(t, 1, tr.Held())
}

func TestCrossKindBindings(t *testing.T) {
	table := mapping.NewTable()
	table.Set(input.LeftStickUp, input.Signature{Kind: input.Button, Index: 5, Value: 1})
	table.Set(input.RightTrigger, input.Signature{Kind: input.Button, Index: 6, Value: 1})
	table.Set(input.LeftTrigger, input.Signature{Kind: input.Stick, Index: 2, Value: 1})
	table.Set(input.A, input.Signature{Kind: input.Stick, Index: 3, Value: 1})
	report := &xbox360.InputState{}
	tr := translate.New(table, nil, report)

	require.NoError(t, tr.Apply(physical.Event{Kind: input.Button, Index: 5, Value: 1}))
	assert.Equal(t, int16(32767), report.LY)
	require.NoError(t, tr.Apply(physical.Event{Kind: input.Button, Index: 6, Value: 1}))
	assert.Equal(t, uint8(255), report.RT)

	require.NoError(t, tr.Apply(axis(2, 32767)))
	assert.Equal(t, uint8(255), report.LT)
	require.NoError(t, tr.Apply(axis(2, 100)))
	assert.Equal(t, uint8(0), report.LT)
	require.NoError(t, tr.Apply(axis(2, -32768)))
	assert.Equal(t, uint8(0), report.LT)

	require.NoError(t, tr.Apply(axis(3, 20000)))
	assert.True(t, report.Button(input.A))
	require.NoError(t, tr.Apply(axis(3, 25000)))
	assert.Equal(t, 1, tr.Held())
	require.NoError(t, tr.Apply(axis(3, 0)))
	assert.False(t, report.Button(input.A))
	assert.Equal(t, 0, tr.Held())
}

func TestDualShock4Sticks(t *testing.T) {
	report := dualshock4.NewInputState()
	tr := translate.New(stickTable(), nil, report)

	require.NoError(t, tr.Apply(axis(0, -32768)))
	require.NoError(t, tr.Apply(axis(1, 32767)))
	assert.Equal(t, uint8(0x00), report.LX)
	assert.Equal(t, uint8(0xFF), report.LY)

	require.NoError(t, tr.Apply(axis(0, 10)))
	assert.Equal(t, uint8(0x80), report.LX)
}

func TestDeviceRemoved(t *testing.T) {
	table := mapping.NewTable()
	table.Set(input.A, input.Signature{Kind: input.Button, Index: 0, Value: 1})
	report := &xbox360.InputState{}
	tr := translate.New(table, nil, report)

	require.NoError(t, tr.Apply(physical.Event{Kind: input.Button, Index: 0, Value: 1}))
	before := *report

	assert.ErrorIs(t, tr.Apply(physical.RemovedEvent), physical.ErrRemoved)
	assert.ErrorIs(t, tr.Apply(physical.Event{Kind: input.Button, Index: 0, Value: 0}), physical.ErrRemoved)
	assert.Equal(t, before, *report)
}

func TestSetTableResets(t *testing.T) {
	table := mapping.NewTable()
	table.Set(input.B, input.Signature{Kind: input.Button, Index: 1, Value: 1})
	report := &xbox360.InputState{}
	tr := translate.New(table, nil, report)
	require.NoError(t, tr.Apply(physical.Event{Kind: input.Button, Index: 1, Value: 1}))
	require.Equal(t, 1, tr.Held())

	tr.SetTable(mapping.NewTable())
	assert.Equal(t, 0, tr.Held())
	assert.Equal(t, xbox360.InputState{}, *report)
	require.NoError(t, tr.Apply(physical.Event{Kind: input.Button, Index: 1, Value: 0}))
}

func TestMagnitude(t *testing.T) {
	assert.Equal(t, int32(0), translate.Magnitude(100, 0, 8000, 1))
	assert.Equal(t, int32(0), translate.Magnitude(-9000, 0, 8000, 1))
	assert.Equal(t, int32(9000), translate.Magnitude(-9000, 0, 8000, -1))
	assert.Equal(t, int32(32767), translate.Magnitude(32767, -32768, 8000, 1))
}
