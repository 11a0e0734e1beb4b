package capture_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padmap/capture"
	"github.com/Alia5/padmap/device/xbox360"
	"github.com/Alia5/padmap/input"
	padmapTesting "github.com/Alia5/padmap/internal/testing"
	"github.com/Alia5/padmap/mapping"
	"github.com/Alia5/padmap/physical"
	"github.com/Alia5/padmap/translate"
)

func newSession(dev physical.Device, p capture.Prompter) *capture.Session {
	return &capture.Session{
		Device:   dev,
		Prompter: p,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Sleep:    func(ctx context.Context, _ time.Duration) error { return ctx.Err() },
	}
}

func TestCaptureScenario(t *testing.T) {
	dev := padmapTesting.NewFakeDevice("Pad", padmapTesting.Frames(
		padmapTesting.Idle(),
		padmapTesting.Button(3),
		padmapTesting.Idle(),
		padmapTesting.Axis(0, 20000),
		padmapTesting.Axis(0, 25000),
		padmapTesting.Axis(0, 10000),
		padmapTesting.Axis(0, -5000),
		padmapTesting.Axis(0, -20000),
		padmapTesting.Axis(0, -32768),
	)...)
	p := &padmapTesting.FakePrompter{}

	orig := mapping.NewTable()
	got, err := newSession(dev, p).Run(context.Background(), orig, []input.Input{input.A, input.LeftStickLeft})
	require.NoError(t, err)

	assert.Equal(t, input.Signature{Kind: input.Button, Index: 3, Value: 1}, got.Get(input.A))
	assert.Equal(t, input.Signature{Kind: input.Stick, Index: 0, Value: -1, Range: input.RangeFull}, got.Get(input.LeftStickLeft))
	assert.Equal(t, []input.Input{input.A, input.LeftStickLeft}, p.Prompts)
	assert.Equal(t, []string{"Press A", "Move Left Stick Left"}, p.Texts)
	assert.Equal(t, 0, orig.Mapped(), "input table must not be modified")
}

func TestCaptureAxisDirection(t *testing.T) {
	type testCase struct {
		name     string
		frames   []*physical.State
		baseline *physical.Baseline
		want     input.Signature
	}

	cases := []testCase{
		{
			name:   "negative only",
			frames: padmapTesting.Frames(padmapTesting.Idle(), padmapTesting.Axis(1, -20000)),
			want:   input.Signature{Kind: input.Stick, Index: 1, Value: -1},
		},
		{
			name:   "positive only",
			frames: padmapTesting.Frames(padmapTesting.Idle(), padmapTesting.Axis(2, 30000), padmapTesting.Axis(2, 5000)),
			want:   input.Signature{Kind: input.Stick, Index: 2, Value: 1},
		},
		{
			name: "negative to positive",
			frames: padmapTesting.Frames(
				padmapTesting.Idle(),
				padmapTesting.Axis(4, -32768),
				padmapTesting.Axis(4, -10000),
				padmapTesting.Axis(4, 12000),
				padmapTesting.Axis(4, 32767),
			),
			want: input.Signature{Kind: input.Stick, Index: 4, Value: 1, Range: input.RangeFull},
		},
		{
			name: "relative to baseline",
			frames: padmapTesting.Frames(
				padmapTesting.Axis(0, 10000),
				padmapTesting.Axis(0, 20000),
				padmapTesting.Axis(0, -10000),
			),
			baseline: &physical.Baseline{Axes: []physical.AxisStats{{Mean: 10000}}},
			want:     input.Signature{Kind: input.Stick, Index: 0, Value: -1},
		},
		{
			name: "resting at negative end",
			frames: padmapTesting.Frames(
				padmapTesting.Axis(2, -32768),
				padmapTesting.Axis(2, -10000),
				padmapTesting.Axis(2, 5000),
				padmapTesting.Axis(2, 20000),
				padmapTesting.Axis(2, 32767),
			),
			baseline: &physical.Baseline{Axes: []physical.AxisStats{{}, {}, {Mean: -32768}}},
			want:     input.Signature{Kind: input.Stick, Index: 2, Value: 1, Range: input.RangeFull},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSession(padmapTesting.NewFakeDevice("Pad", tc.frames...), &padmapTesting.FakePrompter{})
			s.Baseline = tc.baseline
			got, err := s.Run(context.Background(), nil, []input.Input{input.LeftTrigger})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Get(input.LeftTrigger))
		})
	}
}

func TestCaptureRestingTriggerTranslates(t *testing.T) {
	sweep := []int16{-32768, -10000, 5000, 20000, 32767}
	frames := make([]*physical.State, 0, len(sweep))
	for _, v := range sweep {
		frames = append(frames, padmapTesting.Axis(2, v))
	}
	s := newSession(padmapTesting.NewFakeDevice("Pad", frames...), &padmapTesting.FakePrompter{})
	s.Baseline = &physical.Baseline{Axes: []physical.AxisStats{{}, {}, {Mean: -32768}}}

	table, err := s.Run(context.Background(), nil, []input.Input{input.LeftTrigger})
	require.NoError(t, err)

	report := &xbox360.InputState{}
	tr := translate.New(table, nil, report)
	var got []uint8
	for _, v := range sweep {
		require.NoError(t, tr.Apply(physical.Event{Kind: input.Stick, Index: 2, Value: int32(v)}))
		got = append(got, report.LT)
	}
	assert.Equal(t, uint8(0), got[0])
	assert.Equal(t, uint8(255), got[len(got)-1])
	assert.IsNonDecreasing(t, got)
}

func TestCaptureHat(t *testing.T) {
	dev := padmapTesting.NewFakeDevice("Pad",
		padmapTesting.Idle(),
		padmapTesting.Hat(uint8(input.HatLeft)),
		padmapTesting.Idle(),
		padmapTesting.Hat(uint8(input.HatUp|input.HatRight)),
	)
	got, err := newSession(dev, &padmapTesting.FakePrompter{}).Run(context.Background(), nil, []input.Input{input.DPadLeft, input.DPadUp})
	require.NoError(t, err)
	assert.Equal(t, input.Signature{Kind: input.Hat, Index: 0, Value: input.HatLeft}, got.Get(input.DPadLeft))
	assert.Equal(t, input.Signature{Kind: input.Hat, Index: 0, Value: input.HatUp}, got.Get(input.DPadUp))
}

func TestCaptureRejectsDuplicate(t *testing.T) {
	dev := padmapTesting.NewFakeDevice("Pad",
		padmapTesting.Idle(),
		padmapTesting.Button(3),
		padmapTesting.Idle(),
		padmapTesting.Button(3),
		padmapTesting.Idle(),
		padmapTesting.Button(4),
	)
	p := &padmapTesting.FakePrompter{}
	got, err := newSession(dev, p).Run(context.Background(), nil, []input.Input{input.A, input.B})
	require.NoError(t, err)

	assert.Equal(t, input.Signature{Kind: input.Button, Index: 3, Value: 1}, got.Get(input.A))
	assert.Equal(t, input.Signature{Kind: input.Button, Index: 4, Value: 1}, got.Get(input.B))
	assert.Equal(t, []input.Input{input.A, input.B, input.B}, p.Prompts)
	require.Len(t, p.Rejects, 1)
	assert.ErrorIs(t, p.Rejects[0], capture.ErrDuplicate)
}

func TestCaptureDuplicateOfExistingEntry(t *testing.T) {
	table := mapping.NewTable()
	table.Set(input.X, input.Signature{Kind: input.Button, Index: 3, Value: 1})
	table.Set(input.Y, input.Signature{Kind: input.Button, Index: 4, Value: 1})

	dev := padmapTesting.NewFakeDevice("Pad",
		padmapTesting.Idle(),
		padmapTesting.Button(3),
		padmapTesting.Idle(),
		padmapTesting.Button(4),
		padmapTesting.Idle(),
		padmapTesting.Button(5),
	)
	p := &padmapTesting.FakePrompter{}
	// Y is being re-mapped, so its old button is free again
	got, err := newSession(dev, p).Run(context.Background(), table, []input.Input{input.A, input.Y})
	require.NoError(t, err)

	assert.Len(t, p.Rejects, 1)
	assert.Equal(t, input.Signature{Kind: input.Button, Index: 4, Value: 1}, got.Get(input.A))
	assert.Equal(t, input.Signature{Kind: input.Button, Index: 5, Value: 1}, got.Get(input.Y))
	assert.Equal(t, input.Signature{Kind: input.Button, Index: 3, Value: 1}, got.Get(input.X))
}

func TestCaptureSkip(t *testing.T) {
	table := mapping.NewTable()
	table.Set(input.Guide, input.Signature{Kind: input.Button, Index: 12, Value: 1})

	dev := padmapTesting.NewFakeDevice("Pad", padmapTesting.Idle(), padmapTesting.Idle(), padmapTesting.Button(0))
	p := &padmapTesting.FakePrompter{Skip: map[input.Input]bool{input.Guide: true}}
	got, err := newSession(dev, p).Run(context.Background(), table, []input.Input{input.Guide, input.A})
	require.NoError(t, err)

	assert.False(t, got.Get(input.Guide).IsSet())
	assert.Equal(t, input.Signature{Kind: input.Button, Index: 0, Value: 1}, got.Get(input.A))
	assert.True(t, table.Get(input.Guide).IsSet())
}

func TestCaptureAbort(t *testing.T) {
	frames := padmapTesting.Frames(padmapTesting.Idle(), padmapTesting.Button(3), padmapTesting.Idle())

	type testCase struct {
		name   string
		commit bool
	}

	cases := []testCase{
		{"discard", false},
		{"commit", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			table := mapping.NewTable()
			table.Set(input.B, input.Signature{Kind: input.Button, Index: 9, Value: 1})
			before := table.Clone()

			p := &padmapTesting.FakePrompter{Abort: map[input.Input]bool{input.B: true}}
			s := newSession(padmapTesting.NewFakeDevice("Pad", frames...), p)
			s.CommitOnAbort = tc.commit

			got, err := s.Run(context.Background(), table, []input.Input{input.A, input.B})
			require.ErrorIs(t, err, capture.ErrAborted)
			assert.True(t, before.Equal(table))

			if !tc.commit {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, input.Signature{Kind: input.Button, Index: 3, Value: 1}, got.Get(input.A))
			assert.Equal(t, before.Get(input.B), got.Get(input.B))
		})
	}
}

func TestCaptureCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := newSession(padmapTesting.NewFakeDevice("Pad"), &padmapTesting.FakePrompter{}).Run(ctx, nil, nil)
	assert.ErrorIs(t, err, capture.ErrAborted)
	assert.Nil(t, got)
}

func TestCaptureDeviceRemoved(t *testing.T) {
	dev := padmapTesting.NewFakeDevice("Pad", padmapTesting.Idle())
	dev.RemoveAt = 3
	got, err := newSession(dev, &padmapTesting.FakePrompter{}).Run(context.Background(), nil, []input.Input{input.A})
	assert.ErrorIs(t, err, physical.ErrRemoved)
	assert.Nil(t, got)
}

func TestCaptureWaitsForRelease(t *testing.T) {
	dev := padmapTesting.NewFakeDevice("Pad",
		padmapTesting.Button(7),
		padmapTesting.Button(7),
		padmapTesting.Idle(),
		padmapTesting.Button(2),
	)
	p := &padmapTesting.FakePrompter{}
	got, err := newSession(dev, p).Run(context.Background(), nil, []input.Input{input.Start})
	require.NoError(t, err)
	assert.Equal(t, input.Signature{Kind: input.Button, Index: 2, Value: 1}, got.Get(input.Start))
}

func TestText(t *testing.T) {
	assert.Equal(t, "Squeeze Left Trigger", capture.Text(input.LeftTrigger))
	assert.Equal(t, "Press D-Pad Down", capture.Text(input.DPadDown))
}
