package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	type testCase struct {
		in   string
		want slog.Level
	}
	cases := []testCase{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseLevel(tc.in))
		})
	}
}

func TestConsoleHandler(t *testing.T) {
	type testCase struct {
		name string
		log  func(l *slog.Logger)
		want string
	}
	cases := []testCase{
		{
			name: "message and attrs",
			log:  func(l *slog.Logger) { l.Info("opened", "path", "/dev/hidraw3") },
			want: " INFO opened path=/dev/hidraw3\n",
		},
		{
			name: "with attrs",
			log:  func(l *slog.Logger) { l.With("device", "pad").Warn("device removed") },
			want: " WARN device removed device=pad\n",
		},
		{
			name: "groups",
			log: func(l *slog.Logger) {
				l.WithGroup("imu").Info("calibration", slog.Group("accel", "x", 1), "source", "spi")
			},
			want: " INFO calibration imu.accel.x=1 imu.source=spi\n",
		},
		{
			name: "trace",
			log:  func(l *slog.Logger) { l.Log(context.Background(), LevelTrace, "event") },
			want: "TRACE event\n",
		},
		{
			name: "below level",
			log:  func(l *slog.Logger) { l.Log(context.Background(), LevelTrace-1, "dropped") },
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			tc.log(slog.New(newConsoleHandler(&buf, LevelTrace)))

			out := buf.String()
			if tc.want == "" {
				assert.Empty(t, out)
				return
			}
			require.Greater(t, len(out), len(timeFormat))
			_, err := time.Parse(timeFormat, out[:strings.IndexByte(out, ' ')])
			assert.NoError(t, err)
			assert.NotContains(t, out, "\033[")
			assert.True(t, strings.HasSuffix(out, tc.want), "got %q", out)
		})
	}
}

func TestConsoleHandlersSplit(t *testing.T) {
	var out, errOut bytes.Buffer
	l := slog.New(consoleHandlers(&out, &errOut, slog.LevelInfo))

	l.Debug("hidden")
	l.Info("shown")
	l.Error("failed", "error", "boom")

	assert.Contains(t, out.String(), "shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.NotContains(t, out.String(), "failed")
	assert.Contains(t, errOut.String(), "failed error=boom")
	assert.NotContains(t, errOut.String(), "shown")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf)
	r.Log(true, []byte{0x01, 0x80})
	r.Log(false, []byte{0x30})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "->   2 0180"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "<-   1 30"), lines[1])

	assert.NotPanics(t, func() { NewRaw(nil).Log(true, []byte{1}) })
}

func TestOpenRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.log")
	r, c, err := OpenRaw(path, "info")
	require.NoError(t, err)
	require.NotNil(t, c)
	r.Log(false, []byte{0xAB})
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<-   1 ab")

	_, c, err = OpenRaw("", "trace")
	assert.NoError(t, err)
	assert.Nil(t, c)

	_, _, err = OpenRaw(filepath.Join(t.TempDir(), "missing", "raw.log"), "info")
	assert.Error(t, err)
}
