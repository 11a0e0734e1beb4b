package console

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleWidth(t *testing.T) {
	type testCase struct {
		name string
		in   string
		want int
	}
	cases := []testCase{
		{"plain", "SELECT", 6},
		{"colored", "\x1b[36mSELECT\x1b[0m", 6},
		{"only escapes", "\x1b[1;31m\x1b[0m", 0},
		{"wide runes", "\x1b[32mパッド\x1b[0m", 6},
		{"empty", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, visibleWidth(tc.in))
		})
	}
}

func TestSideBySide(t *testing.T) {
	out := sideBySide(tint("ab\nc", "\x1b[36m"), "1\n2\n3\n4\n")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "    1", lines[0])
	assert.Equal(t, "\x1b[36mab\x1b[0m  2", lines[1])
	assert.Equal(t, "\x1b[36mc\x1b[0m   3", lines[2])
	assert.Equal(t, "    4", lines[3])

	// art taller than the help text
	out = sideBySide("a\nb\nc", "x\r\n")
	assert.Equal(t, "a  x\nb  \nc  \n", out)
}

func TestPlainHelpArgs(t *testing.T) {
	t.Setenv("PADMAP_HELP_STYLE", "")

	args := []string{"padmap", "run"}
	assert.Equal(t, args, PlainHelpArgs(args))

	args = []string{"padmap", "run", "-p"}
	out := PlainHelpArgs(args)
	assert.Equal(t, []string{"padmap", "run", "-h"}, out)
	assert.Equal(t, "-p", args[2])
	assert.Equal(t, string(helpPlain), os.Getenv("PADMAP_HELP_STYLE"))
}
