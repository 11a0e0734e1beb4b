package console

import (
	"bytes"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const padArt = `   _=====_                               _=====_
  / _____ \                             / _____ \
+.-'_____'-.---------------------------.-'_____'-.+
/   |     |  '.                     .'  |  _  |   \
/ ___| /|\ |___ \                   / ___| /_\ |___ \
/ |      |      | ;  __       _   ; | _         _ | ;
| | <---   ---> | | |__|     |_:> | ||_|       (_)| |
| |___   |   ___| ;SELECT   START ; |___       ___| ;
|\    | \|/ |    /  _     ___      _   \    | (X) |    /|
| \   |_____|  .','" "', |___|  ,'" "', '.  |_____|  .' |
|  '-.______.-' /       \ANALOG/       \  '-._____.-'   |
|               |       |------|       |                |
|              /\       /      \       /\               |
|             /  '.___.'        '.___.'  \              |
|            /                            \             |
 \          /                              \           /
  \________/                                \_________/`

type helpStyle string

const (
	helpPlain helpStyle = "plain"
	helpArt   helpStyle = "art"

	// columns the art and the kong help need side by side
	artMinWidth = 140
)

// HelpWithArt prints kong's help with the pad drawn on its left when the
// terminal is wide enough. PADMAP_HELP_STYLE forces plain or art.
func HelpWithArt(options kong.HelpOptions, ctx *kong.Context) error {
	style := helpStyle(strings.ToLower(os.Getenv("PADMAP_HELP_STYLE")))
	if style == "" {
		style = terminalHelpStyle()
	}
	if style != helpArt {
		return kong.DefaultHelpPrinter(options, ctx)
	}

	var buf bytes.Buffer
	stdout := ctx.Stdout
	ctx.Stdout = &buf
	err := kong.DefaultHelpPrinter(options, ctx)
	ctx.Stdout = stdout
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, sideBySide(tint(padArt, "\x1b[36m"), buf.String()))
	return err
}

// sideBySide places left next to right, centring left vertically.
func sideBySide(left, right string) string {
	l := splitLines(left)
	r := splitLines(right)

	width := 0
	for _, line := range l {
		width = max(width, visibleWidth(line))
	}
	width += 2
	offset := max((len(r)-len(l))/2, 0)

	var out strings.Builder
	for i := range max(len(r), offset+len(l)) {
		var a, b string
		if j := i - offset; j >= 0 && j < len(l) {
			a = l[j]
		}
		if i < len(r) {
			b = r[i]
		}
		out.WriteString(a)
		out.WriteString(strings.Repeat(" ", width-visibleWidth(a)))
		out.WriteString(strings.TrimRight(b, " "))
		out.WriteByte('\n')
	}
	return out.String()
}

// tint colors every line of s on its own so the color never reaches the
// right column.
func tint(s, color string) string {
	lines := splitLines(s)
	for i, l := range lines {
		lines[i] = color + l + "\x1b[0m"
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n")
	return strings.Split(s, "\n")
}

// visibleWidth is the terminal width of s with ANSI CSI sequences removed.
func visibleWidth(s string) int {
	var plain strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\x1b' {
			plain.WriteByte(s[i])
			continue
		}
		for i++; i < len(s) && !isFinalByte(s[i]); i++ {
		}
	}
	return runewidth.StringWidth(plain.String())
}

func isFinalByte(b byte) bool { return b >= 0x40 && b <= 0x7e && b != '[' }

// PlainHelpArgs turns -p into -h and forces the plain help layout.
func PlainHelpArgs(args []string) []string {
	i := slices.Index(args, "-p")
	if i < 1 {
		return args
	}
	os.Setenv("PADMAP_HELP_STYLE", string(helpPlain))
	out := slices.Clone(args)
	out[i] = "-h"
	return out
}

func terminalHelpStyle() helpStyle {
	if os.Getenv("TERM") == "dumb" {
		return helpPlain
	}
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		fd := int(f.Fd())
		if !term.IsTerminal(fd) {
			continue
		}
		if w, _, err := term.GetSize(fd); err == nil && w >= artMinWidth {
			return helpArt
		}
		return helpPlain
	}
	return helpPlain
}
