package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Install registers padmap run to start at login.
type Install struct {
	Args []string `arg:"" optional:"" passthrough:"" help:"Arguments for the run command, e.g. --connect host:port"`
}

// Uninstall removes the login entry.
type Uninstall struct{}

func (c *Install) Run(logger *slog.Logger) error {
	exe, err := currentExecutable()
	if err != nil {
		return err
	}

	if strings.Contains(exe, "go-build") {
		return errors.New("cannot install from 'go run'")
	}

	return install(logger, exe, append([]string{"run"}, c.Args...))
}

func (c *Uninstall) Run(logger *slog.Logger) error {
	exe, err := currentExecutable()
	if err != nil {
		return err
	}

	if strings.Contains(exe, "go-build") {
		return errors.New("cannot uninstall from 'go run'")
	}

	return uninstall(logger)
}

func currentExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}

	return filepath.Abs(exe)
}

// commandLine joins exe and args, wrapping anything with blanks in double
// quotes.
func commandLine(exe string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{exe}, args...) {
		if a == "" || strings.ContainsAny(a, " \t") {
			a = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// commandExe returns the cleaned executable path of a command line written
// by commandLine.
func commandExe(line string) string {
	line = strings.TrimSpace(line)
	var exe string
	if rest, ok := strings.CutPrefix(line, `"`); ok {
		exe, _, _ = strings.Cut(rest, `"`)
	} else {
		exe, _, _ = strings.Cut(line, " ")
	}
	if exe == "" {
		return ""
	}
	return filepath.Clean(exe)
}
