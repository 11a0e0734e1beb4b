//go:build !windows

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const unitName = "padmap.service"

func unitDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "systemd", "user"), nil
}

// unitFile renders a systemd user unit running exe with args.
func unitFile(exe string, args []string) string {
	var b strings.Builder
	b.WriteString("[Unit]\n")
	b.WriteString("Description=padmap gamepad translation\n\n")
	b.WriteString("[Service]\n")
	b.WriteString("ExecStart=" + commandLine(exe, args) + "\n")
	b.WriteString("Restart=on-failure\n")
	b.WriteString("RestartSec=2\n\n")
	b.WriteString("[Install]\n")
	b.WriteString("WantedBy=default.target\n")
	return b.String()
}

func systemctl(args ...string) error {
	out, err := exec.Command("systemctl", append([]string{"--user"}, args...)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("systemctl %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}

func install(logger *slog.Logger, exePath string, args []string) error {
	dir, err := unitDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, unitName)
	if err := os.WriteFile(path, []byte(unitFile(exePath, args)), 0o644); err != nil {
		return err
	}
	if err := systemctl("daemon-reload"); err != nil {
		return err
	}
	if err := systemctl("enable", "--now", unitName); err != nil {
		return err
	}
	// pick up a changed command line when the unit was already running
	if err := systemctl("restart", unitName); err != nil {
		return err
	}

	logger.Info("padmap installed as systemd user service", "unit", path, "exe", exePath)
	return nil
}

func uninstall(logger *slog.Logger) error {
	dir, err := unitDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, unitName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Info("padmap is not installed")
		return nil
	}
	if err := systemctl("disable", "--now", unitName); err != nil {
		logger.Warn("disable unit", "error", err)
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	if err := systemctl("daemon-reload"); err != nil {
		return err
	}
	logger.Info("padmap systemd user service removed", "unit", path)
	return nil
}
