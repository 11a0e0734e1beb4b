//go:build windows

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	runKeyPath  = `Software\Microsoft\Windows\CurrentVersion\Run`
	runValueKey = "padmap"
)

func install(logger *slog.Logger, exePath string, args []string) error {
	previous, err := registeredExe()
	if err != nil {
		return err
	}

	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE|registry.QUERY_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()
	if err := key.SetStringValue(runValueKey, commandLine(exePath, args)); err != nil {
		return err
	}

	if previous != "" {
		if err := stopInstances(previous, logger); err != nil {
			return fmt.Errorf("stop previous instance: %w", err)
		}
	}
	if err := exec.Command(exePath, args...).Start(); err != nil {
		return fmt.Errorf("start padmap: %w", err)
	}

	logger.Info("padmap registered to run at login", "exe", exePath, "args", args)
	return nil
}

func uninstall(logger *slog.Logger) error {
	registered, err := registeredExe()
	if err != nil {
		return err
	}
	if registered == "" {
		logger.Info("padmap is not installed")
		return nil
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer key.Close()
	if err := key.DeleteValue(runValueKey); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return err
	}

	if err := stopInstances(registered, logger); err != nil {
		return fmt.Errorf("stop instance: %w", err)
	}
	logger.Info("padmap login entry removed")
	return nil
}

// registeredExe returns the executable of the current Run entry, or "".
func registeredExe() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer key.Close()

	val, _, err := key.GetStringValue(runValueKey)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return commandExe(val), nil
}

// stopInstances terminates every process running exe except this one.
func stopInstances(exe string, logger *slog.Logger) error {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return fmt.Errorf("process snapshot: %w", err)
	}
	defer windows.CloseHandle(snap)

	self := uint32(os.Getpid())
	entry := windows.ProcessEntry32{Size: uint32(unsafe.Sizeof(windows.ProcessEntry32{}))}
	for err = windows.Process32First(snap, &entry); err == nil; err = windows.Process32Next(snap, &entry) {
		if entry.ProcessID == self || entry.ProcessID == 0 {
			continue
		}
		path, perr := processPath(entry.ProcessID)
		if perr != nil || !strings.EqualFold(filepath.Clean(path), exe) {
			continue
		}
		if err := terminate(entry.ProcessID); err != nil {
			return fmt.Errorf("terminate pid %d: %w", entry.ProcessID, err)
		}
		logger.Info("stopped running instance", "pid", entry.ProcessID)
	}
	if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
		return err
	}
	return nil
}

func processPath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	n := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &n); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf[:n]), nil
}

func terminate(pid uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE|windows.SYNCHRONIZE, false, pid)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(h)
	if err := windows.TerminateProcess(h, 1); err != nil {
		return err
	}
	_, err = windows.WaitForSingleObject(h, 5000)
	return err
}
