//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// MapDir returns the directory holding per-device map files. Root services
// use /var/lib/padmap; users get $XDG_DATA_HOME/padmap.
func MapDir() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join(string(os.PathSeparator), "var", "lib", AppName), nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}
