//go:build windows

package configpaths

import (
	"os"
	"path/filepath"
)

// MapDir returns the directory holding per-device map files, under
// %APPDATA%.
func MapDir() (string, error) {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, AppName), nil
	}
	return DefaultConfigDir()
}
