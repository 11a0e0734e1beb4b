// Package configpaths resolves where padmap keeps its configuration and its
// per-device map files.
package configpaths

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user directories.
const AppName = "padmap"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, AppName), nil
}

// ConfigCandidatePaths lists config files to load, lowest priority first per
// format. An explicit user file is appended last so it wins.
func ConfigCandidatePaths(userCfg string) (jsonPaths, yamlPaths, tomlPaths []string) {
	dirs := []string{"."}
	if dir, err := DefaultConfigDir(); err == nil {
		dirs = append([]string{dir}, dirs...)
	}
	for _, d := range dirs {
		jsonPaths = append(jsonPaths, filepath.Join(d, "config.json"))
		yamlPaths = append(yamlPaths, filepath.Join(d, "config.yaml"), filepath.Join(d, "config.yml"))
		tomlPaths = append(tomlPaths, filepath.Join(d, "config.toml"))
	}
	if userCfg == "" {
		return jsonPaths, yamlPaths, tomlPaths
	}
	switch filepath.Ext(userCfg) {
	case ".yaml", ".yml":
		yamlPaths = append(yamlPaths, userCfg)
	case ".toml":
		tomlPaths = append(tomlPaths, userCfg)
	default:
		jsonPaths = append(jsonPaths, userCfg)
	}
	return jsonPaths, yamlPaths, tomlPaths
}

// UserConfig returns the --config value from args before kong parses them,
// falling back to PADMAP_CONFIG.
func UserConfig(args []string) string {
	for i, a := range args {
		if v, ok := strings.CutPrefix(a, "--config="); ok {
			return v
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv("PADMAP_CONFIG")
}
