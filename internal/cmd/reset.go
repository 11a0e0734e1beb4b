package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alia5/padmap/mapping"
)

// Reset deletes the map file of a device so the next run captures again.
type Reset struct {
	MapDir `embed:""`

	Device string `arg:"" help:"Device name"`
}

// Run is called by Kong when the reset command is executed.
func (c *Reset) Run(logger *slog.Logger) error {
	store, err := c.Store()
	if err != nil {
		return err
	}
	if err := store.Delete(c.Device); err != nil {
		return err
	}
	logger.Info("map file removed", "device", c.Device, "path", store.Path(c.Device))
	return nil
}

// Import stores a map file previously printed by show as json, yaml or toml.
type Import struct {
	MapDir `embed:""`

	File   string `arg:"" type:"existingfile" help:"Exported map (.json, .yaml, .yml or .toml)"`
	Device string `help:"Store under this device name instead of the one in the file"`
}

// Run is called by Kong when the import command is executed.
func (c *Import) Run(logger *slog.Logger) error {
	store, err := c.Store()
	if err != nil {
		return err
	}
	device, err := importFile(store, c.File, c.Device)
	if err != nil {
		return err
	}
	logger.Info("map file imported", "device", device, "path", store.Path(device))
	return nil
}

func importFile(store *mapping.Store, path, device string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	name, t, err := mapping.Import(data, format)
	if err != nil {
		return "", fmt.Errorf("import %s: %w", path, err)
	}
	if device != "" {
		name = device
	}
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("import %s: no device name", path)
	}
	return name, store.Save(name, t)
}
