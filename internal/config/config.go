// Package config defines the CLI structure and configuration for padmap.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/Alia5/padmap/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PADMAP_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"PADMAP_LOG_FILE"`
	RawFile string `help:"Raw HID report log file path (default: none)" env:"PADMAP_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Config  string           `help:"Extra config file (json, yaml or toml)" type:"path" env:"PADMAP_CONFIG"`
	Version kong.VersionFlag `help:"Print the version and exit"`

	Devices   cmd.Devices   `cmd:"" help:"List connected joysticks and raw HID controllers"`
	Map       cmd.Map       `cmd:"" help:"Capture the map file of a joystick"`
	Run       cmd.Run       `cmd:"" help:"Translate a joystick through its map file and stream the report"`
	Raw       cmd.Raw       `cmd:"" help:"Decode a DualShock 4 or Pro Controller over hidraw and stream the report"`
	Show      cmd.Show      `cmd:"" help:"Print a map file or list mapped devices"`
	Reset     cmd.Reset     `cmd:"" help:"Delete the map file of a device"`
	Import    cmd.Import    `cmd:"" help:"Store an exported map file"`
	Install   cmd.Install   `cmd:"" help:"Start padmap run at login"`
	Uninstall cmd.Uninstall `cmd:"" help:"Remove the login entry"`
}
