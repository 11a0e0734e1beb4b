package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/Alia5/padmap/mapping"
	"github.com/Alia5/padmap/rawpad/hidraw"
)

// Devices lists connected joysticks and raw HID controllers.
type Devices struct {
	MapDir `embed:""`

	All bool `help:"Include hidraw nodes that are not gamepads"`
}

// Run is called by Kong when the devices command is executed.
func (c *Devices) Run(logger *slog.Logger, js Joysticks) error {
	store, err := c.Store()
	if err != nil {
		return err
	}
	mapped, err := store.List()
	if err != nil {
		logger.Warn("list map files", "dir", store.Dir, "error", err)
	}

	stop, err := startJoysticks(js)
	if err != nil {
		return err
	}
	defer stop()

	raws, err := hidraw.Enumerate()
	if err != nil && !errors.Is(err, hidraw.ErrUnsupported) {
		logger.Warn("enumerate hidraw", "error", err)
	}
	if !c.All {
		raws = slices.DeleteFunc(raws, func(d hidraw.DeviceInfo) bool { return !d.Gamepad })
	}
	return writeDevices(os.Stdout, js.List(), raws, mapped)
}

func writeDevices(w io.Writer, joys []JoystickInfo, raws []hidraw.DeviceInfo, mapped []string) error {
	has := map[string]bool{}
	for _, m := range mapped {
		has[mapping.NormalizeName(m)] = true
	}

	width := 0
	for _, j := range joys {
		width = max(width, runewidth.StringWidth(j.Name))
	}
	for _, d := range raws {
		width = max(width, runewidth.StringWidth(d.Name))
	}

	if _, err := fmt.Fprintln(w, "Joysticks:"); err != nil {
		return err
	}
	if len(joys) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, j := range joys {
		mark := ""
		if has[mapping.NormalizeName(j.Name)] {
			mark = "  mapped"
		}
		fmt.Fprintf(w, "  %s  %04x:%04x  %d axes, %d buttons, %d hats%s\n",
			runewidth.FillRight(j.Name, width), j.Vendor, j.Product, j.Axes, j.Buttons, j.Hats, mark)
	}

	fmt.Fprintln(w, "Raw HID:")
	if len(raws) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, d := range raws {
		fmt.Fprintf(w, "  %s  %s  %s  %s\n", runewidth.FillRight(d.Name, width), d.Path, d.Info, d.Info.Model())
	}
	return nil
}
