package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/padmap/mapping"
)

// Show prints a map file, or lists the devices that have one.
type Show struct {
	MapDir `embed:""`

	Device string `arg:"" optional:"" help:"Device name (default: list mapped devices)"`
	Format string `help:"Output format" default:"text" enum:"text,json,yaml,toml" env:"PADMAP_SHOW_FORMAT"`
}

// Run is called by Kong when the show command is executed.
func (c *Show) Run(logger *slog.Logger) error {
	store, err := c.Store()
	if err != nil {
		return err
	}
	logger.Debug("map dir", "dir", store.Dir)
	return show(os.Stdout, store, c.Device, c.Format)
}

func show(w io.Writer, store *mapping.Store, device, format string) error {
	if device == "" {
		names, err := store.List()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(w, n)
		}
		return nil
	}

	t, f, err := store.Load(device)
	if err != nil {
		return fmt.Errorf("%s: %w", device, err)
	}
	if format == "" || format == "text" {
		fmt.Fprintf(w, "%s (%s, %d mapped)\n", device, f, t.Mapped())
		_, err = io.WriteString(w, mapping.Render(t))
		return err
	}
	b, err := mapping.Export(device, t, format)
	if err != nil {
		return err
	}
	if !bytes.HasSuffix(b, []byte("\n")) {
		b = append(b, '\n')
	}
	_, err = w.Write(b)
	return err
}
