package main

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set through -ldflags; empty values are filled from the build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

var descriptionTemplate = `
Gamepad input normalization and mapping
  Version: %s (%s)
           %s
  Source:  https://github.com/Alia5/padmap
`

func Description() string {
	return fmt.Sprintf(descriptionTemplate, Version, Commit, Date)
}

func init() {
	var settings map[string]string
	if info, ok := debug.ReadBuildInfo(); ok {
		settings = make(map[string]string, len(info.Settings))
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}
		if Version == "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
	}
	if Commit == "" {
		Commit = settings["vcs.revision"]
		if len(Commit) > 7 {
			Commit = Commit[:7]
		}
	}
	if Date == "" {
		Date = settings["vcs.time"]
		if t, err := time.Parse(time.RFC3339, Date); err == nil {
			Date = t.Format("2006-01-02")
		}
	}
	Version = orDefault(Version, "dev")
	Commit = orDefault(Commit, "unknown")
	Date = orDefault(Date, "unknown")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
