package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Alia5/padmap/internal/cmd"
	"github.com/Alia5/padmap/internal/config"
	"github.com/Alia5/padmap/internal/configpaths"
	"github.com/Alia5/padmap/internal/console"
	"github.com/Alia5/padmap/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	os.Args = console.PlainHelpArgs(os.Args)

	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(configpaths.UserConfig(os.Args[1:]))

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("padmap"),
		kong.Description(Description()),
		kong.Vars{"version": Version + " (" + Commit + ", " + Date + ")"},
		kong.UsageOnError(),
		kong.Help(console.HelpWithArt),
		// flags and env win over any config file
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closers, err := log.SetupLogger(cli.Log.Level, cli.Log.File)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup logger:", err)
		os.Exit(2)
	}

	raw, rawFile, err := log.OpenRaw(cli.Log.RawFile, cli.Log.Level)
	if err != nil {
		logger.Error("failed to open raw log file", "file", cli.Log.RawFile, "error", err)
	}
	if rawFile != nil {
		closers = append(closers, rawFile)
	}

	ctx.Bind(logger)
	ctx.BindTo(raw, (*log.RawLogger)(nil))
	ctx.BindTo(sdlJoysticks{}, (*cmd.Joysticks)(nil))

	err = ctx.Run()
	closeAll(closers)
	ctx.FatalIfErrorf(err)
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
