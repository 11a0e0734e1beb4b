// Package log builds the process logger and the raw report logger.
//
// Without a log file, records below error go to stdout and errors go to
// stderr. With a log file, the console only gets a plain text handler on
// stderr and the file receives everything at the configured level.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace is below debug and carries per-event translation output.
const LevelTrace slog.Level = -8

// ParseLevel maps a level name to a slog level. Unknown names are info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger builds the logger, installs it as the slog default and returns
// the files the caller has to close on exit.
func SetupLogger(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)

	if logFile == "" {
		logger := slog.New(consoleHandlers(os.Stdout, os.Stderr, level))
		slog.SetDefault(logger)
		return logger, nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(fanout{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
		slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}),
	})
	slog.SetDefault(logger)
	return logger, []io.Closer{f}, nil
}

// consoleHandlers splits records between out and errOut at the error level.
func consoleHandlers(out, errOut io.Writer, level slog.Level) slog.Handler {
	return fanout{
		levelFilter{
			pass: func(l slog.Level) bool { return l < slog.LevelError },
			h:    newConsoleHandler(out, level),
		},
		levelFilter{
			pass: func(l slog.Level) bool { return l >= slog.LevelError },
			h:    newConsoleHandler(errOut, slog.LevelError),
		},
	}
}
