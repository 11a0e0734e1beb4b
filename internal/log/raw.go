package log

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// RawLogger records raw device reports. Logging to a RawLogger built without
// a writer is a no-op.
type RawLogger interface {
	// Log records one report. out is true for host to device traffic.
	Log(out bool, data []byte)
}

type rawLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRaw returns a RawLogger writing hex lines to w. A nil w discards.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

func (l *rawLogger) Log(out bool, data []byte) {
	if l.w == nil {
		return
	}
	dir := "<-"
	if out {
		dir = "->"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(l.w, "%s %s %3d %s\n", time.Now().Format("15:04:05.000000"), dir, len(data), hex.EncodeToString(data))
}

// OpenRaw picks the raw report destination: path when set, stdout at trace
// level, nothing otherwise. The returned closer is nil unless a file was
// opened.
func OpenRaw(path, level string) (RawLogger, io.Closer, error) {
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return NewRaw(nil), nil, err
		}
		return NewRaw(f), f, nil
	case ParseLevel(level) <= LevelTrace:
		return NewRaw(os.Stdout), nil, nil
	default:
		return NewRaw(nil), nil, nil
	}
}
