package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Alia5/padmap/internal/configpaths"
	"github.com/Alia5/padmap/mapping"
	"github.com/Alia5/padmap/physical"
)

// MapDir selects where map files live.
type MapDir struct {
	MapDir string `help:"Directory holding per-device map files (default: per-user data dir)" type:"path" env:"PADMAP_MAP_DIR"`
}

// Store opens the map file store.
func (m MapDir) Store() (*mapping.Store, error) {
	if m.MapDir != "" {
		return mapping.NewStore(m.MapDir), nil
	}
	dir, err := configpaths.MapDir()
	if err != nil {
		return nil, fmt.Errorf("resolve map dir: %w", err)
	}
	return mapping.NewStore(dir), nil
}

// Baseline tunes the idle measurement taken before capture and translation.
type Baseline struct {
	Samples  int           `help:"Idle samples per baseline" default:"30" env:"PADMAP_BASELINE_SAMPLES"`
	Interval time.Duration `help:"Time between idle samples" default:"10ms" env:"PADMAP_BASELINE_INTERVAL"`
}

// Capture tunes interactive capture.
type Capture struct {
	CommitOnAbort bool  `help:"Keep inputs captured before an abort" env:"PADMAP_COMMIT_ON_ABORT"`
	Notify        bool  `help:"Mirror prompts and warnings as desktop notifications" env:"PADMAP_NOTIFY"`
	Threshold     int32 `help:"Axis travel that counts as actuated" default:"16384" env:"PADMAP_CAPTURE_THRESHOLD"`
}

// JoystickInfo describes a connected joystick.
type JoystickInfo struct {
	Name    string
	Vendor  uint16
	Product uint16
	Axes    int
	Buttons int
	Hats    int
}

// Joystick is an open physical device with optional motors.
type Joystick interface {
	physical.Device
	Rumble(low, high uint16, d time.Duration) error
}

// Joysticks is the joystick backend. Every call must come from the goroutine
// that called Init.
type Joysticks interface {
	Init() error
	Quit()
	List() []JoystickInfo
	Open(name string) (Joystick, error)
}

// startJoysticks pins the calling goroutine to its thread and starts js.
// The returned func stops js and releases the thread.
func startJoysticks(js Joysticks) (func(), error) {
	runtime.LockOSThread()
	if err := js.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return func() {
		js.Quit()
		runtime.UnlockOSThread()
	}, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
