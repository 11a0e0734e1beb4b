// Package sdljoy reads joysticks through SDL3. All calls must come from the
// goroutine that called Init, locked to its OS thread.
package sdljoy

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/Alia5/padmap/physical"
)

// ErrNotFound is returned when no joystick matches.
var ErrNotFound = errors.New("joystick not found")

// Init starts the SDL joystick subsystem.
func Init() error {
	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("sdl init: %s", sdl.GetError())
	}
	return nil
}

// Quit shuts SDL down.
func Quit() { sdl.Quit() }

// Info describes a connected joystick.
type Info struct {
	ID      sdl.JoystickID
	Name    string
	Vendor  uint16
	Product uint16
	Axes    int
	Buttons int
	Hats    int
}

// List returns every connected joystick.
func List() []Info {
	var out []Info
	for _, id := range sdl.GetJoysticks() {
		js := sdl.OpenJoystick(id)
		if js == nil {
			continue
		}
		out = append(out, info(js))
		sdl.CloseJoystick(js)
	}
	return out
}

func info(js *sdl.Joystick) Info {
	return Info{
		ID:      sdl.GetJoystickID(js),
		Name:    sdl.GetJoystickName(js),
		Vendor:  sdl.GetJoystickVendor(js),
		Product: sdl.GetJoystickProduct(js),
		Axes:    int(sdl.GetNumJoystickAxes(js)),
		Buttons: int(sdl.GetNumJoystickButtons(js)),
		Hats:    int(sdl.GetNumJoystickHats(js)),
	}
}

// Joystick is an open SDL joystick implementing physical.Device.
type Joystick struct {
	js      *sdl.Joystick
	info    Info
	state   *physical.State
	removed bool
}

// Open opens the joystick with the given name, or the first one when name is
// empty. Names are compared case-insensitively.
func Open(name string) (*Joystick, error) {
	for _, id := range sdl.GetJoysticks() {
		js := sdl.OpenJoystick(id)
		if js == nil {
			continue
		}
		in := info(js)
		if name == "" || strings.EqualFold(strings.TrimSpace(in.Name), strings.TrimSpace(name)) {
			return &Joystick{
				js:    js,
				info:  in,
				state: physical.NewState(in.Buttons, in.Hats, in.Axes),
			}, nil
		}
		sdl.CloseJoystick(js)
	}
	if name == "" {
		return nil, ErrNotFound
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (j *Joystick) Name() string           { return j.info.Name }
func (j *Joystick) Info() Info             { return j.info }
func (j *Joystick) State() *physical.State { return j.state }

// Update pumps SDL events and samples every axis, button and hat.
func (j *Joystick) Update() error {
	var ev sdl.Event
	for sdl.PollEvent(&ev) {
		if ev.Type() == sdl.EventJoystickRemoved && ev.JDevice().Which == j.info.ID {
			j.removed = true
		}
	}
	if j.removed || !sdl.JoystickConnected(j.js) {
		j.removed = true
		return physical.ErrRemoved
	}
	for i := range j.state.Axes {
		j.state.Axes[i] = sdl.GetJoystickAxis(j.js, int32(i))
	}
	for i := range j.state.Buttons {
		j.state.Buttons[i] = sdl.GetJoystickButton(j.js, int32(i))
	}
	for i := range j.state.Hats {
		j.state.Hats[i] = sdl.GetJoystickHat(j.js, int32(i))
	}
	return nil
}

// Rumble drives the low and high frequency motors for d. Pads without
// motors return an error.
func (j *Joystick) Rumble(low, high uint16, d time.Duration) error {
	if !sdl.RumbleJoystick(j.js, low, high, uint32(d.Milliseconds())) {
		return fmt.Errorf("rumble: %s", sdl.GetError())
	}
	return nil
}

func (j *Joystick) Close() error {
	sdl.CloseJoystick(j.js)
	return nil
}
