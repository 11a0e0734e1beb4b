package main

import (
	"github.com/Alia5/padmap/internal/cmd"
	"github.com/Alia5/padmap/physical/sdljoy"
)

// sdlJoysticks backs the joystick commands with SDL3.
type sdlJoysticks struct{}

func (sdlJoysticks) Init() error { return sdljoy.Init() }
func (sdlJoysticks) Quit()       { sdljoy.Quit() }

func (sdlJoysticks) List() []cmd.JoystickInfo {
	var out []cmd.JoystickInfo
	for _, in := range sdljoy.List() {
		out = append(out, cmd.JoystickInfo{
			Name:    in.Name,
			Vendor:  in.Vendor,
			Product: in.Product,
			Axes:    in.Axes,
			Buttons: in.Buttons,
			Hats:    in.Hats,
		})
	}
	return out
}

func (sdlJoysticks) Open(name string) (cmd.Joystick, error) {
	js, err := sdljoy.Open(name)
	if err != nil {
		return nil, err
	}
	return js, nil
}
