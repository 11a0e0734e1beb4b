// Package reportpad exposes a raw vendor pad as a physical.Device, so a
// decoded DS4-shaped report can be remapped like any joystick.
package reportpad

import (
	"github.com/Alia5/padmap/device/dualshock4"
	"github.com/Alia5/padmap/physical"
)

// Source yields decoded reports, for example ds4.Pad or switchpro.Pad.
type Source interface {
	Name() string
	Poll() (dualshock4.InputState, error)
	Close() error
}

// Button indexes of the produced state.
const (
	ButtonSquare = iota
	ButtonCross
	ButtonCircle
	ButtonTriangle
	ButtonShare
	ButtonOptions
	ButtonPS
	ButtonTouchpad
	numButtons
)

var faceBits = [...]uint16{
	ButtonSquare:   dualshock4.ButtonSquare,
	ButtonCross:    dualshock4.ButtonCross,
	ButtonCircle:   dualshock4.ButtonCircle,
	ButtonTriangle: dualshock4.ButtonTriangle,
	ButtonShare:    dualshock4.ButtonShare,
	ButtonOptions:  dualshock4.ButtonOptions,
}

// Pad adapts a Source.
type Pad struct {
	src   Source
	state *physical.State
}

// New wraps src.
func New(src Source) *Pad {
	st := physical.NewState(numButtons, 1, 4)
	st.Shoulders = make([]bool, 2)
	st.Thumbs = make([]bool, 2)
	st.Triggers = make([]int16, 2)
	return &Pad{src: src, state: st}
}

func (p *Pad) Name() string           { return p.src.Name() }
func (p *Pad) State() *physical.State { return p.state }
func (p *Pad) Close() error           { return p.src.Close() }

// Update polls the source once.
func (p *Pad) Update() error {
	s, err := p.src.Poll()
	if err != nil {
		return err
	}
	Fill(p.state, &s)
	return nil
}

// Fill writes a report into st, which must have the shape New gives it.
// Sticks are centred on 0, triggers run 0..32767.
func Fill(st *physical.State, s *dualshock4.InputState) {
	for i, bit := range faceBits {
		st.Buttons[i] = s.Buttons&bit != 0
	}
	st.Buttons[ButtonPS] = s.Special&dualshock4.SpecialPS != 0
	st.Buttons[ButtonTouchpad] = s.Special&dualshock4.SpecialTouchpad != 0

	st.Shoulders[0] = s.Buttons&dualshock4.ButtonL1 != 0
	st.Shoulders[1] = s.Buttons&dualshock4.ButtonR1 != 0
	st.Thumbs[0] = s.Buttons&dualshock4.ButtonL3 != 0
	st.Thumbs[1] = s.Buttons&dualshock4.ButtonR3 != 0

	st.Hats[0] = dualshock4.MaskFromHat(s.Hat())

	st.Axes[0] = axis(s.LX)
	st.Axes[1] = axis(s.LY)
	st.Axes[2] = axis(s.RX)
	st.Axes[3] = axis(s.RY)
	st.Triggers[0] = trigger(s.LT)
	st.Triggers[1] = trigger(s.RT)
}

func axis(v uint8) int16 { return int16((int32(v) - 0x80) << 8) }

func trigger(v uint8) int16 { return int16(int32(v) * 32767 / 255) }
