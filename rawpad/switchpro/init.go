package switchpro

import (
	"context"
	"errors"

	"github.com/Alia5/padmap/rawpad"
)

// Wired handshake commands, sent as output report 0x80.
const (
	usbHandshake byte = 0x02
	usbHighSpeed byte = 0x03
	usbNoTimeout byte = 0x04
)

// Subcommands used during setup.
const (
	subcmdReportMode byte = 0x03
	subcmdIMU        byte = 0x40
	subcmdVibration  byte = 0x48
)

type setupStep struct {
	name string
	id   byte
	arg  byte
}

var setupSteps = []setupStep{
	{"imu", subcmdIMU, 0x01},
	{"report mode", subcmdReportMode, ReportFull},
	{"vibration", subcmdVibration, 0x01},
}

// Init brings the controller into full report mode with IMU and rumble
// enabled. A step the controller never acknowledges is logged and skipped.
func (c *Conn) Init(ctx context.Context) error {
	if c.transport == rawpad.USB {
		for _, cmd := range []byte{usbHandshake, usbHighSpeed, usbHandshake, usbNoTimeout} {
			if err := c.write([]byte{outUSB, cmd}); err != nil {
				return err
			}
			// the ack is only drained; some firmwares never send it
			if _, err := c.Read(c.ReplyTimeout); err != nil && !errors.Is(err, rawpad.ErrTimeout) {
				return err
			}
		}
	}
	for _, st := range setupSteps {
		_, err := c.Subcommand(ctx, st.id, st.arg)
		if errors.Is(err, ErrExhausted) {
			c.logger.Warn("controller did not acknowledge setup step", "step", st.name)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
