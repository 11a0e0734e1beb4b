// Package hidraw opens raw HID devices through the Linux hidraw interface.
package hidraw

import (
	"errors"
	"fmt"

	"github.com/Alia5/padmap/rawpad"
	"github.com/Alia5/padmap/usb/hid"
)

// ErrUnsupported is returned on platforms without hidraw.
var ErrUnsupported = errors.New("hidraw is not supported on this platform")

// Bus types reported by the kernel.
const (
	BusUSB       uint32 = 0x03
	BusBluetooth uint32 = 0x05
)

// Info identifies a device.
type Info struct {
	Bus     uint32
	Vendor  uint16
	Product uint16
}

// Transport maps the bus type onto a transport. Anything that is not
// Bluetooth is treated as wired.
func (i Info) Transport() rawpad.Transport {
	if i.Bus == BusBluetooth {
		return rawpad.Bluetooth
	}
	return rawpad.USB
}

// Model returns the controller family.
func (i Info) Model() rawpad.Model { return rawpad.Identify(i.Vendor, i.Product) }

func (i Info) String() string {
	return fmt.Sprintf("%04x:%04x (%s)", i.Vendor, i.Product, i.Transport())
}

// DeviceInfo describes one enumerated device.
type DeviceInfo struct {
	Path    string
	Name    string
	Info    Info
	Gamepad bool
}

// classify fills the Gamepad flag from the descriptor and known models.
func classify(d *DeviceInfo, desc []byte) {
	d.Gamepad = d.Info.Model() != rawpad.ModelUnknown || hid.IsGamepad(desc)
}
