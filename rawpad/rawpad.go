// Package rawpad holds what the vendor report decoders share: the HID
// transport they talk through.
package rawpad

import (
	"errors"
	"time"
)

// ErrTimeout is returned by ReadTimeout when no report arrived in time.
var ErrTimeout = errors.New("hid read timeout")

// HID is a raw HID device: every Read yields one whole input report and
// every Write sends one whole output report, report id first.
type HID interface {
	ReadTimeout(p []byte, timeout time.Duration) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// Transport is how the controller is attached. Several report layouts and
// handshakes depend on it.
type Transport uint8

const (
	USB Transport = iota
	Bluetooth
)

func (t Transport) String() string {
	if t == Bluetooth {
		return "bluetooth"
	}
	return "usb"
}
