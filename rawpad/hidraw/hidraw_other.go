//go:build !linux

package hidraw

import "time"

// Device is unavailable on this platform.
type Device struct{}

func Open(string) (*Device, error) { return nil, ErrUnsupported }

func Enumerate() ([]DeviceInfo, error) { return nil, ErrUnsupported }

func (d *Device) Path() string                                   { return "" }
func (d *Device) ReadTimeout([]byte, time.Duration) (int, error) { return 0, ErrUnsupported }
func (d *Device) Write([]byte) (int, error)                      { return 0, ErrUnsupported }
func (d *Device) Close() error                                   { return nil }
func (d *Device) Name() (string, error)                          { return "", ErrUnsupported }
func (d *Device) Info() (Info, error)                            { return Info{}, ErrUnsupported }
func (d *Device) ReportDescriptor() ([]byte, error)              { return nil, ErrUnsupported }
