//go:build linux

package hidraw

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/Alia5/padmap/physical"
	"github.com/Alia5/padmap/rawpad"
)

// ioctl request encoding (Linux _IOC macro)
const (
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocRead = 2

	maxDescriptorSize = 4096
	maxNameSize       = 256
)

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr(dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift)
}

type devInfo struct {
	Bus     uint32
	Vendor  int16
	Product int16
}

type descriptor struct {
	Size  uint32
	Value [maxDescriptorSize]byte
}

var (
	hidiocGRDescSize = ioc(iocRead, 'H', 0x01, 4)
	hidiocGRDesc     = ioc(iocRead, 'H', 0x02, uint32(unsafe.Sizeof(descriptor{})))
	hidiocGRawInfo   = ioc(iocRead, 'H', 0x03, uint32(unsafe.Sizeof(devInfo{})))
	hidiocGRawName   = ioc(iocRead, 'H', 0x04, maxNameSize)
)

// Device is an open /dev/hidraw node.
type Device struct {
	fd   int
	path string
}

// Open opens a hidraw node for reading and writing.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, mapErr(err)
	}
	return &Device{fd: fd, path: path}, nil
}

func (d *Device) Path() string { return d.path }

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	if errno != 0 {
		return mapErr(errno)
	}
	return nil
}

// ReadTimeout reads one input report. A negative timeout blocks.
func (d *Device) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout.Milliseconds())
	}
	fds := []unix.PollFd{{Fd: int32(d.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, ms)
	if errors.Is(err, unix.EINTR) {
		return 0, rawpad.ErrTimeout
	}
	if err != nil {
		return 0, mapErr(err)
	}
	if n == 0 {
		return 0, rawpad.ErrTimeout
	}
	if fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
		return 0, physical.ErrRemoved
	}
	r, err := unix.Read(d.fd, p)
	if err != nil {
		return 0, mapErr(err)
	}
	return r, nil
}

// Write sends one output report, report id first.
func (d *Device) Write(p []byte) (int, error) {
	n, err := unix.Write(d.fd, p)
	if err != nil {
		return n, mapErr(err)
	}
	return n, nil
}

func (d *Device) Close() error { return unix.Close(d.fd) }

// Name returns the product string the kernel reports.
func (d *Device) Name() (string, error) {
	buf := make([]byte, maxNameSize)
	if err := d.ioctl(hidiocGRawName, unsafe.Pointer(&buf[0])); err != nil {
		return "", err
	}
	return strings.TrimRight(string(buf), "\x00"), nil
}

// Info returns bus type and USB ids.
func (d *Device) Info() (Info, error) {
	var di devInfo
	if err := d.ioctl(hidiocGRawInfo, unsafe.Pointer(&di)); err != nil {
		return Info{}, err
	}
	return Info{Bus: di.Bus, Vendor: uint16(di.Vendor), Product: uint16(di.Product)}, nil
}

// ReportDescriptor returns the HID report descriptor.
func (d *Device) ReportDescriptor() ([]byte, error) {
	var size uint32
	if err := d.ioctl(hidiocGRDescSize, unsafe.Pointer(&size)); err != nil {
		return nil, err
	}
	desc := &descriptor{Size: min(size, maxDescriptorSize)}
	if err := d.ioctl(hidiocGRDesc, unsafe.Pointer(desc)); err != nil {
		return nil, err
	}
	return append([]byte(nil), desc.Value[:desc.Size]...), nil
}

// Enumerate lists every hidraw node that can be opened. Nodes that fail to
// open, usually for lack of permission, are skipped.
func Enumerate() ([]DeviceInfo, error) {
	paths, err := filepath.Glob("/dev/hidraw*")
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var out []DeviceInfo
	for _, p := range paths {
		d, err := Open(p)
		if err != nil {
			continue
		}
		di := DeviceInfo{Path: p}
		di.Name, _ = d.Name()
		di.Info, _ = d.Info()
		desc, _ := d.ReportDescriptor()
		classify(&di, desc)
		_ = d.Close()
		out = append(out, di)
	}
	return out, nil
}

func mapErr(err error) error {
	if errors.Is(err, unix.ENODEV) || errors.Is(err, unix.ENXIO) {
		return physical.ErrRemoved
	}
	return err
}
