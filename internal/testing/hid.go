package testing

import (
	"bytes"
	"sync"
	"time"

	"github.com/Alia5/padmap/physical"
	"github.com/Alia5/padmap/rawpad"
)

// FakeHID is a scripted raw HID device. Reads pop queued reports and time
// out when the queue is empty. Every write is recorded and, when Respond is
// set, may queue replies.
type FakeHID struct {
	mu sync.Mutex

	Reports [][]byte
	Respond func(req []byte) [][]byte
	// ReadErr, when set, is returned by every read once the queue is empty.
	ReadErr error

	writes [][]byte
	closed bool
}

// NewFakeHID returns a device that will deliver reports in order.
func NewFakeHID(reports ...[]byte) *FakeHID {
	return &FakeHID{Reports: reports}
}

func (f *FakeHID) ReadTimeout(p []byte, _ time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, physical.ErrRemoved
	}
	if len(f.Reports) == 0 {
		if f.ReadErr != nil {
			return 0, f.ReadErr
		}
		return 0, rawpad.ErrTimeout
	}
	r := f.Reports[0]
	f.Reports = f.Reports[1:]
	return copy(p, r), nil
}

func (f *FakeHID) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, physical.ErrRemoved
	}
	f.writes = append(f.writes, bytes.Clone(p))
	if f.Respond != nil {
		f.Reports = append(f.Reports, f.Respond(p)...)
	}
	return len(p), nil
}

func (f *FakeHID) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Queue appends reports to be read.
func (f *FakeHID) Queue(reports ...[]byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Reports = append(f.Reports, reports...)
}

// Writes returns a copy of every report written so far.
func (f *FakeHID) Writes() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.writes))
	copy(out, f.writes)
	return out
}
