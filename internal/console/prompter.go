// Package console is the operator side of a capture session on a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/padmap/capture"
	"github.com/Alia5/padmap/input"
)

// Key bytes recognised while capturing.
const (
	keyCtrlC     = 0x03
	keyBackspace = 0x08
	keyEscape    = 0x1b
	keyDelete    = 0x7f
)

// KeyFor maps one byte read from the terminal to a capture key.
func KeyFor(b byte) capture.Key {
	switch b {
	case keyEscape, keyCtrlC, 'q', 'Q':
		return capture.KeyAbort
	case keyBackspace, keyDelete, 's', 'S':
		return capture.KeySkip
	}
	return capture.KeyNone
}

// Prompter prints capture prompts and turns key presses into skip and abort
// requests.
type Prompter struct {
	in       io.Reader
	out      io.Writer
	notifier Notifier
	keys     chan capture.Key
	raw      bool

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	restore func()
}

// NewPrompter reads keys from in until it fails or the prompter is closed.
// Prompts go to out and, when notifier is non-nil, to the desktop as well.
func NewPrompter(in io.Reader, out io.Writer, notifier Notifier) *Prompter {
	p := &Prompter{
		in:       in,
		out:      out,
		notifier: notifier,
		keys:     make(chan capture.Key, 4),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		restore:  func() {},
	}
	go p.read()
	return p
}

// NewTerminalPrompter puts stdin into raw mode, so single key presses reach
// the prompter without Enter. Call Close to restore the terminal.
func NewTerminalPrompter(notifier Notifier) (*Prompter, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return NewPrompter(os.Stdin, os.Stdout, notifier), nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("raw terminal: %w", err)
	}
	p := NewPrompter(os.Stdin, os.Stdout, notifier)
	p.raw = true
	p.restore = func() { _ = term.Restore(fd, state) }
	return p, nil
}

func (p *Prompter) read() {
	defer close(p.stopped)
	buf := make([]byte, 16)
	for {
		n, err := p.in.Read(buf)
		if p.isClosed() {
			return
		}
		for _, b := range buf[:n] {
			k := KeyFor(b)
			if k == capture.KeyNone {
				continue
			}
			select {
			case p.keys <- k:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}

func (p *Prompter) isClosed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Prompt asks the operator to actuate in.
func (p *Prompter) Prompt(in input.Input, text string) {
	p.println(text + "  (s: skip, esc: abort)")
	if p.notifier != nil {
		_ = p.notifier.Notify("padmap", text)
	}
}

// Reject reports a refused signal.
func (p *Prompter) Reject(in input.Input, err error) {
	p.println(fmt.Sprintf("%s: %v, try again", in.Format(), err))
}

// Key returns a pending key without blocking. A closed prompter has none.
func (p *Prompter) Key() capture.Key {
	if p.isClosed() {
		return capture.KeyNone
	}
	select {
	case k := <-p.keys:
		return k
	default:
		return capture.KeyNone
	}
}

// Println writes a line, honouring raw mode line endings.
func (p *Prompter) Println(s string) { p.println(s) }

func (p *Prompter) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	nl := "\n"
	if p.raw {
		nl = "\r\n"
	}
	fmt.Fprint(p.out, s+nl)
}

// Close stops key delivery and restores the terminal. A reader that
// supports deadlines, such as a pollable stdin, is woken so the read
// goroutine exits right away; otherwise it exits after its next read.
func (p *Prompter) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		if d, ok := p.in.(interface{ SetReadDeadline(time.Time) error }); ok {
			_ = d.SetReadDeadline(time.Now())
		}
	})
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restore()
	p.restore = func() {}
	return nil
}
