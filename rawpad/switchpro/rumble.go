package switchpro

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Alia5/padmap/physical"
)

// Frequencies the motors rest at, in Hz.
const (
	DefaultFreqHi = 320.0
	DefaultFreqLo = 160.0
)

// Safe operating ranges of the linear resonant actuators.
const (
	MinFreqHi = 81.75
	MaxFreqHi = 1252.0
	MinFreqLo = 40.875
	MaxFreqLo = 626.286
)

// RumblePeriod is how often the Rumbler resends the current frame.
const RumblePeriod = 15 * time.Millisecond

// FeedbackDuration is how long a motor level from feedback is held.
const FeedbackDuration = time.Second

// NeutralRumble is the encoded frame for silence at the default frequencies.
var NeutralRumble = [4]byte{0x00, 0x01, 0x40, 0x40}

// Frame is one rumble request. Amplitudes run 0..1.
type Frame struct {
	FreqHi, AmpHi float64
	FreqLo, AmpLo float64
	Duration      time.Duration
}

// FrameFromMotors turns a strong/weak motor pair into a frame: the strong
// motor drives the low band, the weak one the high band.
func FrameFromMotors(strong, weak uint8, d time.Duration) Frame {
	return Frame{
		FreqHi:   DefaultFreqHi,
		AmpHi:    float64(weak) / 255,
		FreqLo:   DefaultFreqLo,
		AmpLo:    float64(strong) / 255,
		Duration: d,
	}
}

func encodeFreq(f float64) uint16 {
	return uint16(math.Round(math.Log2(f/10) * 32))
}

func encodeAmp(a float64) uint16 {
	if a <= 0 {
		return 0
	}
	l := math.Log2(a*1000)*32 - 0x60
	var v float64
	switch {
	case a < 0.117:
		v = l/(5-a*a) - 1
	case a < 0.23:
		v = l - 0x5C
	default:
		v = l*2 - 0xF6
	}
	return uint16(physical.Clamp(math.Round(v/2), 0, 100))
}

// EncodeRumble packs a frame into the 4-byte form used for each motor.
// Frequencies and amplitudes are clamped into their safe ranges first.
func EncodeRumble(f Frame) [4]byte {
	hiF := min(max(f.FreqHi, MinFreqHi), MaxFreqHi)
	loF := min(max(f.FreqLo, MinFreqLo), MaxFreqLo)
	hiA := min(max(f.AmpHi, 0), 1)
	loA := min(max(f.AmpLo, 0), 1)

	hf := (encodeFreq(hiF) - 0x60) * 4
	lf := encodeFreq(loF) - 0x40

	hfAmp := encodeAmp(hiA) * 2
	enLo := encodeAmp(loA)
	lfAmp := enLo/2 + 0x40
	if enLo%2 == 1 {
		lfAmp |= 0x8000
	}

	return [4]byte{
		byte(hf & 0xFF),
		byte(hfAmp + hf>>8),
		byte(lf + lfAmp>>8),
		byte(lfAmp & 0xFF),
	}
}

// Rumbler resends the current frame to both motors every period until its
// duration runs out, then sends one neutral frame and goes quiet.
type Rumbler struct {
	mu        sync.Mutex
	frame     Frame
	remaining time.Duration

	period time.Duration
	send   func(left, right [4]byte) error
	logger *slog.Logger
}

// NewRumbler returns a Rumbler writing through c.
func NewRumbler(c *Conn, period time.Duration) *Rumbler {
	if period <= 0 {
		period = RumblePeriod
	}
	return &Rumbler{period: period, send: c.SendRumble, logger: c.logger}
}

// Set replaces the current frame.
func (r *Rumbler) Set(f Frame) {
	r.mu.Lock()
	r.frame = f
	r.remaining = f.Duration
	r.mu.Unlock()
}

// Run sends frames until ctx is done.
func (r *Rumbler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Rumbler) tick() {
	r.mu.Lock()
	if r.remaining <= 0 {
		r.mu.Unlock()
		return
	}
	f := r.frame
	r.remaining -= r.period
	expired := r.remaining <= 0
	r.mu.Unlock()

	enc := EncodeRumble(f)
	if err := r.send(enc, enc); err != nil {
		r.logger.Debug("rumble write failed", "error", err)
	}
	if expired {
		if err := r.send(NeutralRumble, NeutralRumble); err != nil {
			r.logger.Debug("rumble write failed", "error", err)
		}
	}
}
