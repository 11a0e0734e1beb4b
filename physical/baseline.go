package physical

import (
	"context"
	"math"
	"slices"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/Alia5/padmap/input"
)

// Baseline defaults: about a third of a second of idle samples.
const (
	BaselineSamples  = 30
	BaselineInterval = 10 * time.Millisecond
)

// AxisStats summarises the idle readings of one axis.
type AxisStats struct {
	Mean   float64
	Median int32
	Mode   int32
	Min    int32
	Max    int32
}

// Range is the spread observed while idle.
func (a AxisStats) Range() int32 { return a.Max - a.Min }

// Baseline holds the resting value of every axis of a device.
type Baseline struct {
	Axes     []AxisStats
	Triggers []AxisStats
}

// Center returns the resting value of the axis (kind, index), rounded from
// the mean. Axes the baseline does not know rest at 0.
func (b *Baseline) Center(kind input.Kind, index int32) int32 {
	if b == nil || index < 0 {
		return 0
	}
	var list []AxisStats
	switch kind {
	case input.Stick:
		list = b.Axes
	case input.Trigger:
		list = b.Triggers
	}
	if int(index) >= len(list) {
		return 0
	}
	return int32(math.Round(list[index].Mean))
}

// MeasureBaseline samples dev at idle and computes per-axis statistics.
func MeasureBaseline(ctx context.Context, dev Device, samples int, interval time.Duration) (*Baseline, error) {
	if samples <= 0 {
		samples = BaselineSamples
	}
	if interval <= 0 {
		interval = BaselineInterval
	}
	var axes, triggers [][]int16
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 0; n < samples; n++ {
		if err := dev.Update(); err != nil {
			return nil, err
		}
		st := dev.State()
		axes = collect(axes, st.Axes)
		triggers = collect(triggers, st.Triggers)
		if n == samples-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
	return &Baseline{Axes: summarize(axes), Triggers: summarize(triggers)}, nil
}

func collect(dst [][]int16, vals []int16) [][]int16 {
	for len(dst) < len(vals) {
		dst = append(dst, nil)
	}
	for i, v := range vals {
		dst[i] = append(dst[i], v)
	}
	return dst
}

func summarize(series [][]int16) []AxisStats {
	out := make([]AxisStats, len(series))
	for i, s := range series {
		out[i] = Stats(s)
	}
	return out
}

// Stats computes the summary of a series of readings. The mode breaks ties
// toward the smaller value.
func Stats[T constraints.Integer](vals []T) AxisStats {
	if len(vals) == 0 {
		return AxisStats{}
	}
	sorted := slices.Clone(vals)
	slices.Sort(sorted)

	var sum float64
	for _, v := range vals {
		sum += float64(v)
	}

	mode, best, run := sorted[0], 0, 0
	for i, v := range sorted {
		if i > 0 && v == sorted[i-1] {
			run++
		} else {
			run = 1
		}
		if run > best {
			best, mode = run, v
		}
	}

	mid := len(sorted) / 2
	median := int32(sorted[mid])
	if len(sorted)%2 == 0 {
		median = int32((int64(sorted[mid-1]) + int64(sorted[mid])) / 2)
	}

	return AxisStats{
		Mean:   sum / float64(len(vals)),
		Median: median,
		Mode:   int32(mode),
		Min:    int32(sorted[0]),
		Max:    int32(sorted[len(sorted)-1]),
	}
}

// Abs returns |v|.
func Abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
