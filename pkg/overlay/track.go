// Package overlay 根据滚动进度计算叠加层的透明度、位移与缩放
//
// 每个动画属性由一张 breakpoint/output 表描述，使用分段线性插值求值。
// 本包与渲染框架无关，只产出样式数值。
package overlay

import (
	"fmt"
	"math"

	"github.com/decker502/scrollscrub/pkg/utils"
)

// Track is a piecewise-linear function defined by an ordered
// breakpoint/output table.
type Track struct {
	breakpoints []float64
	values      []float64
}

// NewTrack validates and copies a breakpoint/output table.
// Breakpoints must be finite, lie in [0,1] and be strictly increasing;
// both slices must have the same non-zero length.
func NewTrack(breakpoints, values []float64) (*Track, error) {
	if len(breakpoints) == 0 {
		return nil, fmt.Errorf("track needs at least one breakpoint")
	}
	if len(breakpoints) != len(values) {
		return nil, fmt.Errorf("track has %d breakpoints but %d values", len(breakpoints), len(values))
	}
	for i, b := range breakpoints {
		if math.IsNaN(b) || b < 0 || b > 1 {
			return nil, fmt.Errorf("breakpoint %d (%v) outside [0,1]", i, b)
		}
		if i > 0 && b <= breakpoints[i-1] {
			return nil, fmt.Errorf("breakpoints must be strictly increasing: %v after %v", b, breakpoints[i-1])
		}
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return nil, fmt.Errorf("value %d is not finite", i)
		}
	}

	t := &Track{
		breakpoints: make([]float64, len(breakpoints)),
		values:      make([]float64, len(values)),
	}
	copy(t.breakpoints, breakpoints)
	copy(t.values, values)
	return t, nil
}

// MustTrack is NewTrack for static tables; it panics on an invalid table.
func MustTrack(breakpoints, values []float64) *Track {
	t, err := NewTrack(breakpoints, values)
	if err != nil {
		panic(err)
	}
	return t
}

// Value evaluates the track at progress p. p is clamped to the first and
// last breakpoints, so values outside the table hold at the nearest endpoint.
func (t *Track) Value(p float64) float64 {
	n := len(t.breakpoints)
	first, last := t.breakpoints[0], t.breakpoints[n-1]

	p = utils.Clamp(p, first, last)
	if p <= first {
		return t.values[0]
	}
	if p >= last {
		return t.values[n-1]
	}

	// 表很短（通常 2~4 个点），线性查找即可
	for i := 1; i < n; i++ {
		if p <= t.breakpoints[i] {
			lo, hi := t.breakpoints[i-1], t.breakpoints[i]
			return utils.Lerp(t.values[i-1], t.values[i], utils.InverseLerp(lo, hi, p))
		}
	}
	return t.values[n-1]
}

// Breakpoints returns a copy of the breakpoint table.
func (t *Track) Breakpoints() []float64 {
	return append([]float64(nil), t.breakpoints...)
}

// Values returns a copy of the output table.
func (t *Track) Values() []float64 {
	return append([]float64(nil), t.values...)
}
