package render

import (
	"math"

	"github.com/decker502/scrollscrub/pkg/utils"
)

// FrameIndex maps scroll progress to a frame index:
//
//	clamp(round(progress * (n-1)), 0, n-1)
//
// Progress is clamped to [0,1] first (NaN counts as 0). The function is pure:
// equal progress always yields the same index, FrameIndex(0, n) == 0 and
// FrameIndex(1, n) == n-1. n < 1 yields 0.
func FrameIndex(progress float64, n int) int {
	if n < 1 {
		return 0
	}
	p := utils.Clamp01(progress)
	idx := int(math.Round(p * float64(n-1)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}
