package overlay

import "github.com/decker502/scrollscrub/pkg/utils"

// Animator evaluates all overlays from one shared progress value.
type Animator struct {
	overlays []*Overlay
	styles   []Style
}

// NewAnimator creates an animator over the given overlays (order is kept
// and is the draw order).
func NewAnimator(overlays []*Overlay) *Animator {
	return &Animator{
		overlays: overlays,
		styles:   make([]Style, len(overlays)),
	}
}

// Evaluate clamps p once and returns one Style per overlay, index-aligned
// with Overlays(). The returned slice is reused by the next call.
func (a *Animator) Evaluate(p float64) []Style {
	p = utils.Clamp01(p)
	for i, o := range a.overlays {
		a.styles[i] = o.StyleAt(p)
	}
	return a.styles
}

// Overlays returns the animated overlays.
func (a *Animator) Overlays() []*Overlay {
	return a.overlays
}
