package render

// ResizeHandler reacts to viewport size or device scale changes: it
// re-sizes the backing store and redraws the currently selected frame
// (never resetting to frame 0).
//
// Changes are applied after DebounceTicks quiet ticks; 0 applies them on the
// next Update.
type ResizeHandler struct {
	compositor *Compositor
	debounce   int

	observed  size
	applied   size
	pending   bool
	countdown int

	// OnResize 在尺寸生效时调用（先于重绘），宿主可借此同步视口高度
	OnResize func(w, h, dpr float64)
}

type size struct {
	w, h, dpr float64
}

// NewResizeHandler creates a handler driving the given compositor.
func NewResizeHandler(c *Compositor, debounceTicks int) *ResizeHandler {
	if debounceTicks < 0 {
		debounceTicks = 0
	}
	return &ResizeHandler{compositor: c, debounce: debounceTicks}
}

// Observe records the current viewport geometry. Calling it every tick
// with an unchanged size is free.
func (r *ResizeHandler) Observe(w, h, dpr float64) {
	s := size{w: w, h: h, dpr: dpr}
	if s == r.observed {
		return
	}
	r.observed = s
	r.pending = true
	r.countdown = r.debounce
}

// Update applies a pending change once the debounce has elapsed and reports
// whether it did.
func (r *ResizeHandler) Update() bool {
	if !r.pending {
		return false
	}
	if r.countdown > 0 {
		r.countdown--
		return false
	}

	r.apply()
	return true
}

// ApplyNow records and applies a geometry immediately, skipping the
// debounce. Hosts use it for the very first layout.
func (r *ResizeHandler) ApplyNow(w, h, dpr float64) {
	r.observed = size{w: w, h: h, dpr: dpr}
	r.apply()
}

func (r *ResizeHandler) apply() {
	r.pending = false
	r.countdown = 0
	r.applied = r.observed
	if r.OnResize != nil {
		r.OnResize(r.applied.w, r.applied.h, r.applied.dpr)
	}
	if r.compositor != nil {
		r.compositor.Redraw(r.applied.w, r.applied.h, r.applied.dpr)
	}
}

// Size returns the applied logical size and device pixel ratio.
func (r *ResizeHandler) Size() (w, h, dpr float64) {
	return r.applied.w, r.applied.h, r.applied.dpr
}

// Pending reports whether a change is waiting for the debounce to elapse.
func (r *ResizeHandler) Pending() bool {
	return r.pending
}
