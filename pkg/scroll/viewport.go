package scroll

import (
	"math"

	"github.com/decker502/scrollscrub/pkg/utils"
)

// ViewportConfig 虚拟文档布局
type ViewportConfig struct {
	// ContainerTop 滚动容器之前的内容高度（逻辑像素）
	ContainerTop float64
	// ContainerFactor 容器高度 = ContainerFactor × 视口高度，默认 4
	ContainerFactor float64
	// TrailingScreens 容器之后的内容高度，单位为视口高度
	TrailingScreens float64
	// Smooth 启用平滑滚动
	Smooth bool
	// Smoothing 每 tick 向目标位置逼近的比例 (0, 1]
	Smoothing float64
}

// DefaultContainerFactor 容器高度倍数
const DefaultContainerFactor = 4.0

// snapDistance 平滑滚动距离小于该值时直接吸附到目标
const snapDistance = 0.5

// Viewport models the host document: a scrub container of
// ContainerFactor viewport heights followed by optional trailing content,
// scrolled by a single vertical offset. It implements Measurer.
type Viewport struct {
	cfg     ViewportConfig
	height  float64
	scrollY float64
	targetY float64
}

// NewViewport creates a viewport of the given logical height scrolled to the top.
func NewViewport(cfg ViewportConfig, height float64) *Viewport {
	if cfg.ContainerFactor <= 0 {
		cfg.ContainerFactor = DefaultContainerFactor
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = 0.25
	}
	return &Viewport{cfg: cfg, height: math.Max(height, 0)}
}

// Height returns the viewport's logical height.
func (v *Viewport) Height() float64 {
	return v.height
}

// ScrollY returns the current scroll offset.
func (v *Viewport) ScrollY() float64 {
	return v.scrollY
}

// ContainerHeight returns ContainerFactor × viewport height.
func (v *Viewport) ContainerHeight() float64 {
	return v.cfg.ContainerFactor * v.height
}

// DocumentHeight returns the full scrollable document height.
func (v *Viewport) DocumentHeight() float64 {
	return v.cfg.ContainerTop + v.ContainerHeight() + v.cfg.TrailingScreens*v.height
}

// MaxScroll returns the largest valid scroll offset.
func (v *Viewport) MaxScroll() float64 {
	return math.Max(0, v.DocumentHeight()-v.height)
}

// Measure implements Measurer.
func (v *Viewport) Measure() Geometry {
	return Geometry{
		ContainerTop:    v.cfg.ContainerTop,
		ContainerHeight: v.ContainerHeight(),
		ViewportTop:     v.scrollY,
		ViewportHeight:  v.height,
	}
}

// ScrollBy moves the scroll target by dy logical pixels.
func (v *Viewport) ScrollBy(dy float64) {
	if dy == 0 || math.IsNaN(dy) {
		return
	}
	v.ScrollTo(v.targetY + dy)
}

// ScrollTo sets the scroll target, clamped to the document.
// Without smoothing the offset jumps immediately.
func (v *Viewport) ScrollTo(y float64) {
	v.targetY = utils.Clamp(y, 0, v.MaxScroll())
	if !v.cfg.Smooth {
		v.scrollY = v.targetY
	}
}

// ScrollToProgress scrolls so that the container reports progress p.
func (v *Viewport) ScrollToProgress(p float64) {
	span := v.ContainerHeight() - v.height
	v.ScrollTo(v.cfg.ContainerTop + utils.Clamp01(p)*math.Max(span, 0))
}

// Update advances smooth scrolling by one tick and reports whether the
// offset changed.
func (v *Viewport) Update() bool {
	if v.scrollY == v.targetY {
		return false
	}
	next := utils.Lerp(v.scrollY, v.targetY, v.cfg.Smoothing)
	if math.Abs(v.targetY-next) < snapDistance {
		next = v.targetY
	}
	v.scrollY = next
	return true
}

// SetSmooth toggles smooth scrolling; disabling it snaps to the target.
func (v *Viewport) SetSmooth(enabled bool) {
	v.cfg.Smooth = enabled
	if !enabled {
		v.scrollY = v.targetY
	}
}

// SetHeight applies a new viewport height.
// While the viewport is inside the container the current progress is
// preserved, so a resize redraws the same frame instead of jumping.
func (v *Viewport) SetHeight(height float64) {
	if height <= 0 || math.IsNaN(height) || height == v.height {
		return
	}

	// 首次获得高度时没有可保持的进度
	g := v.Measure()
	inContainer := v.height > 0 && g.ViewportTop >= g.ContainerTop && g.ViewportTop <= g.ContainerTop+g.ContainerHeight-g.ViewportHeight
	p := Progress(g)

	v.height = height
	if inContainer {
		span := math.Max(v.ContainerHeight()-v.height, 0)
		v.scrollY = v.cfg.ContainerTop + p*span
	}
	v.scrollY = utils.Clamp(v.scrollY, 0, v.MaxScroll())
	v.targetY = v.scrollY
}
