package render

import (
	"image"
	"image/color"
	"math"

	"github.com/decker502/scrollscrub/pkg/frames"
)

// DefaultBackground 画布背景色 #050505
var DefaultBackground = color.RGBA{R: 0x05, G: 0x05, B: 0x05, A: 0xff}

// drawState 上一次成功绘制的参数，用于跳过重复绘制
type drawState struct {
	index int
	w, h  float64
	dpr   float64
	rect  DrawRect
}

// Compositor paints one frame per draw request onto a Surface.
//
// It exclusively owns the surface's backing store. The last drawn index is
// instance state, used only to skip redundant paints.
type Compositor struct {
	surface    Surface
	frames     frames.FrameSet
	background color.Color

	last  drawState
	drawn bool
	draws int
}

// NewCompositor creates a compositor. A nil background uses DefaultBackground.
func NewCompositor(surface Surface, background color.Color) *Compositor {
	if background == nil {
		background = DefaultBackground
	}
	return &Compositor{
		surface:    surface,
		background: background,
	}
}

// SetFrames installs the frame set and forgets the last drawn state.
func (c *Compositor) SetFrames(fs frames.FrameSet) {
	c.frames = fs
	c.drawn = false
}

// FrameCount returns the number of installed frames.
func (c *Compositor) FrameCount() int {
	return c.frames.Len()
}

// Draw paints frame index onto a logicalW×logicalH canvas at the given
// device pixel ratio:
//  1. backing store = round(logical × dpr), transform = scale(dpr)
//  2. contain-fit rectangle from the frame's aspect ratio
//  3. background fill over the whole logical area, then the frame
//
// A missing frame or an empty canvas is a no-op that returns false without
// touching the surface. A non-positive dpr is treated as 1.
func (c *Compositor) Draw(index int, logicalW, logicalH, dpr float64) bool {
	frame, ok := c.frames.At(index)
	if !ok {
		return false
	}
	b := frame.Bounds()
	rect, ok := ContainRect(float64(b.Dx()), float64(b.Dy()), logicalW, logicalH)
	if !ok {
		return false
	}
	if !positive(dpr) {
		dpr = 1
	}

	c.surface.Resize(int(math.Round(logicalW*dpr)), int(math.Round(logicalH*dpr)))
	c.surface.SetScale(dpr)
	c.surface.FillRect(DrawRect{Width: logicalW, Height: logicalH}, c.background)
	c.surface.DrawFrame(frame, rect)

	c.last = drawState{index: index, w: logicalW, h: logicalH, dpr: dpr, rect: rect}
	c.drawn = true
	c.draws++
	return true
}

// DrawIfChanged draws only when the index or the canvas geometry differs
// from the last successful draw. It reports whether a paint happened.
func (c *Compositor) DrawIfChanged(index int, logicalW, logicalH, dpr float64) bool {
	if !positive(dpr) {
		dpr = 1
	}
	if c.drawn && c.last.index == index && c.last.w == logicalW && c.last.h == logicalH && c.last.dpr == dpr {
		return false
	}
	return c.Draw(index, logicalW, logicalH, dpr)
}

// Redraw repaints the currently selected frame with new canvas geometry.
func (c *Compositor) Redraw(logicalW, logicalH, dpr float64) bool {
	if !c.drawn {
		return false
	}
	return c.Draw(c.last.index, logicalW, logicalH, dpr)
}

// CurrentIndex returns the last drawn index, or -1 before the first draw.
func (c *Compositor) CurrentIndex() int {
	if !c.drawn {
		return -1
	}
	return c.last.index
}

// LastRect returns the contain rectangle of the last draw.
func (c *Compositor) LastRect() DrawRect {
	return c.last.rect
}

// Draws returns how many paints have been performed.
func (c *Compositor) Draws() int {
	return c.draws
}

// Frame returns frame i of the installed set.
func (c *Compositor) Frame(i int) (image.Image, bool) {
	return c.frames.At(i)
}
