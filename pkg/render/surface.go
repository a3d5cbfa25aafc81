// Package render 负责把选中的帧绘制到画布
//
// Compositor 按设备像素比（DPR）调整后备缓冲尺寸，以 contain 方式适配帧，
// 先填充背景色再绘制帧。具体画布由 Surface 接口抽象：EbitenSurface 用于
// 窗口渲染，RasterSurface 用于无窗口渲染（截图工具、终端预览与测试）。
package render

import (
	"image"
	"image/color"
)

// Surface is a canvas with a physical-pixel backing store and a scale
// transform from logical to physical pixels.
type Surface interface {
	// Resize reallocates (and clears) the backing store to width×height physical pixels.
	Resize(width, height int)
	// SetScale resets the transform and scales it, so later calls use logical pixels.
	SetScale(scale float64)
	// FillRect fills r (logical pixels) with c.
	FillRect(r DrawRect, c color.Color)
	// DrawFrame draws frame stretched into r (logical pixels).
	DrawFrame(frame image.Image, r DrawRect)
}
