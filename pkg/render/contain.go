package render

import "math"

// DrawRect 绘制矩形（逻辑像素）
type DrawRect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns X + Width.
func (r DrawRect) Right() float64 { return r.X + r.Width }

// Bottom returns Y + Height.
func (r DrawRect) Bottom() float64 { return r.Y + r.Height }

// ContainRect computes the "contain" fit of an imgW×imgH image inside a
// canvasW×canvasH area: aspect ratio preserved, whole image visible, centered
// on the free axis. The second result is false when any dimension is not a
// positive finite number.
func ContainRect(imgW, imgH, canvasW, canvasH float64) (DrawRect, bool) {
	if !positive(imgW) || !positive(imgH) || !positive(canvasW) || !positive(canvasH) {
		return DrawRect{}, false
	}

	imgAspect := imgW / imgH
	canvasAspect := canvasW / canvasH

	// 图片更宽：按宽度适配，垂直居中
	if imgAspect > canvasAspect {
		h := canvasW / imgAspect
		return DrawRect{X: 0, Y: (canvasH - h) / 2, Width: canvasW, Height: h}, true
	}

	// 图片更高（或相同比例）：按高度适配，水平居中
	w := canvasH * imgAspect
	return DrawRect{X: (canvasW - w) / 2, Y: 0, Width: w, Height: canvasH}, true
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
