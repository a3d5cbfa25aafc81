// Package scroll 将容器相对视口的滚动位置换算为 [0,1] 进度
//
// 进度只依赖当前一次采样的几何信息，不保留历史。宿主环境通过 Measurer
// 接口提供几何数据，因此帧选择与绘制逻辑可以脱离真实窗口进行测试。
package scroll

import (
	"math"

	"github.com/decker502/scrollscrub/pkg/utils"
)

// Geometry 一次采样的容器/视口几何（逻辑像素，文档坐标）
type Geometry struct {
	ContainerTop    float64 // 容器顶部在文档中的位置
	ContainerHeight float64 // 容器高度（默认 4 倍视口高度）
	ViewportTop     float64 // 视口顶部（即当前滚动位置）
	ViewportHeight  float64 // 视口高度
}

// Measurer 宿主环境能力接口：返回当前几何
type Measurer interface {
	Measure() Geometry
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func() Geometry

// Measure calls f().
func (f MeasureFunc) Measure() Geometry {
	return f()
}

// Progress maps geometry to normalized progress through the container:
//
//	clamp((ViewportTop - ContainerTop) / (ContainerHeight - ViewportHeight), 0, 1)
//
// When the container is not taller than the viewport the scroll range is
// empty and progress saturates: 0 above the container top, 1 at or below it.
// Non-finite input never escapes [0,1].
func Progress(g Geometry) float64 {
	scrolled := g.ViewportTop - g.ContainerTop
	span := g.ContainerHeight - g.ViewportHeight

	if math.IsNaN(scrolled) || math.IsNaN(span) {
		return 0
	}
	if span <= 0 {
		if scrolled < 0 {
			return 0
		}
		return 1
	}
	return utils.Clamp01(scrolled / span)
}
