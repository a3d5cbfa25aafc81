package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one mounted view (e.g. the scroll scrub experience).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// LayoutAware 是一个可选接口，场景通过它接收视口尺寸变化
//
// width/height 为逻辑像素（CSS 像素），dpr 为设备像素比。
// 每次 ebiten Layout 得到新的外部尺寸或显示器缩放变化时调用。
type LayoutAware interface {
	SetLayout(width, height, dpr float64)
}
