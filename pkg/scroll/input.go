package scroll

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputConfig 滚动输入参数（逻辑像素）
type InputConfig struct {
	WheelStep  float64 // 每个滚轮刻度滚动距离
	KeyStep    float64 // 方向键每次滚动距离
	PageFactor float64 // PageUp/PageDown/Space 滚动的视口高度比例
}

// keyRepeatDelay/keyRepeatInterval 按住方向键时的重复节奏（tick）
const (
	keyRepeatDelay    = 20
	keyRepeatInterval = 3
)

// Command 一次输入轮询的结果
type Command struct {
	Delta   float64 // 相对滚动量（正数向下）
	ToStart bool    // Home
	ToEnd   bool    // End
}

// Input polls ebiten's wheel, keyboard and pointer state once per tick and
// turns it into scroll commands.
type Input struct {
	cfg  InputConfig
	drag dragTracker
}

// NewInput creates an input poller.
func NewInput(cfg InputConfig) *Input {
	if cfg.WheelStep <= 0 {
		cfg.WheelStep = 60
	}
	if cfg.KeyStep <= 0 {
		cfg.KeyStep = 40
	}
	if cfg.PageFactor <= 0 {
		cfg.PageFactor = 0.9
	}
	return &Input{cfg: cfg}
}

// Poll reads this tick's input. dpr converts pointer coordinates (which
// ebiten reports in backing-store pixels) to logical pixels.
func (in *Input) Poll(viewportHeight, dpr float64) Command {
	if dpr <= 0 {
		dpr = 1
	}
	var cmd Command

	// 滚轮：向上滚为正值，文档向下滚动需取反
	_, wheelY := ebiten.Wheel()
	cmd.Delta -= wheelY * in.cfg.WheelStep

	if repeatPressed(ebiten.KeyArrowDown) || repeatPressed(ebiten.KeyJ) {
		cmd.Delta += in.cfg.KeyStep
	}
	if repeatPressed(ebiten.KeyArrowUp) || repeatPressed(ebiten.KeyK) {
		cmd.Delta -= in.cfg.KeyStep
	}

	page := viewportHeight * in.cfg.PageFactor
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		cmd.Delta += page
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			cmd.Delta -= page
		} else {
			cmd.Delta += page
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		cmd.Delta -= page
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		cmd.ToStart = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		cmd.ToEnd = true
	}

	pressed, y := pointerY()
	cmd.Delta += in.drag.update(pressed, float64(y)/dpr)

	return cmd
}

func repeatPressed(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}

// pointerY 优先返回触摸位置，其次鼠标左键
func pointerY() (bool, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		_, y := ebiten.TouchPosition(touchIDs[0])
		return true, y
	}
	_, y := ebiten.CursorPosition()
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), y
}

// dragTracker 拖拽滚动：手指上移 → 文档下滚
type dragTracker struct {
	active bool
	lastY  float64
}

// update returns the scroll delta produced since the previous tick.
func (d *dragTracker) update(pressed bool, y float64) float64 {
	if !pressed {
		d.active = false
		return 0
	}
	if !d.active {
		d.active = true
		d.lastY = y
		return 0
	}
	delta := d.lastY - y
	d.lastY = y
	return delta
}
