package main

import (
	"math"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/scroll"
	"github.com/gdamore/tcell/v2"
)

// scrollSteps 终端中的滚动步长（逻辑像素）
type scrollSteps struct {
	wheel float64
	key   float64
	page  float64
}

// newScrollSteps 把为默认窗口高度配置的步长按画布高度等比缩放，最少 1 像素
func newScrollSteps(cfg config.ScrollConfig, canvasHeight float64) scrollSteps {
	factor := canvasHeight / config.WindowHeight
	step := func(v float64) float64 {
		return math.Max(1, math.Round(v*factor))
	}
	return scrollSteps{
		wheel: step(cfg.WheelStep),
		key:   step(cfg.KeyStep),
		page:  math.Max(1, math.Round(canvasHeight*0.9)),
	}
}

// keyCommand 把按键翻译成滚动命令
func keyCommand(ev *tcell.EventKey, s scrollSteps) scroll.Command {
	switch ev.Key() {
	case tcell.KeyDown:
		return scroll.Command{Delta: s.key}
	case tcell.KeyUp:
		return scroll.Command{Delta: -s.key}
	case tcell.KeyPgDn:
		return scroll.Command{Delta: s.page}
	case tcell.KeyPgUp:
		return scroll.Command{Delta: -s.page}
	case tcell.KeyHome:
		return scroll.Command{ToStart: true}
	case tcell.KeyEnd:
		return scroll.Command{ToEnd: true}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'j':
			return scroll.Command{Delta: s.key}
		case 'k':
			return scroll.Command{Delta: -s.key}
		case ' ':
			return scroll.Command{Delta: s.page}
		}
	}
	return scroll.Command{}
}

// mouseCommand 滚轮向下为正
func mouseCommand(ev *tcell.EventMouse, s scrollSteps) scroll.Command {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelDown != 0:
		return scroll.Command{Delta: s.wheel}
	case buttons&tcell.WheelUp != 0:
		return scroll.Command{Delta: -s.wheel}
	}
	return scroll.Command{}
}
