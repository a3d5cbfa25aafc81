package main

import (
	"testing"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/scroll"
	"github.com/gdamore/tcell/v2"
)

func TestNewScrollSteps(t *testing.T) {
	cfg := config.ScrollConfig{WheelStep: 60, KeyStep: 40}

	s := newScrollSteps(cfg, config.WindowHeight)
	if s.wheel != 60 || s.key != 40 {
		t.Errorf("默认窗口高度下步长不变, got %+v", s)
	}

	s = newScrollSteps(cfg, 48)
	// 48/720 = 1/15
	if s.wheel != 4 || s.key != 3 {
		t.Errorf("缩放后步长 = %+v, want wheel 4 key 3", s)
	}

	s = newScrollSteps(cfg, 1)
	if s.wheel < 1 || s.key < 1 || s.page < 1 {
		t.Errorf("步长至少 1 像素, got %+v", s)
	}
}

func TestKeyCommand(t *testing.T) {
	steps := scrollSteps{wheel: 6, key: 4, page: 20}

	tests := []struct {
		name string
		ev   *tcell.EventKey
		want scroll.Command
	}{
		{"下", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), scroll.Command{Delta: 4}},
		{"上", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), scroll.Command{Delta: -4}},
		{"下一页", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), scroll.Command{Delta: 20}},
		{"上一页", tcell.NewEventKey(tcell.KeyPgUp, 0, tcell.ModNone), scroll.Command{Delta: -20}},
		{"Home", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModNone), scroll.Command{ToStart: true}},
		{"End", tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone), scroll.Command{ToEnd: true}},
		{"j", tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone), scroll.Command{Delta: 4}},
		{"k", tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone), scroll.Command{Delta: -4}},
		{"空格", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), scroll.Command{Delta: 20}},
		{"无关按键", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), scroll.Command{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyCommand(tt.ev, steps); got != tt.want {
				t.Errorf("keyCommand = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMouseCommand(t *testing.T) {
	steps := scrollSteps{wheel: 6, key: 4, page: 20}

	down := tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone)
	if got := mouseCommand(down, steps); got.Delta != 6 {
		t.Errorf("WheelDown delta = %v, want 6", got.Delta)
	}
	up := tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone)
	if got := mouseCommand(up, steps); got.Delta != -6 {
		t.Errorf("WheelUp delta = %v, want -6", got.Delta)
	}
	click := tcell.NewEventMouse(0, 0, tcell.Button1, tcell.ModNone)
	if got := mouseCommand(click, steps); got != (scroll.Command{}) {
		t.Errorf("click = %+v, want no-op", got)
	}
}
