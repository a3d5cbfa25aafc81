package main

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/decker502/scrollscrub/pkg/overlay"
)

func TestCellColors(t *testing.T) {
	bg := color.RGBA{R: 5, G: 5, B: 5, A: 255}
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	img.SetRGBA(1, 0, red)
	img.SetRGBA(1, 1, blue)
	img.SetRGBA(1, 2, red)

	tests := []struct {
		name       string
		x, y       int
		top, botom color.RGBA
	}{
		{"上下两个像素", 1, 0, red, blue},
		{"下像素越界取背景", 1, 1, red, bg},
		{"透明像素取背景", 0, 0, bg, bg},
		{"整格越界", 5, 5, bg, bg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, bottom := cellColors(img, tt.x, tt.y, bg)
			if top != tt.top || bottom != tt.botom {
				t.Errorf("cellColors(%d,%d) = %v,%v, want %v,%v", tt.x, tt.y, top, bottom, tt.top, tt.botom)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	fg := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	bg := color.RGBA{A: 255}

	if got := blend(fg, bg, 1); got != fg {
		t.Errorf("opacity 1 = %v, want %v", got, fg)
	}
	if got := blend(fg, bg, 0); got != bg {
		t.Errorf("opacity 0 = %v, want %v", got, bg)
	}
	if got := blend(fg, bg, 0.5); got.R != 128 {
		t.Errorf("opacity 0.5 R = %d, want 128", got.R)
	}
	if got := blend(fg, bg, 3); got != fg {
		t.Errorf("opacity clamps to 1, got %v", got)
	}
}

func TestOverlayLines(t *testing.T) {
	lines := overlayLines(overlay.Content{
		Kicker:  "A19 Pro Chip",
		Title:   "Fastest chip\never",
		Body:    "Short body",
		Buttons: []string{"Buy Now", "Learn More"},
		Arrow:   true,
	}, 40)

	want := []textLine{
		{text: "A19 PRO CHIP"},
		{text: "Fastest chip", bold: true},
		{text: "ever", bold: true},
		{},
		{text: "Short body"},
		{},
		{text: "[ Buy Now ]  [ Learn More ]", bold: true},
		{},
		{text: "↓"},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %v, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}
	if w := blockWidth(lines); w != len("[ Buy Now ]  [ Learn More ]") {
		t.Errorf("blockWidth = %d", w)
	}
}

func TestPlaceBlock(t *testing.T) {
	rest := overlay.Style{Opacity: 1, Scale: 1}

	tests := []struct {
		name   string
		anchor overlay.Anchor
		style  overlay.Style
		wantX  int
		wantY  int
	}{
		{"居中", overlay.AnchorCenter, rest, 30, 10},
		{"左对齐", overlay.AnchorLeft, rest, sideMargin, 10},
		{"右对齐", overlay.AnchorRight, rest, 80 - sideMargin - 20, 10},
		// 80 列画布宽度是 1280 的 1/16：-64px → -4 列，-64px → -2 行
		{"位移按画布缩放", overlay.AnchorCenter, overlay.Style{Opacity: 1, Scale: 1, TranslateX: -64, TranslateY: -64}, 26, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := placeBlock(tt.anchor, tt.style, 80, 24, 20, 4)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("placeBlock = (%d,%d), want (%d,%d)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestLoadingBar(t *testing.T) {
	if got := loadingBar(0.5, 4); got != "██░░" {
		t.Errorf("loadingBar(0.5, 4) = %q", got)
	}
	if got := loadingBar(2, 3); got != "███" {
		t.Errorf("loadingBar clamps, got %q", got)
	}
	if got := loadingBar(0.5, 0); got != "" {
		t.Errorf("zero width = %q", got)
	}
}

func TestTickFrequency(t *testing.T) {
	tests := []struct {
		name  string
		index int
		n     int
		want  float64
	}{
		{"第一帧", 0, 26, tickBaseFreq},
		{"最后一帧高一个八度", 25, 26, 2 * tickBaseFreq},
		{"单帧", 0, 1, tickBaseFreq},
		{"越界按最后一帧", 40, 26, 2 * tickBaseFreq},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tickFrequency(tt.index, tt.n); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("tickFrequency(%d,%d) = %v, want %v", tt.index, tt.n, got, tt.want)
			}
		})
	}
}

func TestTickPlayerNilSafe(t *testing.T) {
	var tp *tickPlayer
	tp.play(1, 2)
	tp.close()

	// 未初始化的播放器不会触碰音频设备
	newTickPlayer().play(1, 2)
}
