package main

import (
	"image"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/overlay"
	"github.com/decker502/scrollscrub/pkg/utils"
	"github.com/gdamore/tcell/v2"
)

// halfBlock 上半块：前景色为上像素，背景色为下像素
const halfBlock = '▀'

// sideMargin 左右对齐叠加层距屏幕边缘的列数
const sideMargin = 2

// maxBlockWidth 叠加层正文最大列宽
const maxBlockWidth = 48

// cellColors 返回第 (x, y) 个字符格对应的上下两个像素，越界像素取 bg
func cellColors(img *image.RGBA, x, y int, bg color.RGBA) (top, bottom color.RGBA) {
	return pixelAt(img, x, 2*y, bg), pixelAt(img, x, 2*y+1, bg)
}

func pixelAt(img *image.RGBA, x, y int, bg color.RGBA) color.RGBA {
	if img == nil || !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return bg
	}
	c := img.RGBAAt(x, y)
	if c.A == 0 {
		return bg
	}
	return c
}

// blend 按不透明度 a 把 fg 混合到 bg 上
func blend(fg, bg color.RGBA, a float64) color.RGBA {
	a = math.Max(0, math.Min(1, a))
	mix := func(f, b uint8) uint8 {
		return uint8(math.Round(float64(b) + (float64(f)-float64(b))*a))
	}
	return color.RGBA{R: mix(fg.R, bg.R), G: mix(fg.G, bg.G), B: mix(fg.B, bg.B), A: 0xff}
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// textLine 叠加层中的一行文本
type textLine struct {
	text string
	bold bool
}

// overlayLines 把叠加层内容排成终端文本行
func overlayLines(c overlay.Content, width int) []textLine {
	var out []textLine
	if c.Kicker != "" {
		out = append(out, textLine{text: strings.ToUpper(c.Kicker)})
	}
	if c.Title != "" {
		for _, l := range utils.WrapRunes(c.Title, width) {
			out = append(out, textLine{text: l, bold: true})
		}
	}
	if c.Body != "" {
		if len(out) > 0 {
			out = append(out, textLine{})
		}
		for _, l := range utils.WrapRunes(c.Body, width) {
			out = append(out, textLine{text: l})
		}
	}
	if len(c.Buttons) > 0 {
		labels := make([]string, len(c.Buttons))
		for i, b := range c.Buttons {
			labels[i] = "[ " + b + " ]"
		}
		out = append(out, textLine{}, textLine{text: strings.Join(labels, "  "), bold: true})
	}
	if c.Arrow {
		out = append(out, textLine{}, textLine{text: "↓"})
	}
	return out
}

// blockWidth 最长一行的列数
func blockWidth(lines []textLine) int {
	w := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l.text); n > w {
			w = n
		}
	}
	return w
}

// placeBlock 计算叠加层左上角所在字符格
//
// 画布为 cols×(rows*2) 逻辑像素，位移按画布宽度相对默认窗口宽度缩放；
// 纵向两个像素对应一行。终端无法缩放文字，Scale 不参与排版。
func placeBlock(anchor overlay.Anchor, st overlay.Style, cols, rows, w, h int) (x, y int) {
	factor := float64(cols) / config.WindowWidth
	dx := int(math.Round(st.TranslateX * factor))
	dy := int(math.Round(st.TranslateY * factor / 2))

	switch anchor {
	case overlay.AnchorLeft:
		x = sideMargin
	case overlay.AnchorRight:
		x = cols - sideMargin - w
	default:
		x = (cols - w) / 2
	}
	y = (rows - h) / 2
	return x + dx, y + dy
}

// loadingBar 终端加载条，width 个字符
func loadingBar(fraction float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(1, fraction)) * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
