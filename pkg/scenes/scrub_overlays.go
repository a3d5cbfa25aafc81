package scenes

import (
	"image/color"
	"log"
	"math"
	"strings"

	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/decker502/scrollscrub/pkg/overlay"
	"github.com/decker502/scrollscrub/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 叠加层排版常量（逻辑像素）
const (
	breakpointMD = 768.0
	breakpointLG = 1024.0
	breakpointSM = 640.0

	sideMaxWidth   = 384.0 // 左右叠加层最大宽度
	centerMaxWidth = 512.0 // 居中叠加层正文最大宽度
	centerPadding  = 24.0

	kickerFontSize = 12.0
	buttonFontSize = 14.0
	pillPadX       = 16.0
	pillPadY       = 6.0
	buttonPadX     = 32.0
	buttonPadY     = 12.0

	stackGap   = 16.0 // 元素之间的间距
	buttonsGap = 32.0 // 正文与按钮之间的间距
	arrowSize  = 16.0
	arrowBob   = 8.0 // 箭头上下浮动幅度
	arrowCycle = 2.0 // 浮动周期（秒）

	lineHeightFactor = 1.25
)

var (
	colorHeading    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colorMuted      = color.NRGBA{R: 255, G: 255, B: 255, A: 153} // white/60
	colorFaint      = color.NRGBA{R: 255, G: 255, B: 255, A: 102} // white/40
	colorPill       = color.NRGBA{R: 255, G: 255, B: 255, A: 26}  // white/10
	colorButtonLine = color.NRGBA{R: 255, G: 255, B: 255, A: 77}  // white/30
	colorButtonText = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

type elementKind int

const (
	elemText elementKind = iota
	elemPill
	elemButtonFilled
	elemButtonOutline
	elemArrow
)

// overlayElement 叠加层中的一个绘制元素，坐标相对块左上角（设备像素）
type overlayElement struct {
	kind elementKind
	text string
	face *text.GoTextFace
	clr  color.Color

	x, y, w, h float64
	// textX/textY 文字相对元素左上角的偏移（药丸与按钮带内边距）
	textX, textY float64
}

// overlayBlock 排版完成的叠加层，坐标为设备像素
type overlayBlock struct {
	x, y, w, h float64
	elements   []overlayElement
}

// overlayDrawer 把叠加层样式绘制到屏幕上
//
// 排版只依赖视口尺寸，按尺寸缓存；动画样式在绘制时作为整体变换叠加。
type overlayDrawer struct {
	rm    *game.ResourceManager
	cache map[*overlay.Overlay]cachedBlock
}

type cachedBlock struct {
	w, h, dpr float64
	block     overlayBlock
	ok        bool
}

func newOverlayDrawer(rm *game.ResourceManager) *overlayDrawer {
	return &overlayDrawer{rm: rm, cache: make(map[*overlay.Overlay]cachedBlock)}
}

// blockFor 返回缓存的排版，尺寸变化时重新排版
func (d *overlayDrawer) blockFor(o *overlay.Overlay, w, h, dpr float64) (overlayBlock, bool) {
	if c, ok := d.cache[o]; ok && c.w == w && c.h == h && c.dpr == dpr {
		return c.block, c.ok
	}
	block, ok := d.layout(o, w, h, dpr)
	d.cache[o] = cachedBlock{w: w, h: h, dpr: dpr, block: block, ok: ok}
	return block, ok
}

// sideMargin 左右叠加层与屏幕边缘的距离，随宽度分档
func sideMargin(logicalW float64) float64 {
	switch {
	case logicalW >= breakpointLG:
		return 96
	case logicalW >= breakpointMD:
		return 48
	default:
		return 24
	}
}

// titleFontSize 标题字号，随宽度分档
func titleFontSize(logicalW float64) float64 {
	switch {
	case logicalW >= breakpointLG:
		return 48
	case logicalW >= breakpointMD:
		return 36
	default:
		return 30
	}
}

// bodyFontSize 正文字号
func bodyFontSize(logicalW float64) float64 {
	if logicalW >= breakpointMD {
		return 18
	}
	return 16
}

func (d *overlayDrawer) font(name string, size float64) *text.GoTextFace {
	face, err := d.rm.LoadFont(name, size)
	if err != nil {
		log.Printf("[ScrubScene] Failed to load font %s: %v", name, err)
		return nil
	}
	return face
}

// layout 计算叠加层在 w×h 逻辑视口中的排版（静止状态，不含动画样式）
func (d *overlayDrawer) layout(o *overlay.Overlay, w, h, dpr float64) (overlayBlock, bool) {
	kickerFace := d.font(game.FontMedium, kickerFontSize*dpr)
	titleFace := d.font(game.FontBold, titleFontSize(w)*dpr)
	bodyFace := d.font(game.FontRegular, bodyFontSize(w)*dpr)
	buttonFace := d.font(game.FontMedium, buttonFontSize*dpr)
	if kickerFace == nil || titleFace == nil || bodyFace == nil || buttonFace == nil {
		return overlayBlock{}, false
	}

	maxWidth := sideMaxWidth
	if o.Anchor == overlay.AnchorCenter {
		maxWidth = centerMaxWidth
	}
	maxWidth = math.Min(maxWidth, w-2*math.Max(sideMargin(w), centerPadding)) * dpr
	if maxWidth <= 0 {
		return overlayBlock{}, false
	}

	var (
		elems []overlayElement
		row   buttonRow
		y     float64
	)
	addGap := func(gap float64) {
		if y > 0 {
			y += gap * dpr
		}
	}
	addLines := func(lines []string, face *text.GoTextFace, clr color.Color) {
		lh := face.Size * lineHeightFactor
		for _, line := range lines {
			elems = append(elems, overlayElement{
				kind: elemText, text: line, face: face, clr: clr,
				y: y, w: text.Advance(line, face), h: lh,
			})
			y += lh
		}
	}

	c := o.Content
	if c.Kicker != "" {
		label := strings.ToUpper(c.Kicker)
		lh := kickerFace.Size * lineHeightFactor
		elems = append(elems, overlayElement{
			kind: elemPill, text: label, face: kickerFace, clr: colorMuted,
			y:     y,
			w:     text.Advance(label, kickerFace) + 2*pillPadX*dpr,
			h:     lh + 2*pillPadY*dpr,
			textX: pillPadX * dpr, textY: pillPadY * dpr,
		})
		y += lh + 2*pillPadY*dpr
	}
	if c.Title != "" {
		addGap(stackGap)
		addLines(utils.WrapText(c.Title, titleFace, maxWidth), titleFace, colorHeading)
	}
	if c.Body != "" {
		addGap(stackGap)
		addLines(utils.WrapText(c.Body, bodyFace, maxWidth), bodyFace, colorMuted)
	}
	if len(c.Buttons) > 0 {
		addGap(buttonsGap)
		row = layoutButtons(c.Buttons, buttonFace, w, y, dpr)
		y += row.h
	}
	if c.Arrow {
		addGap(buttonsGap)
		elems = append(elems, overlayElement{kind: elemArrow, clr: colorFaint, y: y, w: arrowSize * dpr, h: arrowSize * dpr})
		y += arrowSize * dpr
	}
	if len(elems) == 0 && len(row.elems) == 0 {
		return overlayBlock{}, false
	}

	block := overlayBlock{w: row.w, h: y}
	for _, e := range elems {
		block.w = math.Max(block.w, e.w)
	}

	// 元素在块内按锚点对齐；横排按钮整行对齐
	for i := range elems {
		elems[i].x = alignOffset(o.Anchor, block.w, elems[i].w)
	}
	rowOffset := alignOffset(o.Anchor, block.w, row.w)
	for i := range row.elems {
		if row.stacked {
			row.elems[i].x = alignOffset(o.Anchor, block.w, row.elems[i].w)
		} else {
			row.elems[i].x += rowOffset
		}
	}
	block.elements = append(elems, row.elems...)

	W, H := w*dpr, h*dpr
	switch o.Anchor {
	case overlay.AnchorLeft:
		block.x = sideMargin(w) * dpr
	case overlay.AnchorRight:
		block.x = W - sideMargin(w)*dpr - block.w
	default:
		block.x = (W - block.w) / 2
	}
	block.y = (H - block.h) / 2
	return block, true
}

// alignOffset 宽度为 w 的元素在 blockW 内的水平偏移
func alignOffset(a overlay.Anchor, blockW, w float64) float64 {
	switch a {
	case overlay.AnchorLeft:
		return 0
	case overlay.AnchorRight:
		return blockW - w
	default:
		return (blockW - w) / 2
	}
}

// buttonRow 按钮组排版结果
type buttonRow struct {
	elems   []overlayElement
	w, h    float64
	stacked bool
}

// layoutButtons 窄屏时按钮竖排，否则横排；第一个按钮为实心
func layoutButtons(labels []string, face *text.GoTextFace, logicalW, y, dpr float64) buttonRow {
	row := buttonRow{stacked: logicalW < breakpointSM}
	lh := face.Size * lineHeightFactor
	x, top := 0.0, y
	for i, label := range labels {
		kind, clr := elemButtonOutline, color.Color(colorHeading)
		if i == 0 {
			kind, clr = elemButtonFilled, colorButtonText
		}
		e := overlayElement{
			kind: kind, text: label, face: face, clr: clr,
			x: x, y: y,
			w:     text.Advance(label, face) + 2*buttonPadX*dpr,
			h:     lh + 2*buttonPadY*dpr,
			textX: buttonPadX * dpr, textY: buttonPadY * dpr,
		}
		row.elems = append(row.elems, e)

		if row.stacked {
			row.w = math.Max(row.w, e.w)
			y += e.h + stackGap*dpr
			row.h = e.y + e.h - top
		} else {
			row.w = x + e.w
			x += e.w + stackGap*dpr
			row.h = math.Max(row.h, e.h)
		}
	}
	return row
}

// draw 绘制所有可见叠加层；styles 与 overlays 按下标对应
func (d *overlayDrawer) draw(screen *ebiten.Image, overlays []*overlay.Overlay, styles []overlay.Style, elapsed, w, h, dpr float64) {
	if w <= 0 || h <= 0 {
		return
	}
	for i, o := range overlays {
		if i >= len(styles) || !styles[i].Visible() {
			continue
		}
		block, ok := d.blockFor(o, w, h, dpr)
		if !ok {
			continue
		}
		drawOverlayBlock(screen, block, styles[i], elapsed, dpr)
	}
}

// blockTransform 以块中心为原点缩放，再平移动画位移
func blockTransform(block overlayBlock, st overlay.Style, dpr float64) ebiten.GeoM {
	cx, cy := block.x+block.w/2, block.y+block.h/2
	var geo ebiten.GeoM
	geo.Translate(-cx, -cy)
	geo.Scale(st.Scale, st.Scale)
	geo.Translate(cx+st.TranslateX*dpr, cy+st.TranslateY*dpr)
	return geo
}

func drawOverlayBlock(screen *ebiten.Image, block overlayBlock, st overlay.Style, elapsed, dpr float64) {
	geo := blockTransform(block, st, dpr)

	for _, e := range block.elements {
		x, y := block.x+e.x, block.y+e.y

		switch e.kind {
		case elemPill:
			fillRect(screen, geo, x, y, e.w, e.h, withAlpha(colorPill, st.Opacity))
		case elemButtonFilled:
			fillRect(screen, geo, x, y, e.w, e.h, withAlpha(colorHeading, st.Opacity))
		case elemButtonOutline:
			strokeRect(screen, geo, x, y, e.w, e.h, dpr, withAlpha(colorButtonLine, st.Opacity))
		case elemArrow:
			bob := arrowBob * dpr * (0.5 - 0.5*math.Cos(2*math.Pi*elapsed/arrowCycle))
			drawArrow(screen, geo, x, y+bob, e.w, dpr, withAlpha(e.clr, st.Opacity))
			continue
		}

		if e.text == "" || e.face == nil {
			continue
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+e.textX, y+e.textY)
		op.GeoM.Concat(geo)
		op.ColorScale.ScaleWithColor(e.clr)
		op.ColorScale.ScaleAlpha(float32(st.Opacity))
		op.Filter = ebiten.FilterLinear
		text.Draw(screen, e.text, e.face, op)
	}
}

// withAlpha 把颜色的不透明度乘以 a
func withAlpha(c color.Color, a float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(float64(n.A) * math.Max(0, math.Min(1, a))))
	return n
}

func transformedRect(geo ebiten.GeoM, x, y, w, h float64) (float32, float32, float32, float32) {
	x0, y0 := geo.Apply(x, y)
	x1, y1 := geo.Apply(x+w, y+h)
	return float32(x0), float32(y0), float32(x1 - x0), float32(y1 - y0)
}

func fillRect(dst *ebiten.Image, geo ebiten.GeoM, x, y, w, h float64, clr color.Color) {
	rx, ry, rw, rh := transformedRect(geo, x, y, w, h)
	vector.DrawFilledRect(dst, rx, ry, rw, rh, clr, true)
}

func strokeRect(dst *ebiten.Image, geo ebiten.GeoM, x, y, w, h, dpr float64, clr color.Color) {
	rx, ry, rw, rh := transformedRect(geo, x, y, w, h)
	vector.StrokeRect(dst, rx, ry, rw, rh, float32(dpr), clr, true)
}

// drawArrow 向下箭头：竖线加两条斜线
func drawArrow(dst *ebiten.Image, geo ebiten.GeoM, x, y, size, dpr float64, clr color.Color) {
	cx := x + size/2
	segments := [][4]float64{
		{cx, y, cx, y + size},
		{cx - size*0.3, y + size*0.7, cx, y + size},
		{cx + size*0.3, y + size*0.7, cx, y + size},
	}
	for _, s := range segments {
		x0, y0 := geo.Apply(s[0], s[1])
		x1, y1 := geo.Apply(s[2], s[3])
		vector.StrokeLine(dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(2*dpr), clr, true)
	}
}
