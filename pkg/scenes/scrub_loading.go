package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 加载界面尺寸（逻辑像素）
const (
	spinnerSize     = 64.0
	spinnerStroke   = 4.0
	spinnerArc      = math.Pi / 2 // 高亮弧长
	spinnerSegments = 12
	spinnerPeriod   = 1.0 // 旋转一圈的秒数

	captionFontSize = 14.0
	percentFontSize = 12.0
	errorFontSize   = 16.0

	loadingBarWidth  = 192.0
	loadingBarHeight = 4.0

	spinnerGap = 24.0 // 圆环与说明文字间距
	barGap     = 16.0 // 说明文字与进度条间距
	percentGap = 8.0  // 进度条与百分比间距
)

var (
	colorTrack    = color.NRGBA{R: 255, G: 255, B: 255, A: 26}  // white/10
	colorActive   = color.NRGBA{R: 255, G: 255, B: 255, A: 204} // white/80
	colorErrorMsg = color.NRGBA{R: 255, G: 255, B: 255, A: 204}
)

// loadingGeometry 加载界面各元素位置（逻辑像素）
type loadingGeometry struct {
	spinnerCX, spinnerCY float64
	captionY             float64
	barX, barY           float64
	percentY             float64
}

// computeLoadingGeometry 整组元素在 w×h 视口中垂直居中
func computeLoadingGeometry(w, h float64) loadingGeometry {
	captionH := captionFontSize * lineHeightFactor
	percentH := percentFontSize * lineHeightFactor
	total := spinnerSize + spinnerGap + captionH + barGap + loadingBarHeight + percentGap + percentH

	top := (h - total) / 2
	g := loadingGeometry{
		spinnerCX: w / 2,
		spinnerCY: top + spinnerSize/2,
	}
	g.captionY = top + spinnerSize + spinnerGap
	g.barX = (w - loadingBarWidth) / 2
	g.barY = g.captionY + captionH + barGap
	g.percentY = g.barY + loadingBarHeight + percentGap
	return g
}

// loadingBarFill 进度条填充宽度
func loadingBarFill(state frames.LoadState) float64 {
	return loadingBarWidth * state.Fraction()
}

// loadingView 全屏加载界面：旋转圆环、说明文字、进度条、百分比；失败时显示错误与重试提示
type loadingView struct {
	rm  *game.ResourceManager
	cfg config.LoadingConfig
}

func newLoadingView(rm *game.ResourceManager, cfg config.LoadingConfig) *loadingView {
	return &loadingView{rm: rm, cfg: cfg}
}

func (v *loadingView) draw(screen *ebiten.Image, state frames.LoadState, elapsed, w, h, dpr float64) {
	if w <= 0 || h <= 0 {
		b := screen.Bounds()
		w, h = float64(b.Dx())/dpr, float64(b.Dy())/dpr
	}
	g := computeLoadingGeometry(w, h)

	if state.Status == frames.StatusFailed {
		v.drawFailure(screen, g, dpr)
		return
	}

	drawSpinner(screen, g.spinnerCX*dpr, g.spinnerCY*dpr, elapsed, dpr)
	v.drawCentered(screen, v.cfg.Caption, captionFontSize, colorMuted, g.spinnerCX, g.captionY, dpr)

	bx, by := float32(g.barX*dpr), float32(g.barY*dpr)
	bw, bh := float32(loadingBarWidth*dpr), float32(loadingBarHeight*dpr)
	vector.DrawFilledRect(screen, bx, by, bw, bh, colorTrack, true)
	if fill := float32(loadingBarFill(state) * dpr); fill > 0 {
		vector.DrawFilledRect(screen, bx, by, fill, bh, colorActive, true)
	}

	v.drawCentered(screen, fmt.Sprintf("%d%%", state.Percent()), percentFontSize, colorFaint, g.spinnerCX, g.percentY, dpr)
}

func (v *loadingView) drawFailure(screen *ebiten.Image, g loadingGeometry, dpr float64) {
	v.drawCentered(screen, v.cfg.ErrorText, errorFontSize, colorErrorMsg, g.spinnerCX, g.captionY, dpr)
	v.drawCentered(screen, v.cfg.RetryHint, percentFontSize, colorFaint, g.spinnerCX, g.barY, dpr)
}

// drawCentered 以 (cx, y) 为顶部中点绘制一行文字（逻辑坐标）
func (v *loadingView) drawCentered(screen *ebiten.Image, s string, size float64, clr color.Color, cx, y, dpr float64) {
	if s == "" {
		return
	}
	face, err := v.rm.LoadFont(game.FontRegular, size*dpr)
	if err != nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx*dpr, y*dpr)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = text.AlignCenter
	text.Draw(screen, s, face, op)
}

// drawSpinner 暗色圆环加一段旋转的亮弧（设备坐标）
func drawSpinner(screen *ebiten.Image, cx, cy, elapsed, dpr float64) {
	r := (spinnerSize - spinnerStroke) / 2 * dpr
	stroke := float32(spinnerStroke * dpr)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), stroke, colorTrack, true)

	start := spinnerAngle(elapsed) - math.Pi/2 - spinnerArc/2
	step := spinnerArc / spinnerSegments
	for i := 0; i < spinnerSegments; i++ {
		a0 := start + float64(i)*step
		a1 := a0 + step
		vector.StrokeLine(screen,
			float32(cx+r*math.Cos(a0)), float32(cy+r*math.Sin(a0)),
			float32(cx+r*math.Cos(a1)), float32(cy+r*math.Sin(a1)),
			stroke, colorActive, true)
	}
}

// spinnerAngle 匀速旋转角度，范围 [0, 2π)
func spinnerAngle(elapsed float64) float64 {
	turns := elapsed / spinnerPeriod
	return 2 * math.Pi * (turns - math.Floor(turns))
}
