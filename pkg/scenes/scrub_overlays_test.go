package scenes

import (
	"image/color"
	"math"
	"testing"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/decker502/scrollscrub/pkg/overlay"
)

func defaultOverlays(t *testing.T) map[string]*overlay.Overlay {
	t.Helper()
	list, err := overlay.FromConfigs(config.DefaultOverlayConfigs())
	if err != nil {
		t.Fatalf("FromConfigs() error: %v", err)
	}
	out := make(map[string]*overlay.Overlay, len(list))
	for _, o := range list {
		out[o.ID] = o
	}
	return out
}

func TestSideMarginAndFontSizes(t *testing.T) {
	tests := []struct {
		name   string
		width  float64
		margin float64
		title  float64
		body   float64
	}{
		{"手机", 375, 24, 30, 16},
		{"平板", 800, 48, 36, 18},
		{"桌面", 1280, 96, 48, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sideMargin(tt.width); got != tt.margin {
				t.Errorf("sideMargin(%v) = %v, want %v", tt.width, got, tt.margin)
			}
			if got := titleFontSize(tt.width); got != tt.title {
				t.Errorf("titleFontSize(%v) = %v, want %v", tt.width, got, tt.title)
			}
			if got := bodyFontSize(tt.width); got != tt.body {
				t.Errorf("bodyFontSize(%v) = %v, want %v", tt.width, got, tt.body)
			}
		})
	}
}

// TestOverlayLayoutAnchors 左、右、居中叠加层的块位置
func TestOverlayLayoutAnchors(t *testing.T) {
	d := newOverlayDrawer(game.NewResourceManager())
	overlays := defaultOverlays(t)
	const w, h, dpr = 1280.0, 720.0, 1.0

	left, ok := d.layout(overlays["feature1"], w, h, dpr)
	if !ok {
		t.Fatal("feature1 layout failed")
	}
	if left.x != 96 {
		t.Errorf("feature1 x = %v, want 96", left.x)
	}
	if left.w > sideMaxWidth+1e-9 {
		t.Errorf("feature1 width %v exceeds %v", left.w, sideMaxWidth)
	}
	if math.Abs(left.y+left.h/2-h/2) > 1e-9 {
		t.Errorf("feature1 not vertically centered: y=%v h=%v", left.y, left.h)
	}

	right, ok := d.layout(overlays["feature2"], w, h, dpr)
	if !ok {
		t.Fatal("feature2 layout failed")
	}
	if math.Abs(right.x+right.w-(w-96)) > 1e-9 {
		t.Errorf("feature2 right edge = %v, want %v", right.x+right.w, w-96)
	}
	for _, e := range right.elements {
		if math.Abs(e.x+e.w-right.w) > 1e-9 {
			t.Errorf("feature2 element %q not right aligned", e.text)
		}
	}

	cta, ok := d.layout(overlays["cta"], w, h, dpr)
	if !ok {
		t.Fatal("cta layout failed")
	}
	if math.Abs(cta.x+cta.w/2-w/2) > 1e-9 {
		t.Errorf("cta not horizontally centered: x=%v w=%v", cta.x, cta.w)
	}
	var buttons []overlayElement
	for _, e := range cta.elements {
		if e.kind == elemButtonFilled || e.kind == elemButtonOutline {
			buttons = append(buttons, e)
		}
	}
	if len(buttons) != 2 || buttons[0].kind != elemButtonFilled || buttons[0].text != "Buy Now" {
		t.Fatalf("cta buttons = %+v", buttons)
	}
	// 宽屏横排：同一行，第二个在右侧
	if buttons[0].y != buttons[1].y || buttons[1].x <= buttons[0].x {
		t.Errorf("buttons not in one row: %+v", buttons)
	}
}

// TestOverlayLayoutNarrowStacksButtons 窄屏按钮竖排
func TestOverlayLayoutNarrowStacksButtons(t *testing.T) {
	d := newOverlayDrawer(game.NewResourceManager())
	cta, ok := d.layout(defaultOverlays(t)["cta"], 375, 667, 1)
	if !ok {
		t.Fatal("cta layout failed")
	}
	var ys []float64
	for _, e := range cta.elements {
		if e.kind == elemButtonFilled || e.kind == elemButtonOutline {
			ys = append(ys, e.y)
		}
	}
	if len(ys) != 2 || ys[1] <= ys[0] {
		t.Errorf("buttons not stacked: y = %v", ys)
	}
}

// TestOverlayLayoutScalesWithDPR 设备像素比放大整个排版
func TestOverlayLayoutScalesWithDPR(t *testing.T) {
	d := newOverlayDrawer(game.NewResourceManager())
	o := defaultOverlays(t)["feature1"]

	one, _ := d.layout(o, 1280, 720, 1)
	two, _ := d.layout(o, 1280, 720, 2)
	if two.x != 2*one.x {
		t.Errorf("x at dpr 2 = %v, want %v", two.x, 2*one.x)
	}
	if len(two.elements) != len(one.elements) {
		t.Errorf("element count differs: %d vs %d", len(two.elements), len(one.elements))
	}

	cached, _ := d.blockFor(o, 1280, 720, 2)
	if cached.x != two.x || len(cached.elements) != len(two.elements) {
		t.Error("blockFor() returned a different layout")
	}
}

func TestBlockTransform(t *testing.T) {
	block := overlayBlock{x: 100, y: 100, w: 200, h: 100}
	st := overlay.Style{Opacity: 1, Scale: 0.5, TranslateY: 10}

	geo := blockTransform(block, st, 2)
	// 中心点只受平移影响
	cx, cy := geo.Apply(200, 150)
	if cx != 200 || cy != 170 {
		t.Errorf("center -> (%v,%v), want (200,170)", cx, cy)
	}
	// 左上角向中心收缩一半
	x, y := geo.Apply(100, 100)
	if x != 150 || y != 145 {
		t.Errorf("corner -> (%v,%v), want (150,145)", x, y)
	}
}

func TestWithAlpha(t *testing.T) {
	got := withAlpha(color.NRGBA{R: 255, G: 255, B: 255, A: 200}, 0.5).(color.NRGBA)
	if got.A != 100 || got.R != 255 {
		t.Errorf("withAlpha() = %+v", got)
	}
	if got := withAlpha(color.White, 2).(color.NRGBA); got.A != 255 {
		t.Errorf("alpha must clamp to 1, got %d", got.A)
	}
}

func TestLoadingGeometry(t *testing.T) {
	g := computeLoadingGeometry(800, 600)
	if g.spinnerCX != 400 {
		t.Errorf("spinnerCX = %v, want 400", g.spinnerCX)
	}
	if g.barX != (800-loadingBarWidth)/2 {
		t.Errorf("barX = %v", g.barX)
	}
	if !(g.spinnerCY < g.captionY && g.captionY < g.barY && g.barY < g.percentY) {
		t.Errorf("elements out of order: %+v", g)
	}
	// 整组内容垂直居中
	top := g.spinnerCY - spinnerSize/2
	bottom := g.percentY + percentFontSize*lineHeightFactor
	if math.Abs((top+bottom)/2-300) > 1e-9 {
		t.Errorf("group center = %v, want 300", (top+bottom)/2)
	}
}

func TestLoadingBarFill(t *testing.T) {
	tests := []struct {
		loaded, total int
		want          float64
	}{
		{0, 26, 0},
		{13, 26, loadingBarWidth / 2},
		{26, 26, loadingBarWidth},
		{0, 0, 0},
	}
	for _, tt := range tests {
		got := loadingBarFill(frames.LoadState{Loaded: tt.loaded, Total: tt.total})
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("loadingBarFill(%d/%d) = %v, want %v", tt.loaded, tt.total, got, tt.want)
		}
	}
}

func TestSpinnerAngle(t *testing.T) {
	if got := spinnerAngle(0); got != 0 {
		t.Errorf("spinnerAngle(0) = %v", got)
	}
	if got := spinnerAngle(spinnerPeriod / 4); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("spinnerAngle(quarter) = %v, want π/2", got)
	}
	if got := spinnerAngle(3*spinnerPeriod + 0.5*spinnerPeriod); math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("spinnerAngle(3.5 turns) = %v, want π", got)
	}
}
