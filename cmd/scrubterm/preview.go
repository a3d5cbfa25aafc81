package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"
	"unicode/utf8"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/decker502/scrollscrub/pkg/overlay"
	"github.com/decker502/scrollscrub/pkg/render"
	"github.com/decker502/scrollscrub/pkg/scroll"
	"github.com/gdamore/tcell/v2"
	xdraw "golang.org/x/image/draw"
)

// statusRows 底部状态栏行数
const statusRows = 1

var textColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// preview 终端预览：与窗口程序相同的加载器、视口、合成器和叠加层
type preview struct {
	screen  tcell.Screen
	cfg     *config.ScrubConfig
	fetcher frames.Fetcher
	ticks   *tickPlayer

	loader *frames.Loader
	ready  bool
	err    error

	surface    *render.RasterSurface
	compositor *render.Compositor
	resize     *render.ResizeHandler
	viewport   *scroll.Viewport
	tracker    *scroll.Tracker
	animator   *overlay.Animator
	styles     []overlay.Style
	background color.RGBA

	cols, rows int
	lastFrame  int
	progress   float64
}

func newPreview(screen tcell.Screen, cfg *config.ScrubConfig, fetcher frames.Fetcher, ticks *tickPlayer) (*preview, error) {
	background, err := config.ParseHexColor(cfg.Canvas.Background)
	if err != nil {
		return nil, err
	}
	overlays, err := overlay.FromConfigs(cfg.Overlays)
	if err != nil {
		return nil, err
	}

	p := &preview{
		screen:     screen,
		cfg:        cfg,
		fetcher:    fetcher,
		ticks:      ticks,
		background: background,
		animator:   overlay.NewAnimator(overlays),
		lastFrame:  -1,
	}

	p.surface = render.NewRasterSurface()
	// 每格一个像素，邻近采样保持边缘清晰
	p.surface.SetInterpolator(xdraw.NearestNeighbor)
	p.compositor = render.NewCompositor(p.surface, background)
	p.resize = render.NewResizeHandler(p.compositor, cfg.Canvas.ResizeDebounceTicks)
	p.viewport = scroll.NewViewport(scroll.ViewportConfig{
		ContainerFactor: cfg.Scroll.ContainerFactor,
		TrailingScreens: cfg.Scroll.TrailingScreens,
		Smooth:          cfg.Scroll.Smooth,
		Smoothing:       cfg.Scroll.Smoothing,
	}, 0)
	p.resize.OnResize = func(w, h, dpr float64) {
		p.viewport.SetHeight(h)
	}
	p.tracker = scroll.NewTracker(p.viewport)

	p.cols, p.rows = screen.Size()
	p.resize.ApplyNow(p.canvasSize())
	p.styles = p.animator.Evaluate(0)

	p.startLoader()
	return p, nil
}

// canvasSize 画布逻辑尺寸：每列 1 像素，每行 2 像素，dpr 恒为 1
func (p *preview) canvasSize() (w, h, dpr float64) {
	rows := p.rows - statusRows
	if rows < 0 {
		rows = 0
	}
	return float64(p.cols), float64(rows * 2), 1
}

func (p *preview) startLoader() {
	p.ready = false
	p.err = nil

	loader, err := frames.NewLoader(p.fetcher, frames.Options{
		BasePath:   p.cfg.Frames.BasePath,
		Count:      p.cfg.Frames.Count,
		PadWidth:   p.cfg.Frames.PadWidth,
		Ext:        p.cfg.Frames.Ext,
		OnComplete: p.onFramesReady,
	})
	if err != nil {
		p.err = err
		return
	}
	p.loader = loader
	if err := loader.Start(context.Background()); err != nil {
		p.err = err
	}
}

func (p *preview) onFramesReady() {
	fs, err := p.loader.Frames()
	if err != nil {
		p.err = err
		return
	}
	p.compositor.SetFrames(fs)
	p.ready = true
	p.drawCurrentFrame()
}

func (p *preview) retry() {
	if p.loader != nil {
		p.loader.Close()
	}
	log.Printf("[scrubterm] Retrying frame load")
	p.startLoader()
}

// drawCurrentFrame 按最新进度选帧，帧变化时播放提示音
func (p *preview) drawCurrentFrame() {
	if !p.ready {
		return
	}
	n := p.compositor.FrameCount()
	index := render.FrameIndex(p.progress, n)
	w, h, dpr := p.resize.Size()
	p.compositor.DrawIfChanged(index, w, h, dpr)
	if index != p.lastFrame {
		if p.lastFrame >= 0 {
			p.ticks.play(index, n)
		}
		p.lastFrame = index
	}
}

// update 每 tick 一次
func (p *preview) update() {
	if p.loader != nil {
		state := p.loader.Poll()
		if state.Status == frames.StatusFailed {
			p.err = p.loader.Err()
			return
		}
	}

	p.resize.Update()
	p.viewport.Update()
	p.progress = p.tracker.Sample()
	p.drawCurrentFrame()
	p.styles = p.animator.Evaluate(p.progress)
}

// handleInput 返回 false 表示退出
func (p *preview) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R') {
			if p.err != nil {
				p.retry()
			}
			return true
		}
		p.applyCommand(keyCommand(ev, p.steps()))

	case *tcell.EventMouse:
		p.applyCommand(mouseCommand(ev, p.steps()))

	case *tcell.EventResize:
		p.cols, p.rows = p.screen.Size()
		p.resize.Observe(p.canvasSize())
		p.screen.Sync()
	}
	return true
}

func (p *preview) applyCommand(cmd scroll.Command) {
	switch {
	case cmd.ToStart:
		p.viewport.ScrollTo(0)
	case cmd.ToEnd:
		p.viewport.ScrollTo(p.viewport.MaxScroll())
	case cmd.Delta != 0:
		p.viewport.ScrollBy(cmd.Delta)
	}
}

// steps 按画布高度缩放配置中的滚动步长
func (p *preview) steps() scrollSteps {
	_, h, _ := p.canvasSize()
	return newScrollSteps(p.cfg.Scroll, h)
}

func (p *preview) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !p.handleInput(ev) {
				return
			}

		case <-ticker.C:
			p.update()
			p.draw()
		}
	}
}

func (p *preview) draw() {
	p.screen.Clear()
	switch {
	case p.err != nil:
		p.drawMessage(p.cfg.Loading.ErrorText, p.cfg.Loading.RetryHint)
	case !p.ready:
		state := frames.LoadState{}
		if p.loader != nil {
			state = p.loader.State()
		}
		p.drawMessage(p.cfg.Loading.Caption,
			fmt.Sprintf("%s %3d%%", loadingBar(state.Fraction(), 24), state.Percent()))
	default:
		p.drawCanvas()
		p.drawOverlays()
	}
	p.drawStatus()
	p.screen.Show()
}

func (p *preview) drawCanvas() {
	img := p.surface.Image()
	rows := p.rows - statusRows
	for y := 0; y < rows; y++ {
		for x := 0; x < p.cols; x++ {
			top, bottom := cellColors(img, x, y, p.background)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			p.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
}

func (p *preview) drawOverlays() {
	img := p.surface.Image()
	rows := p.rows - statusRows
	width := p.cols - 2*sideMargin
	if width > maxBlockWidth {
		width = maxBlockWidth
	}

	for i, o := range p.animator.Overlays() {
		if i >= len(p.styles) || !p.styles[i].Visible() {
			continue
		}
		st := p.styles[i]
		lines := overlayLines(o.Content, width)
		w := blockWidth(lines)
		x0, y0 := placeBlock(o.Anchor, st, p.cols, rows, w, len(lines))

		for dy, line := range lines {
			y := y0 + dy
			if y < 0 || y >= rows {
				continue
			}
			// 居中块内每行再单独居中
			x := x0
			if o.Anchor == overlay.AnchorCenter {
				x += (w - utf8.RuneCountInString(line.text)) / 2
			} else if o.Anchor == overlay.AnchorRight {
				x += w - utf8.RuneCountInString(line.text)
			}
			for _, r := range line.text {
				if x >= 0 && x < p.cols {
					top, _ := cellColors(img, x, y, p.background)
					style := tcell.StyleDefault.
						Foreground(toTcell(blend(textColor, top, st.Opacity))).
						Background(toTcell(top)).
						Bold(line.bold)
					p.screen.SetContent(x, y, r, nil, style)
				}
				x++
			}
		}
	}
}

// drawMessage 加载或失败时居中显示两行文字
func (p *preview) drawMessage(first, second string) {
	rows := p.rows - statusRows
	y := rows/2 - 1
	p.drawCentered(y, first, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	p.drawCentered(y+2, second, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

func (p *preview) drawCentered(y int, s string, style tcell.Style) {
	x := (p.cols - utf8.RuneCountInString(s)) / 2
	for _, r := range s {
		if x >= 0 && x < p.cols && y >= 0 {
			p.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func (p *preview) drawStatus() {
	y := p.rows - 1
	if y < 0 {
		return
	}
	n := p.cfg.Frames.Count
	status := fmt.Sprintf(" progress %5.1f%%  frame %d/%d  ↑↓ PgUp PgDn Home End  q quit",
		p.progress*100, p.lastFrame+1, n)
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	for x := 0; x < p.cols; x++ {
		p.screen.SetContent(x, y, ' ', nil, style)
	}
	x := 0
	for _, r := range status {
		if x >= p.cols {
			break
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (p *preview) cleanup() {
	if p.loader != nil {
		p.loader.Close()
	}
	p.ticks.close()
	p.screen.Fini()
}
