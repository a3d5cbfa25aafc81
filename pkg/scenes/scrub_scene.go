package scenes

import (
	"context"
	"errors"
	"image/color"
	"log"
	"math"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/decker502/scrollscrub/pkg/overlay"
	"github.com/decker502/scrollscrub/pkg/render"
	"github.com/decker502/scrollscrub/pkg/scroll"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var errNoFetcher = errors.New("no frame fetcher configured")

// ScrubOptions 挂载选项
type ScrubOptions struct {
	// OnLoadComplete 所有帧就绪后调用一次，无参数
	OnLoadComplete func()
	// Context 帧加载的父 context，nil 表示 context.Background()
	Context context.Context
}

// commandSource 每 tick 产生一次滚动指令
type commandSource interface {
	Poll(viewportHeight, dpr float64) scroll.Command
}

// ScrubScene 滚动驱动的帧序列场景
//
// 一个容器占 ContainerFactor 个视口高度，画布吸附在视口内。
// 每个 tick 只采样一次滚动进度，同一个进度值同时驱动帧选择和叠加层动画。
type ScrubScene struct {
	cfg  *config.ScrubConfig
	deps Deps
	opts ScrubOptions

	loader   *frames.Loader
	startErr error // 加载器创建或启动失败
	uploaded bool  // 帧是否已交给合成器

	viewport *scroll.Viewport
	tracker  *scroll.Tracker
	input    commandSource
	// retryPressed 失败后检测重试键，测试中可替换
	retryPressed func() bool

	surface    *render.EbitenSurface
	compositor *render.Compositor
	resize     *render.ResizeHandler

	animator *overlay.Animator
	styles   []overlay.Style
	progress float64 // 本 tick 的进度快照

	background color.RGBA
	laidOut    bool
	elapsed    float64 // 场景运行时间（秒），用于加载动画

	overlayDrawer *overlayDrawer
	loadingView   *loadingView
}

// NewScrubScene 创建并挂载滚动帧序列场景，立即开始加载全部帧
func NewScrubScene(deps Deps, opts ScrubOptions) *ScrubScene {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultScrubConfig()
	}
	if deps.ResourceManager == nil {
		deps.ResourceManager = game.NewResourceManager()
	}

	s := &ScrubScene{
		cfg:        cfg,
		deps:       deps,
		opts:       opts,
		background: cfg.BackgroundColor(),
	}

	smooth := cfg.Scroll.Smooth
	if deps.Settings != nil {
		smooth = deps.Settings.GetSettings().SmoothScroll
	}
	s.viewport = scroll.NewViewport(scroll.ViewportConfig{
		ContainerFactor: cfg.Scroll.ContainerFactor,
		TrailingScreens: cfg.Scroll.TrailingScreens,
		Smooth:          smooth,
		Smoothing:       cfg.Scroll.Smoothing,
	}, 0)
	s.tracker = scroll.NewTracker(s.viewport)
	s.input = scroll.NewInput(scroll.InputConfig{
		WheelStep: cfg.Scroll.WheelStep,
		KeyStep:   cfg.Scroll.KeyStep,
	})
	s.retryPressed = func() bool { return inpututil.IsKeyJustPressed(ebiten.KeyR) }

	s.surface = render.NewEbitenSurface()
	s.compositor = render.NewCompositor(s.surface, s.background)
	s.resize = render.NewResizeHandler(s.compositor, cfg.Canvas.ResizeDebounceTicks)
	s.resize.OnResize = func(w, h, dpr float64) {
		s.viewport.SetHeight(h)
	}

	overlays, err := overlay.FromConfigs(cfg.Overlays)
	if err != nil {
		// 配置已校验过，这里只记录并退化为无叠加层
		log.Printf("[ScrubScene] Invalid overlays: %v", err)
		overlays = nil
	}
	s.animator = overlay.NewAnimator(overlays)

	s.overlayDrawer = newOverlayDrawer(deps.ResourceManager)
	s.loadingView = newLoadingView(deps.ResourceManager, cfg.Loading)

	s.startLoader()
	return s
}

// startLoader 创建加载器并发起全部请求
func (s *ScrubScene) startLoader() {
	if s.deps.Fetcher == nil {
		s.startErr = errNoFetcher
		log.Printf("[ScrubScene] %v", s.startErr)
		return
	}

	loader, err := frames.NewLoader(s.deps.Fetcher, frames.Options{
		BasePath:   s.cfg.Frames.BasePath,
		Count:      s.cfg.Frames.Count,
		PadWidth:   s.cfg.Frames.PadWidth,
		Ext:        s.cfg.Frames.Ext,
		OnComplete: s.onFramesReady,
	})
	if err != nil {
		s.startErr = err
		log.Printf("[ScrubScene] Failed to create frame loader: %v", err)
		return
	}
	s.loader = loader

	ctx := s.opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := loader.Start(ctx); err != nil {
		s.startErr = err
		log.Printf("[ScrubScene] Failed to start frame loader: %v", err)
	}
}

// onFramesReady 在 Poll 所在的 UI 线程上调用一次
func (s *ScrubScene) onFramesReady() {
	fs, err := s.loader.Frames()
	if err != nil {
		s.startErr = err
		return
	}
	s.compositor.SetFrames(game.ToEbitenFrames(fs))
	s.uploaded = true
	log.Printf("[ScrubScene] %d frames uploaded", fs.Len())

	// 立即按当前进度绘制，不等下一次滚动
	s.drawCurrentFrame()

	if s.opts.OnLoadComplete != nil {
		s.opts.OnLoadComplete()
	}
}

// SetLayout 实现 game.LayoutAware
func (s *ScrubScene) SetLayout(width, height, dpr float64) {
	if !s.laidOut {
		s.laidOut = true
		s.resize.ApplyNow(width, height, dpr)
		return
	}
	s.resize.Observe(width, height, dpr)
}

// Update 每 tick 调用：加载进度、尺寸、输入、进度采样、帧与叠加层
func (s *ScrubScene) Update(deltaTime float64) {
	s.elapsed += deltaTime

	state := s.pollState()
	if state.Status == frames.StatusFailed {
		if s.retryPressed != nil && s.retryPressed() {
			s.Retry()
		}
		return
	}

	s.resize.Update()

	_, h, dpr := s.resize.Size()
	if cmd := s.input.Poll(h, dpr); cmd.ToStart {
		s.viewport.ScrollTo(0)
	} else if cmd.ToEnd {
		s.viewport.ScrollTo(s.viewport.MaxScroll())
	} else {
		s.viewport.ScrollBy(cmd.Delta)
	}
	s.viewport.Update()

	s.progress = s.tracker.Sample()
	s.drawCurrentFrame()
	s.styles = s.animator.Evaluate(s.progress)
}

// drawCurrentFrame 把当前进度对应的帧画到后备图像（帧未变化时跳过）
func (s *ScrubScene) drawCurrentFrame() bool {
	if !s.uploaded {
		return false
	}
	w, h, dpr := s.resize.Size()
	index := render.FrameIndex(s.tracker.Progress(), s.compositor.FrameCount())
	return s.compositor.DrawIfChanged(index, w, h, dpr)
}

// Draw 渲染：加载界面，或画布加叠加层
func (s *ScrubScene) Draw(screen *ebiten.Image) {
	w, h, dpr := s.resize.Size()
	if dpr <= 0 {
		dpr = 1
	}

	state := s.LoadState()
	if state.Status != frames.StatusReady || !s.uploaded {
		screen.Fill(s.background)
		s.loadingView.draw(screen, state, s.elapsed, w, h, dpr)
		return
	}

	screen.Fill(s.background)
	if backing := s.surface.Image(); backing != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, math.Round(s.stickyOffset()*dpr))
		screen.DrawImage(backing, op)
	}

	s.overlayDrawer.draw(screen, s.animator.Overlays(), s.styles, s.elapsed, w, h, dpr)
}

// stickyOffset 画布吸附在视口顶部，直到容器底部离开视口后随文档上移
func (s *ScrubScene) stickyOffset() float64 {
	g := s.viewport.Measure()
	containerBottom := g.ContainerTop + g.ContainerHeight - g.ViewportTop
	return math.Min(0, containerBottom-g.ViewportHeight)
}

// Retry 失败后重新挂载：优先交给场景管理器重建整个场景，否则在原场景内重建加载器
func (s *ScrubScene) Retry() {
	log.Printf("[ScrubScene] Retrying frame load")
	if s.deps.SceneManager != nil && s.deps.SceneManager.Reload() {
		return
	}

	if s.loader != nil {
		s.loader.Close()
	}
	s.loader = nil
	s.startErr = nil
	s.uploaded = false
	s.startLoader()
}

// pollState 应用已到达的加载结果并返回最新状态，只在 Update 中调用
func (s *ScrubScene) pollState() frames.LoadState {
	if s.startErr == nil && s.loader != nil {
		s.loader.Poll()
	}
	return s.LoadState()
}

// LoadState 返回最近一次 Update 应用后的加载状态
func (s *ScrubScene) LoadState() frames.LoadState {
	if s.startErr != nil {
		loaded := 0
		if s.loader != nil {
			loaded = s.loader.State().Loaded
		}
		return frames.LoadState{Loaded: loaded, Total: s.cfg.Frames.Count, Status: frames.StatusFailed}
	}
	if s.loader == nil {
		return frames.LoadState{Total: s.cfg.Frames.Count, Status: frames.StatusPending}
	}
	return s.loader.State()
}

// Err 返回加载失败原因
func (s *ScrubScene) Err() error {
	if s.startErr != nil {
		return s.startErr
	}
	if s.loader != nil {
		return s.loader.Err()
	}
	return nil
}

// Progress 返回本 tick 采样的滚动进度
func (s *ScrubScene) Progress() float64 {
	return s.progress
}

// CurrentFrame 返回最近绘制的帧序号，尚未绘制时为 -1
func (s *ScrubScene) CurrentFrame() int {
	return s.compositor.CurrentIndex()
}

// Styles 返回本 tick 的叠加层样式
func (s *ScrubScene) Styles() []overlay.Style {
	return s.styles
}

// Viewport 返回场景的虚拟文档视口
func (s *ScrubScene) Viewport() *scroll.Viewport {
	return s.viewport
}

// SetSmoothScroll 切换平滑滚动（由设置变化触发）
func (s *ScrubScene) SetSmoothScroll(enabled bool) {
	s.viewport.SetSmooth(enabled)
}

// Close 卸载场景：取消未完成的请求，之后到达的结果被丢弃，释放 GPU 后备图像
func (s *ScrubScene) Close() error {
	if s.loader != nil {
		s.loader.Close()
	}
	s.surface.Release()
	log.Printf("[ScrubScene] Closed")
	return nil
}
