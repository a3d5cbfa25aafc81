// Package app 提供查看器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"math"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/decker502/scrollscrub/pkg/scenes"
	"github.com/decker502/scrollscrub/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// AppName gdata 存储使用的应用名
const AppName = "scrollscrub"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 滚动配置文件路径，为空则使用嵌入的 data/scrub.yaml
	ConfigPath string
	// FramesRoot 覆盖 frames.root（本地帧目录）
	FramesRoot string
	// BaseURL 非空时改为从该地址通过 HTTP 加载帧
	BaseURL string
	// Embedded 从嵌入的 data/ 目录加载帧
	Embedded bool
}

// App 是查看器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	scrubConfig              *config.ScrubConfig
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}
	scrubConfig, err := config.LoadScrubConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	ApplyOverrides(scrubConfig, cfg)
	log.Printf("[Config] 加载配置: %s (%d 帧, 来源 %s)", configPath, scrubConfig.Frames.Count, scrubConfig.Frames.Source)

	fetcher, err := game.NewFrameFetcher(scrubConfig.Frames, cfg.FramesRoot)
	if err != nil {
		return nil, fmt.Errorf("帧来源初始化失败: %w", err)
	}

	settings, err := game.NewSettingsManager(game.OpenSettingsStore(AppName))
	if err != nil {
		return nil, fmt.Errorf("设置加载失败: %w", err)
	}
	if !utils.IsMobile() && settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	resourceManager := game.NewResourceManager()

	// 创建场景管理器，重试时通过工厂重新挂载场景
	sceneManager := game.NewSceneManager()
	deps := scenes.Deps{
		Config:          scrubConfig,
		Fetcher:         fetcher,
		ResourceManager: resourceManager,
		SceneManager:    sceneManager,
		Settings:        settings,
	}
	sceneManager.SetSceneFactory(func() game.Scene {
		return scenes.NewScrubScene(deps, scenes.ScrubOptions{
			OnLoadComplete: func() {
				log.Printf("[App] All %d frames loaded", scrubConfig.Frames.Count)
			},
		})
	})
	if !sceneManager.Reload() {
		return nil, fmt.Errorf("场景创建失败")
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		scrubConfig:  scrubConfig,
		verbose:      cfg.Verbose,
	}, nil
}

// ApplyOverrides 命令行参数覆盖配置文件中的帧来源
// 优先级：BaseURL > Embedded > FramesRoot
func ApplyOverrides(sc *config.ScrubConfig, cfg Config) {
	switch {
	case cfg.BaseURL != "":
		sc.Frames.Source = config.SourceHTTP
		sc.Frames.BaseURL = cfg.BaseURL
	case cfg.Embedded:
		sc.Frames.Source = config.SourceEmbedded
	case cfg.FramesRoot != "":
		sc.Frames.Source = config.SourceFile
		sc.Frames.Root = cfg.FramesRoot
	}
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.WindowWidth, config.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if !utils.IsMobile() {
		// F11 切换全屏
		if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
			a.toggleFullscreen()
		}
		// S 切换平滑滚动
		if inpututil.IsKeyJustPressed(ebiten.KeyS) {
			a.toggleSmoothScroll()
		}
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}

	a.settings.SetFullscreen(ebiten.IsFullscreen())
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

func (a *App) toggleSmoothScroll() {
	enabled := !a.settings.GetSettings().SmoothScroll
	a.settings.SetSmoothScroll(enabled)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}

	if s, ok := a.sceneManager.GetCurrentScene().(*scenes.ScrubScene); ok {
		s.SetSmoothScroll(enabled)
	}
	log.Printf("[App] Smooth scrolling: %v", enabled)
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 控制最终缩放与边缘填充颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 实现 ebiten.Game；实际尺寸由 LayoutF 决定
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := a.LayoutF(float64(outsideWidth), float64(outsideHeight))
	return int(w), int(h)
}

// LayoutF 返回设备像素尺寸的屏幕
//
// 外部尺寸为逻辑像素，乘以显示器缩放后得到后备缓冲尺寸，
// 场景按逻辑尺寸排版、按设备像素绘制。
func (a *App) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	dpr := deviceScale()
	a.sceneManager.SetLayout(outsideWidth, outsideHeight, dpr)
	return math.Round(outsideWidth * dpr), math.Round(outsideHeight * dpr)
}

// deviceScale 当前显示器的设备像素比，不可用时为 1
func deviceScale() float64 {
	m := ebiten.Monitor()
	if m == nil {
		return 1
	}
	return validScale(m.DeviceScaleFactor())
}

func validScale(s float64) float64 {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

// GetSceneManager 返回场景管理器
// 程序退出时用于卸载场景
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// ScrubConfig 返回生效的滚动配置
func (a *App) ScrubConfig() *config.ScrubConfig {
	return a.scrubConfig
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
