package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/scrollscrub/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// 帧来源类型
const (
	SourceFile     = "file"     // 本地目录
	SourceHTTP     = "http"     // HTTP(S) 服务器
	SourceEmbedded = "embedded" // 嵌入的 data/ 目录
)

// ScrubConfig 滚动帧序列渲染器配置
//
// 配置文件位置: data/scrub.yaml（嵌入）或通过 -config 指定的文件
type ScrubConfig struct {
	Frames   FramesConfig    `yaml:"frames"`
	Scroll   ScrollConfig    `yaml:"scroll"`
	Canvas   CanvasConfig    `yaml:"canvas"`
	Loading  LoadingConfig   `yaml:"loading"`
	Overlays []OverlayConfig `yaml:"overlays"`
}

// FramesConfig 帧序列资源配置
type FramesConfig struct {
	// Count 帧数 N
	Count int `yaml:"count"`
	// BasePath 资源名前缀，完整名称为 <basePath><序号补零>.<ext>，序号从 1 开始
	BasePath string `yaml:"basePath"`
	// Ext 扩展名（不含点）
	Ext string `yaml:"ext"`
	// PadWidth 序号补零宽度
	PadWidth int `yaml:"padWidth"`
	// Source 帧来源：file / http / embedded
	Source string `yaml:"source"`
	// Root file 来源的根目录
	Root string `yaml:"root"`
	// BaseURL http 来源的服务器地址
	BaseURL string `yaml:"baseURL"`
	// TimeoutSeconds 单帧 HTTP 请求超时
	TimeoutSeconds float64 `yaml:"timeoutSeconds"`
}

// ScrollConfig 滚动容器与输入配置
type ScrollConfig struct {
	// ContainerFactor 容器高度 = ContainerFactor × 视口高度
	ContainerFactor float64 `yaml:"containerFactor"`
	// TrailingScreens 容器后面的内容高度（视口高度的倍数）
	TrailingScreens float64 `yaml:"trailingScreens"`
	// WheelStep 每个滚轮刻度的滚动距离（逻辑像素）
	WheelStep float64 `yaml:"wheelStep"`
	// KeyStep 方向键每次滚动距离（逻辑像素）
	KeyStep float64 `yaml:"keyStep"`
	// Smooth 平滑滚动默认开关（可被用户设置覆盖）
	Smooth bool `yaml:"smooth"`
	// Smoothing 平滑系数 (0, 1]
	Smoothing float64 `yaml:"smoothing"`
}

// CanvasConfig 画布配置
type CanvasConfig struct {
	// Background 背景色，#rgb 或 #rrggbb
	Background string `yaml:"background"`
	// ResizeDebounceTicks 窗口尺寸变化后等待的 tick 数，0 表示立即重绘
	ResizeDebounceTicks int `yaml:"resizeDebounceTicks"`
}

// LoadingConfig 加载界面文字
type LoadingConfig struct {
	Caption   string `yaml:"caption"`
	ErrorText string `yaml:"errorText"`
	RetryHint string `yaml:"retryHint"`
}

// OverlayConfig 单个叠加层配置
type OverlayConfig struct {
	ID      string   `yaml:"id"`
	Anchor  string   `yaml:"anchor"` // center / left / right
	Kicker  string   `yaml:"kicker"`
	Title   string   `yaml:"title"`
	Body    string   `yaml:"body"`
	Buttons []string `yaml:"buttons"`
	// Arrow 在内容下方绘制上下浮动的向下箭头（滚动提示）
	Arrow bool `yaml:"arrow"`

	Opacity *TrackConfig `yaml:"opacity"`
	X       *TrackConfig `yaml:"x"`
	Y       *TrackConfig `yaml:"y"`
	Scale   *TrackConfig `yaml:"scale"`
}

// TrackConfig 关键帧表：进度断点与对应输出值
type TrackConfig struct {
	Breakpoints []float64 `yaml:"breakpoints"`
	Values      []float64 `yaml:"values"`
}

// DefaultScrubConfig 返回默认配置
//
// 叠加层断点为手工调校的数值，没有推导规则，按数据原样保留。
func DefaultScrubConfig() *ScrubConfig {
	return &ScrubConfig{
		Frames: FramesConfig{
			Count:          26,
			BasePath:       "/iphone_banner/ezgif-frame-",
			Ext:            "jpg",
			PadWidth:       3,
			Source:         SourceFile,
			Root:           "public",
			TimeoutSeconds: 30,
		},
		Scroll: ScrollConfig{
			ContainerFactor: 4,
			TrailingScreens: 0,
			WheelStep:       60,
			KeyStep:         40,
			Smooth:          true,
			Smoothing:       0.25,
		},
		Canvas: CanvasConfig{
			Background:          "#050505",
			ResizeDebounceTicks: 6,
		},
		Loading: LoadingConfig{
			Caption:   "Loading Experience",
			ErrorText: "Failed to load images",
			RetryHint: "Press R to retry",
		},
		Overlays: DefaultOverlayConfigs(),
	}
}

// DefaultOverlayConfigs 默认叠加层：Hero、两个特性介绍、CTA
func DefaultOverlayConfigs() []OverlayConfig {
	return []OverlayConfig{
		{
			ID:      "hero",
			Anchor:  "center",
			Kicker:  "Scroll to explore",
			Arrow:   true,
			Opacity: &TrackConfig{Breakpoints: []float64{0, 0.15}, Values: []float64{1, 0}},
			Y:       &TrackConfig{Breakpoints: []float64{0, 0.15}, Values: []float64{0, -50}},
		},
		{
			ID:      "feature1",
			Anchor:  "left",
			Kicker:  "A19 Pro Chip",
			Title:   "Fastest chip\never in a smartphone.",
			Body:    "The most powerful chip ever in a smartphone. With a new 6-core GPU that's up to 20% faster than A18 Pro.",
			Opacity: &TrackConfig{Breakpoints: []float64{0.2, 0.3, 0.4, 0.5}, Values: []float64{0, 1, 1, 0}},
			X:       &TrackConfig{Breakpoints: []float64{0.2, 0.3, 0.4, 0.5}, Values: []float64{-50, 0, 0, -50}},
		},
		{
			ID:      "feature2",
			Anchor:  "right",
			Kicker:  "Pro Camera System",
			Title:   "See the full picture.",
			Body:    "48MP Fusion camera. 5x Telephoto. Ultra Wide. A new level of detail and color accuracy in every shot.",
			Opacity: &TrackConfig{Breakpoints: []float64{0.5, 0.6, 0.7, 0.8}, Values: []float64{0, 1, 1, 0}},
			X:       &TrackConfig{Breakpoints: []float64{0.5, 0.6, 0.7, 0.8}, Values: []float64{50, 0, 0, 50}},
		},
		{
			ID:      "cta",
			Anchor:  "center",
			Body:    "Crafted with precision. Built to last. This is the future of smartphone technology.",
			Buttons: []string{"Buy Now", "Learn More"},
			Opacity: &TrackConfig{Breakpoints: []float64{0.8, 0.9, 1}, Values: []float64{0, 1, 1}},
			Y:       &TrackConfig{Breakpoints: []float64{0.8, 0.9}, Values: []float64{50, 0}},
			Scale:   &TrackConfig{Breakpoints: []float64{0.8, 0.9}, Values: []float64{0.95, 1}},
		},
	}
}

// LoadScrubConfig 加载滚动渲染器配置
//
// 以 "data/" 开头的路径优先从嵌入资源读取，其余路径从文件系统读取。
// 文件中未出现的字段保留默认值。
//
// 参数:
//   - path: 配置文件路径（如 "data/scrub.yaml"）
//
// 返回:
//   - *ScrubConfig: 加载并校验后的配置
//   - error: 读取、解析或校验失败时返回错误
func LoadScrubConfig(path string) (*ScrubConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scrub config: %w", err)
	}
	return ParseScrubConfig(data)
}

// ParseScrubConfig 解析 YAML 内容并校验
func ParseScrubConfig(data []byte) (*ScrubConfig, error) {
	cfg := DefaultScrubConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scrub config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scrub config: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimPrefix(path, "./"), "data/") && embedded.IsInitialized() && embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}

// Validate 校验配置
func (c *ScrubConfig) Validate() error {
	if c.Frames.Count < 1 {
		return fmt.Errorf("frames.count must be positive, got %d", c.Frames.Count)
	}
	if c.Frames.PadWidth < 1 {
		return fmt.Errorf("frames.padWidth must be positive, got %d", c.Frames.PadWidth)
	}
	if c.Frames.Ext == "" {
		return fmt.Errorf("frames.ext is empty")
	}
	switch c.Frames.Source {
	case SourceFile, SourceEmbedded:
	case SourceHTTP:
		if c.Frames.BaseURL == "" {
			return fmt.Errorf("frames.baseURL is required for source %q", SourceHTTP)
		}
	default:
		return fmt.Errorf("unknown frames.source %q", c.Frames.Source)
	}

	if c.Scroll.ContainerFactor <= 1 {
		return fmt.Errorf("scroll.containerFactor must be greater than 1, got %v", c.Scroll.ContainerFactor)
	}
	if c.Scroll.TrailingScreens < 0 {
		return fmt.Errorf("scroll.trailingScreens must not be negative")
	}
	if c.Scroll.Smoothing < 0 || c.Scroll.Smoothing > 1 {
		return fmt.Errorf("scroll.smoothing must be within [0,1], got %v", c.Scroll.Smoothing)
	}

	if _, err := ParseHexColor(c.Canvas.Background); err != nil {
		return fmt.Errorf("canvas.background: %w", err)
	}
	if c.Canvas.ResizeDebounceTicks < 0 {
		return fmt.Errorf("canvas.resizeDebounceTicks must not be negative")
	}

	seen := make(map[string]bool, len(c.Overlays))
	for i, o := range c.Overlays {
		if o.ID == "" {
			return fmt.Errorf("overlay %d has no id", i)
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate overlay id %q", o.ID)
		}
		seen[o.ID] = true

		for name, tr := range map[string]*TrackConfig{"opacity": o.Opacity, "x": o.X, "y": o.Y, "scale": o.Scale} {
			if tr == nil {
				continue
			}
			if err := tr.Validate(); err != nil {
				return fmt.Errorf("overlay %s %s: %w", o.ID, name, err)
			}
		}
	}
	return nil
}

// Validate 校验关键帧表：非空、等长、断点在 [0,1] 且严格递增
func (t *TrackConfig) Validate() error {
	if len(t.Breakpoints) == 0 {
		return fmt.Errorf("no breakpoints")
	}
	if len(t.Breakpoints) != len(t.Values) {
		return fmt.Errorf("%d breakpoints but %d values", len(t.Breakpoints), len(t.Values))
	}
	for i, b := range t.Breakpoints {
		if b < 0 || b > 1 {
			return fmt.Errorf("breakpoint %v outside [0,1]", b)
		}
		if i > 0 && b <= t.Breakpoints[i-1] {
			return fmt.Errorf("breakpoints not strictly increasing at index %d", i)
		}
	}
	return nil
}

// BackgroundColor 返回解析后的背景色（Validate 之后调用不会失败）
func (c *ScrubConfig) BackgroundColor() color.RGBA {
	bg, err := ParseHexColor(c.Canvas.Background)
	if err != nil {
		return color.RGBA{R: 0x05, G: 0x05, B: 0x05, A: 0xff}
	}
	return bg
}

// ParseHexColor 解析 "#rgb" 或 "#rrggbb" 格式颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
