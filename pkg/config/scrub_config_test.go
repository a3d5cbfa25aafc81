package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/scrollscrub/pkg/embedded"
)

// TestDefaultScrubConfig 默认配置必须通过校验
func TestDefaultScrubConfig(t *testing.T) {
	cfg := DefaultScrubConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("默认配置校验失败: %v", err)
	}

	if cfg.Frames.Count != 26 {
		t.Errorf("Frames.Count = %d, want 26", cfg.Frames.Count)
	}
	if cfg.Frames.BasePath != "/iphone_banner/ezgif-frame-" {
		t.Errorf("Frames.BasePath = %q", cfg.Frames.BasePath)
	}
	if cfg.Scroll.ContainerFactor != 4 {
		t.Errorf("Scroll.ContainerFactor = %v, want 4", cfg.Scroll.ContainerFactor)
	}
	if got := cfg.BackgroundColor(); got != (color.RGBA{R: 5, G: 5, B: 5, A: 255}) {
		t.Errorf("BackgroundColor() = %v", got)
	}

	ids := make([]string, 0, len(cfg.Overlays))
	for _, o := range cfg.Overlays {
		ids = append(ids, o.ID)
	}
	if got := strings.Join(ids, ","); got != "hero,feature1,feature2,cta" {
		t.Errorf("叠加层顺序 = %s", got)
	}
}

// TestParseScrubConfigKeepsDefaults 文件未给出的字段保留默认值
func TestParseScrubConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseScrubConfig([]byte("frames:\n  count: 10\n  ext: png\n"))
	if err != nil {
		t.Fatalf("ParseScrubConfig() error: %v", err)
	}
	if cfg.Frames.Count != 10 || cfg.Frames.Ext != "png" {
		t.Errorf("覆盖字段未生效: %+v", cfg.Frames)
	}
	if cfg.Frames.PadWidth != 3 {
		t.Errorf("PadWidth = %d, want default 3", cfg.Frames.PadWidth)
	}
	if len(cfg.Overlays) != 4 {
		t.Errorf("Overlays = %d, want default 4", len(cfg.Overlays))
	}
}

func TestParseScrubConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"帧数为零", "frames:\n  count: 0\n", "frames.count"},
		{"未知来源", "frames:\n  source: ftp\n", "frames.source"},
		{"HTTP 缺少地址", "frames:\n  source: http\n", "frames.baseURL"},
		{"容器系数过小", "scroll:\n  containerFactor: 1\n", "containerFactor"},
		{"背景色非法", "canvas:\n  background: \"#12\"\n", "canvas.background"},
		{"断点非递增", "overlays:\n  - id: a\n    opacity: { breakpoints: [0.5, 0.2], values: [0, 1] }\n", "strictly increasing"},
		{"断点与值长度不一致", "overlays:\n  - id: a\n    x: { breakpoints: [0, 1], values: [0] }\n", "values"},
		{"重复 id", "overlays:\n  - id: a\n  - id: a\n", "duplicate"},
		{"YAML 语法错误", "frames: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScrubConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatal("期望返回错误，实际为 nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("错误信息 %q 不包含 %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#050505", color.RGBA{5, 5, 5, 255}, false},
		{"#fff", color.RGBA{255, 255, 255, 255}, false},
		{"  #FF8000 ", color.RGBA{255, 128, 0, 255}, false},
		{"#zzzzzz", color.RGBA{}, true},
		{"", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestLoadScrubConfigFromFile 非 data/ 路径从文件系统读取
func TestLoadScrubConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrub.yaml")
	if err := os.WriteFile(path, []byte("canvas:\n  background: \"#000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadScrubConfig(path)
	if err != nil {
		t.Fatalf("LoadScrubConfig() error: %v", err)
	}
	if cfg.Canvas.Background != "#000" {
		t.Errorf("Background = %q", cfg.Canvas.Background)
	}

	if _, err := LoadScrubConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("缺失文件应返回错误")
	}
}

// TestLoadScrubConfigFromEmbedded data/ 路径优先读取嵌入资源
func TestLoadScrubConfigFromEmbedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/scrub.yaml": &fstest.MapFile{Data: []byte("frames:\n  count: 7\n")},
	})
	defer embedded.Init(nil)

	cfg, err := LoadScrubConfig(DefaultConfigPath)
	if err != nil {
		t.Fatalf("LoadScrubConfig() error: %v", err)
	}
	if cfg.Frames.Count != 7 {
		t.Errorf("Frames.Count = %d, want 7", cfg.Frames.Count)
	}
}

// TestShippedScrubYAML 仓库自带的 data/scrub.yaml 与默认值一致
func TestShippedScrubYAML(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "scrub.yaml"))
	if err != nil {
		t.Skipf("data/scrub.yaml not found: %v", err)
	}
	cfg, err := ParseScrubConfig(data)
	if err != nil {
		t.Fatalf("data/scrub.yaml 校验失败: %v", err)
	}

	def := DefaultScrubConfig()
	if cfg.Frames != def.Frames {
		t.Errorf("Frames = %+v, want %+v", cfg.Frames, def.Frames)
	}
	if len(cfg.Overlays) != len(def.Overlays) {
		t.Fatalf("Overlays = %d, want %d", len(cfg.Overlays), len(def.Overlays))
	}
	for i := range def.Overlays {
		if cfg.Overlays[i].ID != def.Overlays[i].ID || cfg.Overlays[i].Title != def.Overlays[i].Title {
			t.Errorf("overlay %d = %s/%q, want %s/%q", i, cfg.Overlays[i].ID, cfg.Overlays[i].Title, def.Overlays[i].ID, def.Overlays[i].Title)
		}
	}
}
