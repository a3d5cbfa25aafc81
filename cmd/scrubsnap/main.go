// scrubsnap 无窗口渲染指定滚动进度下的画面，输出 PNG
//
// 与窗口程序共用同一套加载器、进度跟踪和合成器，适合在 CI 中检查帧资源
// 和取帧结果。
//
// 用法：
//
//	go run ./cmd/scrubsnap -frames public -p 0,0.5,1 -out snapshots
//	go run ./cmd/scrubsnap -url https://example.com -p 0.25 -w 390 -h 844 -dpr 3
package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/decker502/scrollscrub/pkg/app"
	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/decker502/scrollscrub/pkg/overlay"
	"github.com/decker502/scrollscrub/pkg/render"
	"github.com/decker502/scrollscrub/pkg/scroll"
)

var (
	configPath = flag.String("config", config.DefaultConfigPath, "配置文件路径")
	framesRoot = flag.String("frames", "", "本地帧目录")
	baseURL    = flag.String("url", "", "帧服务器地址")
	progressCS = flag.String("p", "0,0.25,0.5,0.75,1", "逗号分隔的滚动进度")
	width      = flag.Float64("w", config.WindowWidth, "视口宽度（逻辑像素）")
	height     = flag.Float64("h", config.WindowHeight, "视口高度（逻辑像素）")
	dpr        = flag.Float64("dpr", 1, "设备像素比")
	outDir     = flag.String("out", "snapshots", "输出目录")
	timeout    = flag.Duration("timeout", time.Minute, "加载超时")
)

func main() {
	flag.Parse()

	points, err := parseProgressList(*progressCS)
	if err != nil {
		log.Fatalf("❌ 进度参数无效: %v", err)
	}

	cfg, err := config.LoadScrubConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	app.ApplyOverrides(cfg, app.Config{FramesRoot: *framesRoot, BaseURL: *baseURL})

	fs, err := loadFrames(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("✓ 已加载 %d 帧", fs.Len())

	background, err := config.ParseHexColor(cfg.Canvas.Background)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	overlays, err := overlay.FromConfigs(cfg.Overlays)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	surface := render.NewRasterSurface()
	compositor := render.NewCompositor(surface, background)
	compositor.SetFrames(fs)
	animator := overlay.NewAnimator(overlays)

	viewport := scroll.NewViewport(scroll.ViewportConfig{
		ContainerFactor: cfg.Scroll.ContainerFactor,
		TrailingScreens: cfg.Scroll.TrailingScreens,
	}, *height)
	tracker := scroll.NewTracker(viewport)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("❌ 无法创建输出目录: %v", err)
	}

	for _, p := range points {
		viewport.ScrollToProgress(p)
		sampled := tracker.Sample()
		index := render.FrameIndex(sampled, compositor.FrameCount())
		if !compositor.Draw(index, *width, *height, *dpr) {
			log.Fatalf("❌ 进度 %.3f 绘制失败", p)
		}

		name := filepath.Join(*outDir, snapshotName(sampled, index))
		if err := writePNG(name, surface); err != nil {
			log.Fatalf("❌ %v", err)
		}

		var visible []string
		for _, st := range animator.Evaluate(sampled) {
			if st.Visible() {
				visible = append(visible, fmt.Sprintf("%s@%.2f", st.ID, st.Opacity))
			}
		}
		log.Printf("✓ p=%.3f scrollY=%.0f frame=%d overlays=[%s] -> %s",
			sampled, viewport.ScrollY(), index+1, strings.Join(visible, " "), name)
	}
}

// loadFrames 加载全部帧（阻塞直到完成或超时）
func loadFrames(cfg *config.ScrubConfig) (frames.FrameSet, error) {
	fetcher, err := game.NewFrameFetcher(cfg.Frames, "")
	if err != nil {
		return frames.FrameSet{}, err
	}
	loader, err := frames.NewLoader(fetcher, frames.Options{
		BasePath: cfg.Frames.BasePath,
		Count:    cfg.Frames.Count,
		PadWidth: cfg.Frames.PadWidth,
		Ext:      cfg.Frames.Ext,
	})
	if err != nil {
		return frames.FrameSet{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		return frames.FrameSet{}, err
	}
	return loader.Wait(ctx)
}

func writePNG(path string, surface *render.RasterSurface) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建 %s 失败: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, surface.Image()); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

// parseProgressList 解析 "0,0.5,1"，每个值必须在 [0,1] 内
func parseProgressList(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%q 不是数字", part)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("%v 超出 [0,1]", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("至少需要一个进度值")
	}
	return out, nil
}

// snapshotName 文件名中的帧序号从 1 开始，与帧资源名一致
func snapshotName(progress float64, index int) string {
	return fmt.Sprintf("scrub_p%03d_frame%03d.png", int(progress*1000+0.5), index+1)
}
