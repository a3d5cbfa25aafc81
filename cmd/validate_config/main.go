// validate_config 校验滚动配置文件，可选检查帧资源是否完整
//
// 用法：
//
//	go run ./cmd/validate_config -config data/scrub.yaml
//	go run ./cmd/validate_config -config data/scrub.yaml -frames public -check-frames
//	go run ./cmd/validate_config -schedule
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/decker502/scrollscrub/pkg/overlay"
	"github.com/decker502/scrollscrub/pkg/render"
)

var (
	configPath  = flag.String("config", config.DefaultConfigPath, "配置文件路径")
	framesRoot  = flag.String("frames", "", "本地帧目录，覆盖 frames.root")
	checkFrames = flag.Bool("check-frames", false, "加载全部帧，确认资源完整")
	schedule    = flag.Bool("schedule", false, "打印各进度下的帧序号与叠加层样式")
	timeout     = flag.Duration("timeout", time.Minute, "检查帧资源的超时时间")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadScrubConfig(*configPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ 配置格式正确: %s\n", *configPath)
	fmt.Printf("✅ 帧数: %d, 首帧: %s\n", cfg.Frames.Count, frames.FramePath(cfg.Frames.BasePath, 1, cfg.Frames.PadWidth, cfg.Frames.Ext))
	fmt.Printf("✅ 叠加层数量: %d\n", len(cfg.Overlays))

	overlays, err := overlay.FromConfigs(cfg.Overlays)
	if err != nil {
		fmt.Printf("❌ 叠加层无效: %v\n", err)
		os.Exit(1)
	}

	if *schedule {
		printSchedule(cfg.Frames.Count, overlays)
	}

	if *checkFrames {
		if err := verifyFrames(cfg); err != nil {
			fmt.Printf("❌ %v\n", err)
			os.Exit(1)
		}
	}
}

// printSchedule 以 0.05 为步长列出进度、帧序号和可见叠加层
func printSchedule(n int, overlays []*overlay.Overlay) {
	animator := overlay.NewAnimator(overlays)
	fmt.Printf("\n%-8s %-6s %s\n", "进度", "帧", "叠加层 (opacity x y scale)")
	for i := 0; i <= 20; i++ {
		p := float64(i) / 20
		line := fmt.Sprintf("%-8.2f %-6d", p, render.FrameIndex(p, n))
		for _, st := range animator.Evaluate(p) {
			if st.Visible() {
				line += fmt.Sprintf(" %s(%.2f %.0f %.0f %.3f)", st.ID, st.Opacity, st.TranslateX, st.TranslateY, st.Scale)
			}
		}
		fmt.Println(line)
	}
	fmt.Println()
}

// verifyFrames 用正式加载器加载全部帧
func verifyFrames(cfg *config.ScrubConfig) error {
	fetcher, err := game.NewFrameFetcher(cfg.Frames, *framesRoot)
	if err != nil {
		return err
	}

	loader, err := frames.NewLoader(fetcher, frames.Options{
		BasePath: cfg.Frames.BasePath,
		Count:    cfg.Frames.Count,
		PadWidth: cfg.Frames.PadWidth,
		Ext:      cfg.Frames.Ext,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := loader.Start(ctx); err != nil {
		return err
	}

	fs, err := loader.Wait(ctx)
	if err != nil {
		var lf *frames.LoadFailure
		if errors.As(err, &lf) {
			return fmt.Errorf("第 %d 帧加载失败 (%s): %v", lf.Index+1, lf.Path, lf.Err)
		}
		return err
	}

	first, _ := fs.At(0)
	b := first.Bounds()
	fmt.Printf("✅ 全部 %d 帧加载成功，尺寸 %dx%d\n", fs.Len(), b.Dx(), b.Dy())
	for i := 1; i < fs.Len(); i++ {
		img, _ := fs.At(i)
		if img.Bounds().Dx() != b.Dx() || img.Bounds().Dy() != b.Dy() {
			fmt.Printf("⚠️  第 %d 帧尺寸 %dx%d 与首帧不同\n", i+1, img.Bounds().Dx(), img.Bounds().Dy())
		}
	}
	return nil
}
