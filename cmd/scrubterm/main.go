// scrubterm 在终端中预览滚动帧序列
//
// 每个字符格用上半块字符 '▀' 显示上下两个像素，方向键、滚轮、PgUp/PgDn、
// Home/End 滚动，r 重试加载，q/Esc 退出。帧切换时播放一个短促的提示音，
// 音高随帧序号升高。
//
// 用法：
//
//	go run ./cmd/scrubterm -frames public
//	go run ./cmd/scrubterm -url https://example.com -mute
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/scrollscrub/pkg/app"
	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/gdamore/tcell/v2"
)

var (
	configPath = flag.String("config", config.DefaultConfigPath, "配置文件路径")
	framesRoot = flag.String("frames", "", "本地帧目录")
	baseURL    = flag.String("url", "", "帧服务器地址")
	mute       = flag.Bool("mute", false, "关闭换帧提示音")
	logFile    = flag.String("log", "", "日志文件（终端被占用，默认丢弃日志）")
)

func main() {
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadScrubConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	app.ApplyOverrides(cfg, app.Config{FramesRoot: *framesRoot, BaseURL: *baseURL})

	fetcher, err := game.NewFrameFetcher(cfg.Frames, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	var ticks *tickPlayer
	if !*mute {
		ticks = newTickPlayer()
		if err := ticks.init(); err != nil {
			// 没有声音也能预览
			log.Printf("Audio initialization failed: %v", err)
		}
	}

	p, err := newPreview(screen, cfg, fetcher, ticks)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer p.cleanup()

	p.run()
}
