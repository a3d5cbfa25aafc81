package main

import (
	"flag"
	"log"
	"os"

	"github.com/decker502/scrollscrub/pkg/app"
	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// 命令行参数
	configPath = flag.String("config", "", "滚动配置文件路径（默认使用嵌入的 data/scrub.yaml）")
	framesRoot = flag.String("frames", "", "本地帧目录，覆盖 frames.root")
	baseURL    = flag.String("url", "", "从该 HTTP 地址加载帧，覆盖 frames.baseURL")
	useEmbed   = flag.Bool("embedded", false, "从嵌入的 data/ 目录加载帧")
	verbose    = flag.Bool("verbose", false, "显示详细日志")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	scrubApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		FramesRoot: *framesRoot,
		BaseURL:    *baseURL,
		Embedded:   *useEmbed,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(scrubApp)

	// 卸载场景：取消未完成的帧请求
	if err := scrubApp.GetSceneManager().Close(); err != nil {
		log.Printf("[Main] Failed to close scene: %v", err)
	}

	if runErr != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(runErr)
	}
}
