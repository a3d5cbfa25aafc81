package config

// 窗口配置常量
const (
	// WindowWidth 默认窗口宽度（逻辑像素）
	WindowWidth = 1280

	// WindowHeight 默认窗口高度（逻辑像素）
	WindowHeight = 720

	// WindowTitle 窗口标题
	WindowTitle = "Scroll Scrub"

	// DefaultConfigPath 默认配置文件（嵌入资源）
	DefaultConfigPath = "data/scrub.yaml"
)
