package scenes

import (
	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/decker502/scrollscrub/pkg/game"
)

// Scene is a type alias for game.Scene to maintain backward compatibility.
// All scene implementations should implement the game.Scene interface.
type Scene = game.Scene

// Deps 场景依赖
type Deps struct {
	Config          *config.ScrubConfig
	Fetcher         frames.Fetcher
	ResourceManager *game.ResourceManager
	SceneManager    *game.SceneManager    // 失败重试时用于重新挂载，可为 nil
	Settings        *game.SettingsManager // 平滑滚动偏好，可为 nil
}
