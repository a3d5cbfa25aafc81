package game

import (
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于重新挂载场景（例如加载失败后重试），避免循环依赖
type SceneFactory func() Scene

// layout 最近一次的视口尺寸
type layout struct {
	width, height, dpr float64
	known              bool
}

// SceneManager manages which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory // 场景工厂函数，用于重新挂载
	layout       layout
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
//
// The previous scene is closed when it implements io.Closer (its pending
// work is cancelled and its GPU images released). A newly mounted
// LayoutAware scene receives the last known layout immediately.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene != nil && sm.currentScene != scene {
		if closer, ok := sm.currentScene.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Printf("[SceneManager] Warning: failed to close scene: %v", err)
			}
		}
	}

	sm.currentScene = scene

	if la, ok := scene.(LayoutAware); ok && sm.layout.known {
		la.SetLayout(sm.layout.width, sm.layout.height, sm.layout.dpr)
	}
}

// GetCurrentScene 返回当前活动的场景
//
// 返回：
//   - Scene: 当前场景，如果没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Reload 使用场景工厂重新创建并挂载场景
//
// 返回：
//   - bool: 是否成功挂载了新场景
func (sm *SceneManager) Reload() bool {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] 错误: SceneFactory 未设置")
		return false
	}

	newScene := sm.sceneFactory()
	if newScene == nil {
		log.Printf("[SceneManager] 错误: 无法创建场景")
		return false
	}

	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] 场景已重新挂载")
	return true
}

// SetLayout 记录视口尺寸并转发给当前场景
func (sm *SceneManager) SetLayout(width, height, dpr float64) {
	if sm.layout.known && sm.layout.width == width && sm.layout.height == height && sm.layout.dpr == dpr {
		return
	}
	sm.layout = layout{width: width, height: height, dpr: dpr, known: true}

	if la, ok := sm.currentScene.(LayoutAware); ok {
		la.SetLayout(width, height, dpr)
	}
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
// deltaTime is the time elapsed since the last update in seconds.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// Close 关闭当前场景（程序退出时调用）
func (sm *SceneManager) Close() error {
	if closer, ok := sm.currentScene.(io.Closer); ok {
		sm.currentScene = nil
		return closer.Close()
	}
	sm.currentScene = nil
	return nil
}
