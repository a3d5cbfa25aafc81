package scenes

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/decker502/scrollscrub/pkg/game"
	"github.com/decker502/scrollscrub/pkg/render"
	"github.com/decker502/scrollscrub/pkg/scroll"
	"github.com/hajimehoshi/ebiten/v2"
)

// fakeInput 按顺序返回预设的滚动指令
type fakeInput struct {
	cmds []scroll.Command
}

func (f *fakeInput) Poll(viewportHeight, dpr float64) scroll.Command {
	if len(f.cmds) == 0 {
		return scroll.Command{}
	}
	c := f.cmds[0]
	f.cmds = f.cmds[1:]
	return c
}

// stubScene 占位场景，只用于验证重新挂载
type stubScene struct{}

func (stubScene) Update(float64)     {}
func (stubScene) Draw(*ebiten.Image) {}

// solidFetcher 返回 16×9 纯色帧；failIndex 为 1 起的失败帧号，0 表示全部成功
func solidFetcher(failIndex int, failing *atomic.Bool) frames.Fetcher {
	return frames.FetcherFunc(func(ctx context.Context, path string) (image.Image, error) {
		if failIndex > 0 && failing.Load() && path == frames.FramePath("/f/", failIndex, 3, "png") {
			return nil, errors.New("404 not found")
		}
		img := image.NewRGBA(image.Rect(0, 0, 16, 9))
		img.Set(0, 0, color.RGBA{R: 200, A: 255})
		return img, nil
	})
}

func testConfig() *config.ScrubConfig {
	cfg := config.DefaultScrubConfig()
	cfg.Frames.BasePath = "/f/"
	cfg.Frames.Ext = "png"
	cfg.Scroll.Smooth = false
	cfg.Canvas.ResizeDebounceTicks = 0
	return cfg
}

func newTestScene(t *testing.T, fetcher frames.Fetcher, opts ScrubOptions) (*ScrubScene, *fakeInput) {
	t.Helper()
	s := NewScrubScene(Deps{Config: testConfig(), Fetcher: fetcher}, opts)
	in := &fakeInput{}
	s.input = in
	s.retryPressed = func() bool { return false }
	t.Cleanup(func() { s.Close() })
	s.SetLayout(160, 90, 1)
	return s, in
}

// waitForStatus 持续 Update 直到加载进入指定状态
func waitForStatus(t *testing.T, s *ScrubScene, want frames.LoadStatus) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.Update(1.0 / 60)
		if s.LoadState().Status == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("load status = %s, want %s", s.LoadState().Status, want)
}

// TestScrubScene_LoadsAndDrawsFirstFrame 全部帧就绪后回调一次并立即绘制第 0 帧
func TestScrubScene_LoadsAndDrawsFirstFrame(t *testing.T) {
	var completed int
	s, _ := newTestScene(t, solidFetcher(0, nil), ScrubOptions{OnLoadComplete: func() { completed++ }})

	waitForStatus(t, s, frames.StatusReady)
	for i := 0; i < 3; i++ {
		s.Update(1.0 / 60)
	}

	if completed != 1 {
		t.Errorf("OnLoadComplete called %d times, want 1", completed)
	}
	if st := s.LoadState(); st.Loaded != 26 || st.Percent() != 100 {
		t.Errorf("LoadState() = %+v", st)
	}
	if s.CurrentFrame() != 0 {
		t.Errorf("CurrentFrame() = %d, want 0", s.CurrentFrame())
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v", s.Err())
	}
}

// TestScrubScene_ScrollSelectsFrames 滚动到末尾显示最后一帧，Home 回到第一帧
func TestScrubScene_ScrollSelectsFrames(t *testing.T) {
	s, in := newTestScene(t, solidFetcher(0, nil), ScrubOptions{})
	waitForStatus(t, s, frames.StatusReady)

	in.cmds = append(in.cmds, scroll.Command{ToEnd: true})
	s.Update(1.0 / 60)
	if s.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", s.Progress())
	}
	if s.CurrentFrame() != 25 {
		t.Errorf("CurrentFrame() = %d, want 25", s.CurrentFrame())
	}

	in.cmds = append(in.cmds, scroll.Command{ToStart: true})
	s.Update(1.0 / 60)
	if s.Progress() != 0 || s.CurrentFrame() != 0 {
		t.Errorf("after Home: progress %v frame %d", s.Progress(), s.CurrentFrame())
	}

	// 继续向上滚动保持在 0
	in.cmds = append(in.cmds, scroll.Command{Delta: -500})
	s.Update(1.0 / 60)
	if s.Progress() != 0 {
		t.Errorf("Progress() = %v, want 0", s.Progress())
	}
}

// TestScrubScene_SingleProgressSnapshot 帧与叠加层使用同一个进度值
func TestScrubScene_SingleProgressSnapshot(t *testing.T) {
	s, _ := newTestScene(t, solidFetcher(0, nil), ScrubOptions{})
	waitForStatus(t, s, frames.StatusReady)

	for _, p := range []float64{0.1, 0.25, 0.4, 0.55, 0.85} {
		t.Run(fmt.Sprintf("p=%v", p), func(t *testing.T) {
			s.Viewport().ScrollToProgress(p)
			s.Update(1.0 / 60)

			got := s.Progress()
			if math.Abs(got-p) > 1e-9 {
				t.Fatalf("Progress() = %v, want %v", got, p)
			}
			if want := render.FrameIndex(got, 26); s.CurrentFrame() != want {
				t.Errorf("CurrentFrame() = %d, want %d", s.CurrentFrame(), want)
			}
			want := s.animator.Evaluate(got)
			styles := s.Styles()
			for i := range want {
				if styles[i] != want[i] {
					t.Errorf("style %d = %+v, want %+v", i, styles[i], want[i])
				}
			}
		})
	}
}

// TestScrubScene_ResizeKeepsFrame 窗口尺寸变化后仍显示同一帧
func TestScrubScene_ResizeKeepsFrame(t *testing.T) {
	s, _ := newTestScene(t, solidFetcher(0, nil), ScrubOptions{})
	waitForStatus(t, s, frames.StatusReady)

	s.Viewport().ScrollToProgress(0.4)
	s.Update(1.0 / 60)
	if s.CurrentFrame() != 10 {
		t.Fatalf("CurrentFrame() = %d, want 10", s.CurrentFrame())
	}

	s.SetLayout(320, 180, 2)
	s.Update(1.0 / 60)
	if s.CurrentFrame() != 10 {
		t.Errorf("CurrentFrame() after resize = %d, want 10", s.CurrentFrame())
	}
	if math.Abs(s.Progress()-0.4) > 1e-9 {
		t.Errorf("Progress() after resize = %v, want 0.4", s.Progress())
	}
	if s.Viewport().Height() != 180 {
		t.Errorf("viewport height = %v, want 180", s.Viewport().Height())
	}
	if b := s.surface.Image().Bounds(); b.Dx() != 640 || b.Dy() != 360 {
		t.Errorf("backing store = %dx%d, want 640x360", b.Dx(), b.Dy())
	}
}

// TestScrubScene_FailureAndRetry 任一帧失败则不就绪；重试后重新加载
func TestScrubScene_FailureAndRetry(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)

	var completed int
	s, _ := newTestScene(t, solidFetcher(6, &failing), ScrubOptions{OnLoadComplete: func() { completed++ }})
	waitForStatus(t, s, frames.StatusFailed)

	var lf *frames.LoadFailure
	if !errors.As(s.Err(), &lf) {
		t.Fatalf("Err() = %v, want *frames.LoadFailure", s.Err())
	}
	if lf.Index != 5 {
		t.Errorf("failure index = %d, want 5", lf.Index)
	}
	if completed != 0 {
		t.Errorf("OnLoadComplete called %d times after failure", completed)
	}
	if s.CurrentFrame() != -1 {
		t.Errorf("CurrentFrame() = %d, want -1", s.CurrentFrame())
	}

	// 重试键按下一次
	failing.Store(false)
	var pressed atomic.Bool
	pressed.Store(true)
	s.retryPressed = func() bool { return pressed.Swap(false) }

	waitForStatus(t, s, frames.StatusReady)
	if completed != 1 {
		t.Errorf("OnLoadComplete called %d times after retry, want 1", completed)
	}
	if s.Err() != nil {
		t.Errorf("Err() after retry = %v", s.Err())
	}
}

// TestScrubScene_RetryRemountsThroughSceneManager 有场景管理器时重试重新挂载场景
func TestScrubScene_RetryRemountsThroughSceneManager(t *testing.T) {
	sm := game.NewSceneManager()
	mounted := 0
	sm.SetSceneFactory(func() game.Scene {
		mounted++
		return stubScene{}
	})

	var failing atomic.Bool
	failing.Store(true)
	s := NewScrubScene(Deps{Config: testConfig(), Fetcher: solidFetcher(1, &failing), SceneManager: sm}, ScrubOptions{})
	s.input = &fakeInput{}
	s.retryPressed = func() bool { return false }
	sm.SwitchTo(s)
	s.SetLayout(160, 90, 1)

	waitForStatus(t, s, frames.StatusFailed)

	s.retryPressed = func() bool { return true }
	s.Update(1.0 / 60)

	if mounted != 1 {
		t.Errorf("scene factory called %d times, want 1", mounted)
	}
	if sm.GetCurrentScene() == game.Scene(s) {
		t.Error("failed scene still mounted after retry")
	}
}

// TestScrubScene_NoFetcher 没有帧来源时直接进入失败状态
func TestScrubScene_NoFetcher(t *testing.T) {
	s, _ := newTestScene(t, nil, ScrubOptions{})
	s.Update(1.0 / 60)

	if s.LoadState().Status != frames.StatusFailed {
		t.Errorf("status = %s, want failed", s.LoadState().Status)
	}
	if !errors.Is(s.Err(), errNoFetcher) {
		t.Errorf("Err() = %v, want errNoFetcher", s.Err())
	}
}

// TestScrubScene_CloseDiscardsLateFrames 卸载后到达的帧被丢弃，不触发回调
func TestScrubScene_CloseDiscardsLateFrames(t *testing.T) {
	release := make(chan struct{})
	fetcher := frames.FetcherFunc(func(ctx context.Context, path string) (image.Image, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	})

	var completed int
	s, _ := newTestScene(t, fetcher, ScrubOptions{OnLoadComplete: func() { completed++ }})
	s.Update(1.0 / 60)
	s.Close()
	close(release)

	for i := 0; i < 10; i++ {
		s.Update(1.0 / 60)
		time.Sleep(time.Millisecond)
	}
	if completed != 0 {
		t.Errorf("OnLoadComplete called %d times after Close", completed)
	}
	if s.LoadState().Status == frames.StatusReady {
		t.Error("closed scene must never become ready")
	}
}

// TestScrubScene_StickyOffset 容器之后有内容时，画布在容器结束后随文档上移
func TestScrubScene_StickyOffset(t *testing.T) {
	cfg := testConfig()
	cfg.Scroll.TrailingScreens = 1
	s := NewScrubScene(Deps{Config: cfg, Fetcher: solidFetcher(0, nil)}, ScrubOptions{})
	s.input = &fakeInput{}
	t.Cleanup(func() { s.Close() })
	s.SetLayout(100, 100, 1)

	s.Viewport().ScrollTo(200)
	if got := s.stickyOffset(); got != 0 {
		t.Errorf("stickyOffset() inside container = %v, want 0", got)
	}
	s.Viewport().ScrollTo(350)
	if got := s.stickyOffset(); got != -50 {
		t.Errorf("stickyOffset() past container = %v, want -50", got)
	}
}
