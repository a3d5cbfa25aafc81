// Package frames 提供帧序列的并发预加载
//
// Loader 并发发起全部 N 个帧请求，按序号（而非完成顺序）存放结果，
// 并在 UI 线程上通过 Poll() 汇报进度。任意一帧失败即进入 Failed 终态。
package frames

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math"

	"golang.org/x/sync/errgroup"
)

// LoadStatus 加载状态
type LoadStatus int

const (
	// StatusPending 尚未开始
	StatusPending LoadStatus = iota
	// StatusLoading 请求已发出，等待完成
	StatusLoading
	// StatusReady 全部帧加载成功（终态）
	StatusReady
	// StatusFailed 至少一帧加载失败（终态）
	StatusFailed
)

// String returns a human readable status name.
func (s LoadStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusLoading:
		return "Loading"
	case StatusReady:
		return "Ready"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s LoadStatus) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// LoadState is the loader's externally visible progress.
type LoadState struct {
	Loaded int
	Total  int
	Status LoadStatus
}

// Fraction returns Loaded/Total in [0,1].
func (s LoadState) Fraction() float64 {
	if s.Total <= 0 {
		return 0
	}
	return float64(s.Loaded) / float64(s.Total)
}

// Percent returns the rounded loading percentage shown by the loading view.
func (s LoadState) Percent() int {
	return int(math.Round(s.Fraction() * 100))
}

// LoadFailure reports the first frame that could not be fetched.
type LoadFailure struct {
	Index int    // 0-based frame index
	Path  string // resource name that was requested
	Err   error
}

func (e *LoadFailure) Error() string {
	return fmt.Sprintf("frame %d (%s) failed to load: %v", e.Index, e.Path, e.Err)
}

func (e *LoadFailure) Unwrap() error {
	return e.Err
}

var (
	errNilImage       = errors.New("fetcher returned no image")
	errAlreadyStarted = errors.New("loader already started")
	errNotStarted     = errors.New("loader not started")
)

// Options 加载器配置
type Options struct {
	BasePath string // 资源路径前缀，如 "/iphone_banner/ezgif-frame-"
	Count    int    // 帧数 N
	PadWidth int    // 序号补零宽度，默认 3
	Ext      string // 扩展名，默认 "jpg"

	// OnProgress 每成功加载一帧后调用（在 Poll 所在的 goroutine 上）
	OnProgress func(loaded, total int)
	// OnComplete 全部帧就绪后调用且仅调用一次
	OnComplete func()
}

type fetchResult struct {
	index int
	path  string
	img   image.Image
	err   error
}

// Loader preloads a fixed-size frame sequence.
//
// Start fans out one goroutine per frame. Results are delivered through a
// buffered channel and applied by Poll (or Wait) on the caller's goroutine, so
// LoadState, the callbacks and the frame slice are only ever touched from the
// UI thread.
type Loader struct {
	fetcher Fetcher
	opts    Options

	state    LoadState
	images   []image.Image
	failure  *LoadFailure
	results  chan fetchResult
	cancel   context.CancelFunc
	closed   bool
	notified bool
}

// NewLoader validates the options and returns a Pending loader.
func NewLoader(fetcher Fetcher, opts Options) (*Loader, error) {
	if fetcher == nil {
		return nil, errors.New("frame loader requires a fetcher")
	}
	if opts.Count < 1 {
		return nil, fmt.Errorf("frame count must be positive, got %d", opts.Count)
	}
	if opts.PadWidth <= 0 {
		opts.PadWidth = DefaultPadWidth
	}
	if opts.Ext == "" {
		opts.Ext = DefaultExt
	}

	return &Loader{
		fetcher: fetcher,
		opts:    opts,
		state:   LoadState{Total: opts.Count, Status: StatusPending},
		images:  make([]image.Image, opts.Count),
	}, nil
}

// Start issues all N fetches concurrently and moves the loader to Loading.
// The first failing fetch cancels the context handed to the others.
func (l *Loader) Start(ctx context.Context) error {
	if l.state.Status != StatusPending {
		return errAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	// 容量为 N：每个 goroutine 只发送一次，因此永远不会阻塞
	l.results = make(chan fetchResult, l.opts.Count)
	l.state.Status = StatusLoading

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < l.opts.Count; i++ {
		i := i // go 1.21：每次迭代独立副本，供 goroutine 捕获
		path := FramePath(l.opts.BasePath, i+1, l.opts.PadWidth, l.opts.Ext)
		g.Go(func() error {
			img, err := l.fetcher.Fetch(gctx, path)
			if err == nil && img == nil {
				err = errNilImage
			}
			l.results <- fetchResult{index: i, path: path, img: img, err: err}
			return err
		})
	}

	go func() {
		_ = g.Wait()
		cancel()
	}()

	log.Printf("[FrameLoader] Started %d fetches (%s)", l.opts.Count,
		FramePath(l.opts.BasePath, 1, l.opts.PadWidth, l.opts.Ext))
	return nil
}

// Poll applies every completion that has arrived so far without blocking
// and returns the resulting state.
func (l *Loader) Poll() LoadState {
	for {
		select {
		case r := <-l.results:
			l.apply(r)
		default:
			return l.state
		}
	}
}

// Wait blocks until the loader reaches Ready or Failed, or ctx is done.
// It is meant for headless hosts that have no frame loop to call Poll from.
func (l *Loader) Wait(ctx context.Context) (FrameSet, error) {
	if l.state.Status == StatusPending {
		return FrameSet{}, errNotStarted
	}

	for !l.state.Status.Terminal() && !l.closed {
		select {
		case r := <-l.results:
			l.apply(r)
		case <-ctx.Done():
			return FrameSet{}, ctx.Err()
		}
	}

	if l.failure != nil {
		return FrameSet{}, l.failure
	}
	if l.closed {
		return FrameSet{}, errors.New("loader closed")
	}
	return l.Frames()
}

func (l *Loader) apply(r fetchResult) {
	// 终态之后到达的结果（包括卸载后）直接丢弃
	if l.closed || l.state.Status.Terminal() {
		return
	}

	if r.err != nil {
		l.failure = &LoadFailure{Index: r.index, Path: r.path, Err: r.err}
		l.state.Status = StatusFailed
		l.images = nil
		if l.cancel != nil {
			l.cancel()
		}
		log.Printf("[FrameLoader] Failed to load images: %v", l.failure)
		return
	}

	l.images[r.index] = r.img
	l.state.Loaded++
	if l.opts.OnProgress != nil {
		l.opts.OnProgress(l.state.Loaded, l.state.Total)
	}

	if l.state.Loaded == l.state.Total {
		l.state.Status = StatusReady
		log.Printf("[FrameLoader] All %d frames ready", l.state.Total)
		if !l.notified {
			l.notified = true
			if l.opts.OnComplete != nil {
				l.opts.OnComplete()
			}
		}
	}
}

// State returns the last applied state.
func (l *Loader) State() LoadState {
	return l.state
}

// Err returns the LoadFailure once the loader has failed, nil otherwise.
func (l *Loader) Err() error {
	if l.failure == nil {
		return nil
	}
	return l.failure
}

// Frames returns the ordered FrameSet once the loader is Ready.
func (l *Loader) Frames() (FrameSet, error) {
	if l.state.Status != StatusReady {
		return FrameSet{}, fmt.Errorf("frames not ready (status %s)", l.state.Status)
	}
	return NewFrameSet(l.images)
}

// Close cancels in-flight fetches and discards any result delivered later.
func (l *Loader) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.images = nil
	if l.cancel != nil {
		l.cancel()
	}
}
