package main

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	tickSampleRate = beep.SampleRate(44100)
	tickDuration   = 30 * time.Millisecond
	// tickMinGap 快速拖动时两次提示音的最小间隔
	tickMinGap = 25 * time.Millisecond
	// tickBaseFreq 第一帧的音高，最后一帧高一个八度
	tickBaseFreq = 440.0
)

// tickPlayer 换帧提示音
type tickPlayer struct {
	mu          sync.Mutex
	initialized bool
	last        time.Time
}

func newTickPlayer() *tickPlayer {
	return &tickPlayer{}
}

func (t *tickPlayer) init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := speaker.Init(tickSampleRate, tickSampleRate.N(time.Second/10)); err != nil {
		return err
	}
	t.initialized = true
	return nil
}

// play 播放第 index 帧（共 n 帧）的提示音
func (t *tickPlayer) play(index, n int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		return
	}
	now := time.Now()
	if now.Sub(t.last) < tickMinGap {
		return
	}
	t.last = now

	sine, err := generators.SineTone(tickSampleRate, tickFrequency(index, n))
	if err != nil {
		return
	}
	speaker.Play(&effects.Volume{
		Streamer: beep.Take(tickSampleRate.N(tickDuration), sine),
		Base:     2,
		Volume:   -3,
	})
}

func (t *tickPlayer) close() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		speaker.Close()
		t.initialized = false
	}
}

// tickFrequency 帧序号线性映射到一个八度 [base, 2×base]
func tickFrequency(index, n int) float64 {
	if n <= 1 {
		return tickBaseFreq
	}
	f := float64(index) / float64(n-1)
	f = math.Max(0, math.Min(1, f))
	return tickBaseFreq * math.Pow(2, f)
}
