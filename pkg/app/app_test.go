package app

import (
	"math"
	"testing"

	"github.com/decker502/scrollscrub/pkg/config"
)

func TestApplyOverrides(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantSource string
		check      func(t *testing.T, sc *config.ScrubConfig)
	}{
		{
			name:       "无覆盖保持配置文件",
			cfg:        Config{},
			wantSource: config.SourceFile,
			check: func(t *testing.T, sc *config.ScrubConfig) {
				if sc.Frames.Root != "public" {
					t.Errorf("Root = %q, want public", sc.Frames.Root)
				}
			},
		},
		{
			name:       "指定 HTTP 地址",
			cfg:        Config{BaseURL: "https://cdn.example.com", FramesRoot: "ignored"},
			wantSource: config.SourceHTTP,
			check: func(t *testing.T, sc *config.ScrubConfig) {
				if sc.Frames.BaseURL != "https://cdn.example.com" {
					t.Errorf("BaseURL = %q", sc.Frames.BaseURL)
				}
			},
		},
		{
			name:       "嵌入资源",
			cfg:        Config{Embedded: true},
			wantSource: config.SourceEmbedded,
		},
		{
			name:       "本地目录",
			cfg:        Config{FramesRoot: "/srv/frames"},
			wantSource: config.SourceFile,
			check: func(t *testing.T, sc *config.ScrubConfig) {
				if sc.Frames.Root != "/srv/frames" {
					t.Errorf("Root = %q", sc.Frames.Root)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := config.DefaultScrubConfig()
			ApplyOverrides(sc, tt.cfg)
			if sc.Frames.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", sc.Frames.Source, tt.wantSource)
			}
			if tt.check != nil {
				tt.check(t, sc)
			}
			if err := sc.Validate(); err != nil {
				t.Errorf("overridden config invalid: %v", err)
			}
		})
	}
}

func TestValidScale(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2, 2},
		{1.5, 1.5},
		{0, 1},
		{-1, 1},
		{math.NaN(), 1},
		{math.Inf(1), 1},
	}
	for _, tt := range tests {
		if got := validScale(tt.in); got != tt.want {
			t.Errorf("validScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
