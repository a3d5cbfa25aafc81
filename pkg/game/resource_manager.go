package game

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/embedded"
	"github.com/decker502/scrollscrub/pkg/frames"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// Built-in font names accepted by LoadFont.
const (
	FontRegular = "goregular"
	FontMedium  = "gomedium"
	FontBold    = "gobold"
)

var builtinFonts = map[string][]byte{
	FontRegular: goregular.TTF,
	FontMedium:  gomedium.TTF,
	FontBold:    gobold.TTF,
}

// ResourceManager manages font faces and frame images for the viewer.
//
// Font sources are parsed once and shared by every size. The manager is
// used from the game loop goroutine only, so no synchronization is needed.
//
// Usage:
//
//	rm := NewResourceManager()
//	face, err := rm.LoadFont(FontBold, 48)
//	if err != nil {
//	    log.Printf("Failed to load font: %v", err)
//	}
type ResourceManager struct {
	fontSourceCache map[string]*text.GoTextFaceSource // name/path -> parsed font source
	fontFaceCache   map[string]*text.GoTextFace       // "name:size" -> face
}

// NewResourceManager creates a ResourceManager with empty caches.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		fontSourceCache: make(map[string]*text.GoTextFaceSource),
		fontFaceCache:   make(map[string]*text.GoTextFace),
	}
}

// LoadFont loads a font face and caches it for future use.
//
// Parameters:
//   - name: one of FontRegular, FontMedium, FontBold, or a path to a TTF/OTF file.
//   - size: The font size in pixels.
//
// Returns:
//   - A pointer to the text.GoTextFace ready for rendering.
//   - An error if the file cannot be opened or parsed.
func (rm *ResourceManager) LoadFont(name string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", name, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, err := rm.loadFontSource(name)
	if err != nil {
		return nil, err
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace

	return goTextFace, nil
}

// GetFont retrieves a previously loaded font face from the cache.
// If the font has not been loaded yet, it returns nil.
func (rm *ResourceManager) GetFont(name string, size float64) *text.GoTextFace {
	cacheKey := fmt.Sprintf("%s:%.1f", name, size)
	return rm.fontFaceCache[cacheKey]
}

func (rm *ResourceManager) loadFontSource(name string) (*text.GoTextFaceSource, error) {
	if source, ok := rm.fontSourceCache[name]; ok {
		return source, nil
	}

	fontData, ok := builtinFonts[name]
	if !ok {
		var err error
		fontData, err = os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", name, err)
		}
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", name, err)
	}
	rm.fontSourceCache[name] = source
	return source, nil
}

// ToEbitenFrames uploads every frame of a decoded set to GPU images.
// Frames that already are *ebiten.Image are kept as is.
func ToEbitenFrames(fs frames.FrameSet) frames.FrameSet {
	return fs.Map(func(_ int, img image.Image) image.Image {
		if eimg, ok := img.(*ebiten.Image); ok {
			return eimg
		}
		return ebiten.NewImageFromImage(img)
	})
}

// NewFrameFetcher creates the frame fetcher described by the frames config.
//
// Sources:
//   - file: frames are read below cfg.Root (overridden by rootOverride when non-empty)
//   - http: frames are downloaded from cfg.BaseURL
//   - embedded: frames are read from the embedded data/ directory
func NewFrameFetcher(cfg config.FramesConfig, rootOverride string) (frames.Fetcher, error) {
	switch cfg.Source {
	case config.SourceFile, "":
		root := cfg.Root
		if rootOverride != "" {
			root = rootOverride
		}
		return frames.FileFetcher{Root: root}, nil

	case config.SourceHTTP:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("frames source %q requires baseURL", cfg.Source)
		}
		timeout := time.Duration(cfg.TimeoutSeconds * float64(time.Second))
		return frames.NewHTTPFetcher(cfg.BaseURL, timeout), nil

	case config.SourceEmbedded:
		sub, err := embedded.Sub("data")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded frames: %w", err)
		}
		return frames.FSFetcher{FS: sub}, nil

	default:
		return nil, fmt.Errorf("unknown frames source %q", cfg.Source)
	}
}
