package frames

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Fetcher retrieves and decodes one frame image.
// Implementations must be safe for concurrent use: the loader calls Fetch
// from one goroutine per frame.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (image.Image, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, path string) (image.Image, error)

// Fetch calls f(ctx, path).
func (f FetcherFunc) Fetch(ctx context.Context, path string) (image.Image, error) {
	return f(ctx, path)
}

// FileFetcher loads frames from the local file system.
// Frame paths are resolved relative to Root, so an absolute-looking
// base path such as "/iphone_banner/ezgif-frame-" maps to Root/iphone_banner/...
type FileFetcher struct {
	Root string
}

// Fetch opens and decodes the frame file.
func (f FileFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath := filepath.Join(f.Root, filepath.FromSlash(path))
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame file %s: %w", fullPath, err)
	}
	defer file.Close()

	return decodeFrame(file, fullPath)
}

// FSFetcher loads frames from an fs.FS (e.g. an embed.FS sub tree).
type FSFetcher struct {
	FS fs.FS
}

// Fetch opens and decodes the frame from the wrapped file system.
func (f FSFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// fs.FS 路径不允许以 "/" 或 "./" 开头
	name := strings.TrimPrefix(filepath.ToSlash(path), "./")
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid frame path %q", path)
	}

	file, err := f.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame %s: %w", name, err)
	}
	defer file.Close()

	return decodeFrame(file, name)
}

// HTTPFetcher downloads frames over HTTP(S).
// The frame path is appended to BaseURL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with a client using the given timeout.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch issues a GET request for the frame and decodes the response body.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (image.Image, error) {
	url := strings.TrimSuffix(f.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch frame %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch frame %s: unexpected status %s", url, resp.Status)
	}

	return decodeFrame(resp.Body, url)
}

func decodeFrame(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", name, err)
	}
	return img, nil
}
