package engine

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageLoader fetches and decodes the bitmap behind an element's source URL.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// HTTPImageLoader loads bitmaps over HTTP(S).
type HTTPImageLoader struct {
	client *http.Client
}

func NewHTTPImageLoader(timeout time.Duration) *HTTPImageLoader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPImageLoader{client: &http.Client{Timeout: timeout}}
}

func (l *HTTPImageLoader) Load(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image %q: unexpected status %d", url, resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode image %q: %w", url, err)
	}
	return img, nil
}

// MemoryImageLoader serves bitmaps from an in-memory map. Used by tests and
// by offline previews where assets are already resident.
type MemoryImageLoader struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

func NewMemoryImageLoader() *MemoryImageLoader {
	return &MemoryImageLoader{images: make(map[string]image.Image)}
}

func (l *MemoryImageLoader) Put(url string, img image.Image) {
	l.mu.Lock()
	l.images[url] = img
	l.mu.Unlock()
}

func (l *MemoryImageLoader) Load(_ context.Context, url string) (image.Image, error) {
	l.mu.RLock()
	img, ok := l.images[url]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("image %q not found", url)
	}
	return img, nil
}
