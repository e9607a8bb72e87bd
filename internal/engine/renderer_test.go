package engine

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/geometry"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

func solidImage(c color.RGBA, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func decodePNG(t *testing.T, raw []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode rendered PNG: %v", err)
	}
	return img
}

func pixelRGB(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestRenderPartialFailureIsolation(t *testing.T) {
	loader := NewMemoryImageLoader()
	loader.Put("mem://red", solidImage(color.RGBA{R: 255, A: 255}, 10, 10))
	loader.Put("mem://blue", solidImage(color.RGBA{B: 255, A: 255}, 10, 10))
	// "mem://missing" is deliberately not registered.

	slideID := uuid.New()
	red := imageElement(slideID, 0, "mem://red")
	red.PositionX, red.PositionY, red.Width, red.Height = 0, 0, 30, 30
	missing := imageElement(slideID, 1, "mem://missing")
	missing.PositionX, missing.PositionY, missing.Width, missing.Height = 35, 35, 30, 30
	blue := imageElement(slideID, 2, "mem://blue")
	blue.PositionX, blue.PositionY, blue.Width, blue.Height = 70, 70, 30, 30

	activity, slide := testActivitySlide(red, missing, blue)
	scene, err := BuildScene(logger.NewNop(), activity, slide, geometry.Size{Width: 100, Height: 100}, false)
	if err != nil {
		t.Fatalf("BuildScene error: %v", err)
	}

	renderer := NewRenderer(logger.NewNop(), loader, nil)
	raw, err := renderer.Render(context.Background(), scene)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	out := decodePNG(t, raw)

	if r, g, b := pixelRGB(out, 15, 15); r != 255 || g != 0 || b != 0 {
		t.Fatalf("red element not painted, pixel = (%d, %d, %d)", r, g, b)
	}
	if r, g, b := pixelRGB(out, 85, 85); r != 0 || g != 0 || b != 255 {
		t.Fatalf("blue element not painted, pixel = (%d, %d, %d)", r, g, b)
	}
	// The unreachable element leaves the background visible.
	if r, g, b := pixelRGB(out, 50, 50); r != 255 || g != 255 || b != 255 {
		t.Fatalf("missing element area should show background, pixel = (%d, %d, %d)", r, g, b)
	}
}

func TestRenderBackgroundColor(t *testing.T) {
	activity, slide := testActivitySlide()
	activity.SetBackgroundColor("#00FF00")

	scene, err := BuildScene(logger.NewNop(), activity, slide, geometry.Size{Width: 20, Height: 20}, false)
	if err != nil {
		t.Fatalf("BuildScene error: %v", err)
	}
	renderer := NewRenderer(logger.NewNop(), NewMemoryImageLoader(), nil)
	raw, err := renderer.Render(context.Background(), scene)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	out := decodePNG(t, raw)
	if r, g, b := pixelRGB(out, 10, 10); r != 0 || g != 255 || b != 0 {
		t.Fatalf("background pixel = (%d, %d, %d), want green", r, g, b)
	}
}

func TestRenderPaintOrderTopWins(t *testing.T) {
	loader := NewMemoryImageLoader()
	loader.Put("mem://red", solidImage(color.RGBA{R: 255, A: 255}, 10, 10))
	loader.Put("mem://blue", solidImage(color.RGBA{B: 255, A: 255}, 10, 10))

	slideID := uuid.New()
	// Both cover the whole canvas; blue has the higher layer and must win.
	bottom := imageElement(slideID, 0, "mem://red")
	bottom.PositionX, bottom.PositionY, bottom.Width, bottom.Height = 0, 0, 100, 100
	top := imageElement(slideID, 1, "mem://blue")
	top.PositionX, top.PositionY, top.Width, top.Height = 0, 0, 100, 100

	// Listed top-first to prove rendering sorts by layer, not input order.
	activity, slide := testActivitySlide(top, bottom)
	scene, err := BuildScene(logger.NewNop(), activity, slide, geometry.Size{Width: 50, Height: 50}, false)
	if err != nil {
		t.Fatalf("BuildScene error: %v", err)
	}

	renderer := NewRenderer(logger.NewNop(), loader, nil)
	raw, err := renderer.Render(context.Background(), scene)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	out := decodePNG(t, raw)
	if r, g, b := pixelRGB(out, 25, 25); r != 0 || g != 0 || b != 255 {
		t.Fatalf("top layer lost, pixel = (%d, %d, %d), want blue", r, g, b)
	}
}

func TestRenderSkipsTextWithoutFontLibrary(t *testing.T) {
	slideID := uuid.New()
	el := textElement(t, slideID, 0, domain.TextContent{Text: "no fonts configured", FontSize: 8})
	activity, slide := testActivitySlide(el)

	scene, err := BuildScene(logger.NewNop(), activity, slide, geometry.Size{Width: 100, Height: 100}, false)
	if err != nil {
		t.Fatalf("BuildScene error: %v", err)
	}
	renderer := NewRenderer(logger.NewNop(), NewMemoryImageLoader(), nil)
	if _, err := renderer.Render(context.Background(), scene); err != nil {
		t.Fatalf("Render must tolerate missing fonts, got error: %v", err)
	}
}
