package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"

	"github.com/youngclement/preziq-canvas-backend/internal/domain"
	"github.com/youngclement/preziq-canvas-backend/internal/pkg/logger"
)

const defaultPreloadConcurrency = 8

// Renderer rasterizes a scene to a PNG. Bitmaps are preloaded for the whole
// slide before any node is painted so a slow image cannot cause partial or
// out-of-order paint; a bitmap that fails to load skips its node only.
type Renderer struct {
	log     *logger.Logger
	loader  ImageLoader
	fonts   *FontLibrary
	preload int
}

func NewRenderer(log *logger.Logger, loader ImageLoader, fonts *FontLibrary) *Renderer {
	return &Renderer{
		log:     log.With("component", "Renderer"),
		loader:  loader,
		fonts:   fonts,
		preload: defaultPreloadConcurrency,
	}
}

// Render paints the scene in paint order and returns PNG bytes.
func (r *Renderer) Render(ctx context.Context, scene *Scene) ([]byte, error) {
	if scene == nil {
		return nil, fmt.Errorf("scene required")
	}
	if scene.Canvas.Width <= 0 || scene.Canvas.Height <= 0 {
		return nil, fmt.Errorf("scene canvas must have nonzero dimensions")
	}

	bitmaps := r.preloadImages(ctx, scene)

	dc := gg.NewContext(int(scene.Canvas.Width), int(scene.Canvas.Height))
	r.paintBackground(dc, scene, bitmaps)

	for _, node := range scene.Nodes() {
		switch node.Kind {
		case domain.ElementKindImage:
			r.paintImage(dc, node, bitmaps)
		case domain.ElementKindText:
			r.paintText(dc, node)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// preloadImages fetches every referenced bitmap concurrently and joins on the
// whole batch. Individual failures are logged and leave a gap in the map.
func (r *Renderer) preloadImages(ctx context.Context, scene *Scene) map[string]image.Image {
	urls := make(map[string]bool)
	if scene.BackgroundImage != "" {
		urls[scene.BackgroundImage] = true
	}
	for _, node := range scene.Nodes() {
		if node.Kind == domain.ElementKindImage && node.SourceURL != "" {
			urls[node.SourceURL] = true
		}
	}

	bitmaps := make(map[string]image.Image, len(urls))
	if len(urls) == 0 || r.loader == nil {
		return bitmaps
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.preload)
	for url := range urls {
		url := url
		g.Go(func() error {
			img, err := r.loader.Load(gctx, url)
			if err != nil {
				r.log.Warn("image preload failed, element will be skipped", "url", url, "error", err)
				return nil
			}
			mu.Lock()
			bitmaps[url] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return bitmaps
}

func (r *Renderer) paintBackground(dc *gg.Context, scene *Scene, bitmaps map[string]image.Image) {
	if scene.BackgroundColor != "" {
		dc.SetHexColor(scene.BackgroundColor)
		dc.Clear()
		return
	}
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if scene.BackgroundImage == "" {
		return
	}
	img, ok := bitmaps[scene.BackgroundImage]
	if !ok {
		r.log.Warn("background image unavailable, rendering plain background", "url", scene.BackgroundImage)
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}
	dc.Push()
	dc.Scale(scene.Canvas.Width/float64(bounds.Dx()), scene.Canvas.Height/float64(bounds.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

func (r *Renderer) paintImage(dc *gg.Context, node *Node, bitmaps map[string]image.Image) {
	img, ok := bitmaps[node.SourceURL]
	if !ok {
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		r.log.Warn("skipping image with empty bitmap", "elementID", node.ElementID, "url", node.SourceURL)
		return
	}

	sx := node.Rect.Width / float64(bounds.Dx())
	sy := node.Rect.Height / float64(bounds.Dy())
	cx := node.Rect.X + node.Rect.Width/2
	cy := node.Rect.Y + node.Rect.Height/2

	dc.Push()
	dc.RotateAbout(gg.Radians(node.Rotation), cx, cy)
	dc.Translate(node.Rect.X, node.Rect.Y)
	dc.Scale(sx, sy)
	dc.DrawImage(img, 0, 0)
	dc.Pop()
}

func (r *Renderer) paintText(dc *gg.Context, node *Node) {
	text := node.Text
	if text == nil {
		return
	}
	face, err := r.fonts.Face(text.Doc.FontFamily, false, false, text.FontSize)
	if err != nil {
		r.log.Warn("skipping text element without usable font", "elementID", node.ElementID, "error", err)
		return
	}

	cx := node.Rect.X + node.Rect.Width/2
	cy := node.Rect.Y + node.Rect.Height/2

	dc.Push()
	defer dc.Pop()
	dc.RotateAbout(gg.Radians(node.Rotation), cx, cy)
	dc.SetFontFace(face)
	if text.Doc.Color != "" {
		dc.SetHexColor(text.Doc.Color)
	} else {
		dc.SetRGB(0, 0, 0)
	}

	if len(text.Doc.Runs) == 0 {
		align := gg.AlignLeft
		switch text.Doc.Align {
		case "center":
			align = gg.AlignCenter
		case "right":
			align = gg.AlignRight
		}
		dc.DrawStringWrapped(text.Doc.Text, node.Rect.X, node.Rect.Y, 0, 0, node.Rect.Width, 1.4, align)
		return
	}

	r.paintStyledRuns(dc, node)
}

// paintStyledRuns draws the document run by run on a single baseline,
// advancing by measured width. Style runs are assumed non-overlapping and in
// order, which is what the authoring client produces.
func (r *Renderer) paintStyledRuns(dc *gg.Context, node *Node) {
	text := node.Text
	chars := []rune(text.Doc.Text)
	x := node.Rect.X
	y := node.Rect.Y + text.FontSize

	cursor := 0
	drawSegment := func(segment string, size float64, bold, italic bool, color string) {
		if segment == "" {
			return
		}
		face, err := r.fonts.Face(text.Doc.FontFamily, bold, italic, size)
		if err != nil {
			r.log.Warn("skipping text run without usable font", "elementID", node.ElementID, "error", err)
			return
		}
		dc.SetFontFace(face)
		if color != "" {
			dc.SetHexColor(color)
		} else if text.Doc.Color != "" {
			dc.SetHexColor(text.Doc.Color)
		} else {
			dc.SetRGB(0, 0, 0)
		}
		dc.DrawString(segment, x, y)
		w, _ := dc.MeasureString(segment)
		x += w
	}

	for i, run := range text.Doc.Runs {
		start, end := run.Start, run.End
		if start > len(chars) {
			start = len(chars)
		}
		if end > len(chars) {
			end = len(chars)
		}
		// Unstyled gap before this run.
		if cursor < start {
			drawSegment(string(chars[cursor:start]), text.FontSize, false, false, "")
		}
		drawSegment(string(chars[start:end]), text.RunSizes[i], run.Bold, run.Italic, run.Color)
		if end > cursor {
			cursor = end
		}
	}
	if cursor < len(chars) {
		drawSegment(string(chars[cursor:]), text.FontSize, false, false, "")
	}
}
