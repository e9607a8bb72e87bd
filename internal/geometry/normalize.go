// Package geometry converts between absolute canvas pixels and the
// percentage-based coordinates stored on slide elements. Persisted geometry
// is always resolution-independent: an element at (50, 50) percent sits in
// the middle of the canvas no matter what size the canvas is rendered at.
package geometry

// ToPercent converts an absolute pixel value to a percentage of the given
// canvas dimension.
func ToPercent(absolute, canvasDimension float64) float64 {
	return absolute / canvasDimension * 100
}

// ToAbsolute converts a stored percentage back to pixels for the given
// canvas dimension.
func ToAbsolute(percent, canvasDimension float64) float64 {
	return percent / 100 * canvasDimension
}

// Size is a canvas or element extent in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Rect is absolute pixel geometry on a canvas: top-left position plus extent.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// PercentRect is the persisted form of Rect: every field is a percentage of
// the corresponding canvas dimension (x/width against canvas width, y/height
// against canvas height).
type PercentRect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ToAbsoluteRect resolves a persisted rect against a concrete canvas size.
func ToAbsoluteRect(p PercentRect, canvas Size) Rect {
	return Rect{
		X:      ToAbsolute(p.X, canvas.Width),
		Y:      ToAbsolute(p.Y, canvas.Height),
		Width:  ToAbsolute(p.Width, canvas.Width),
		Height: ToAbsolute(p.Height, canvas.Height),
	}
}

// ToPercentRect normalizes absolute pixel geometry for persistence.
func ToPercentRect(r Rect, canvas Size) PercentRect {
	return PercentRect{
		X:      ToPercent(r.X, canvas.Width),
		Y:      ToPercent(r.Y, canvas.Height),
		Width:  ToPercent(r.Width, canvas.Width),
		Height: ToPercent(r.Height, canvas.Height),
	}
}

// FontToAbsolute resolves a percent font size to pixels. Font sizes are
// normalized against canvas width only, so text scale tracks horizontal
// resolution. That matches the persisted data produced by existing clients;
// see the style-run model in internal/domain.
func FontToAbsolute(percent float64, canvas Size) float64 {
	return ToAbsolute(percent, canvas.Width)
}

// FontToPercent normalizes an absolute pixel font size for persistence.
func FontToPercent(pixels float64, canvas Size) float64 {
	return ToPercent(pixels, canvas.Width)
}

// ClampPercent snaps a percentage into the storable 0-100 range.
func ClampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
