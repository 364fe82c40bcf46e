package render

import (
	"context"
	"image"
	"image/color"
)

// Drawer is what views draw with. Coordinates are canvas pixels with a
// top-left origin.
type Drawer interface {
	// Size returns the logical canvas size (in pixels).
	Size() (width int, height int)

	Clear(c color.Color)
	FillRect(rect image.Rectangle, c color.Color)

	// Text primitives. Y is the top of the text box; Align controls how x is read.
	MeasureText(text string, style TextStyle) TextMetrics
	DrawText(text string, x, y int, style TextStyle) TextMetrics
	DrawTextCentered(text string, style TextStyle) TextMetrics

	// Image primitives.
	ImageSize(img image.Image) (width int, height int)
	DrawImage(img image.Image, x, y int, opts ImageOpts)
	DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode)
}

// Surface is the graphics host a window presents to.
type Surface interface {
	Drawer
	Start(ctx context.Context) error
	// Flip presents the frame drawn since the previous Flip.
	Flip() error
	Resize(width, height int)
	Stop() error
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how to render text.
type TextStyle struct {
	Color color.Color
	Size  int // font size in points; 0 means the canvas default
	Align TextAlign
}

type TextMetrics struct {
	Width      int
	Height     int
	Ascent     int
	Descent    int
	LineHeight int
}

type ScaleMode int

const (
	ScaleModeFit ScaleMode = iota
	ScaleModeFill
	ScaleModeStretch
)

type ImageOpts struct {
	// Scale multiplies the image size; 0 means 1.
	Scale float64
}

// NoopSurface accepts every call and draws nothing.
type NoopSurface struct {
	Width, Height int
	Flips         int
}

func (n *NoopSurface) Start(ctx context.Context) error              { return nil }
func (n *NoopSurface) Flip() error                                  { n.Flips++; return nil }
func (n *NoopSurface) Resize(width, height int)                     { n.Width, n.Height = width, height }
func (n *NoopSurface) Stop() error                                  { return nil }
func (n *NoopSurface) Size() (int, int)                             { return n.Width, n.Height }
func (n *NoopSurface) Clear(c color.Color)                          {}
func (n *NoopSurface) FillRect(rect image.Rectangle, c color.Color) {}
func (n *NoopSurface) MeasureText(text string, style TextStyle) TextMetrics {
	return TextMetrics{}
}
func (n *NoopSurface) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	return TextMetrics{}
}
func (n *NoopSurface) DrawTextCentered(text string, style TextStyle) TextMetrics {
	return TextMetrics{}
}
func (n *NoopSurface) ImageSize(img image.Image) (int, int) {
	b := img.Bounds()
	return b.Dx(), b.Dy()
}
func (n *NoopSurface) DrawImage(img image.Image, x, y int, opts ImageOpts)                   {}
func (n *NoopSurface) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {}
