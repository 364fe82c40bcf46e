package render

import (
	"context"
	"image"
	"image/color"

	fb "github.com/gonutz/framebuffer"
)

// FBRenderer presents a logical canvas on the Linux framebuffer.
type FBRenderer struct {
	*Canvas

	Device string
	Debug  bool

	fbDev  *fb.Device
	frames uint64
}

func NewFBRenderer(logger canvasLogger) *FBRenderer {
	return &FBRenderer{
		Canvas: NewCanvas(CanvasWidth, CanvasHeight, logger),
		Device: "/dev/fb0",
	}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	dev, err := fb.Open(r.Device)
	if err != nil {
		return err
	}
	r.fbDev = dev
	if r.Logger != nil {
		bounds := dev.Bounds()
		r.Logger.Infof("fb", "framebuffer open, bounds=%dx%d", bounds.Dx(), bounds.Dy())
	}
	return nil
}

func (r *FBRenderer) Flip() error {
	if r.fbDev == nil {
		return nil
	}
	blitToFB(r.fbDev, r.Image())
	r.frames++
	if r.Debug && r.Logger != nil && r.frames%300 == 0 {
		r.Logger.Infof("fb", "presented %d frames", r.frames)
	}
	return nil
}

func (r *FBRenderer) Stop() error {
	if r.fbDev != nil {
		r.fbDev.Close()
		r.fbDev = nil
	}
	return nil
}

// blitToFB copies canvas to the device with nearest-neighbor scaling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) {
	bounds := dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	cb := canvas.Bounds()
	for y := 0; y < fbHeight; y++ {
		sy := cb.Min.Y + (y*cb.Dy())/fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := cb.Min.X + (x*cb.Dx())/fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}
