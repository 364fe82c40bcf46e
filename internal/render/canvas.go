package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const defaultFontSize = 32

type canvasLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Canvas is an offscreen RGBA image implementing Drawer. Surfaces embed it and
// only add the presenting step.
type Canvas struct {
	Logger canvasLogger

	img      *image.RGBA
	fontFace font.Face
	ttFont   *truetype.Font
	faces    map[int]font.Face
}

func NewCanvas(width, height int, logger canvasLogger) *Canvas {
	c := &Canvas{Logger: logger, faces: make(map[int]font.Face)}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.loadFonts()
	return c
}

func (c *Canvas) loadFonts() {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		c.fontFace = basicfont.Face7x13
		c.errorf("font parse failed, using basicfont: %v", err)
	} else {
		face, ferr := opentype.NewFace(fnt, &opentype.FaceOptions{Size: defaultFontSize, DPI: 72, Hinting: font.HintingFull})
		if ferr != nil {
			c.fontFace = basicfont.Face7x13
			c.errorf("font face create failed, using basicfont: %v", ferr)
		} else {
			c.fontFace = face
		}
	}
	// Sized faces come from the freetype rasterizer.
	if tt, terr := truetype.Parse(goregular.TTF); terr != nil {
		c.errorf("truetype parse failed: %v", terr)
	} else {
		c.ttFont = tt
	}
}

func (c *Canvas) errorf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Errorf("canvas", format, args...)
	}
}

// Image exposes the backing image. It is reallocated by Resize.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize reallocates the canvas; its content is lost.
func (c *Canvas) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

func (c *Canvas) Clear(col color.Color) {
	if col == nil {
		col = Background
	}
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

func (c *Canvas) FillRect(rect image.Rectangle, col color.Color) {
	if col == nil {
		col = Foreground
	}
	draw.Draw(c.img, rect.Intersect(c.img.Bounds()), &image.Uniform{C: col}, image.Point{}, draw.Over)
}

func (c *Canvas) face(size int) font.Face {
	if size <= 0 || c.ttFont == nil {
		return c.fontFace
	}
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.ttFont, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	c.faces[size] = f
	return f
}

func (c *Canvas) MeasureText(text string, style TextStyle) TextMetrics {
	face := c.face(style.Size)
	metrics := face.Metrics()
	width := font.MeasureString(face, text).Ceil()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()
	return TextMetrics{
		Width:      width,
		Height:     ascent + descent,
		Ascent:     ascent,
		Descent:    descent,
		LineHeight: metrics.Height.Ceil(),
	}
}

func (c *Canvas) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	m := c.MeasureText(text, style)
	switch style.Align {
	case TextAlignCenter:
		x -= m.Width / 2
	case TextAlignRight:
		x -= m.Width
	}
	fg := style.Color
	if fg == nil {
		fg = Foreground
	}
	drawer := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(fg),
		Face: c.face(style.Size),
		Dot:  fixed.P(x, y+m.Ascent),
	}
	drawer.DrawString(text)
	return m
}

// DrawTextCentered draws text in the middle of the canvas.
func (c *Canvas) DrawTextCentered(text string, style TextStyle) TextMetrics {
	width, height := c.Size()
	m := c.MeasureText(text, style)
	style.Align = TextAlignCenter
	return c.DrawText(text, width/2, (height-m.Height)/2, style)
}

func (c *Canvas) ImageSize(img image.Image) (int, int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) DrawImage(img image.Image, x, y int, opts ImageOpts) {
	if img == nil {
		return
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	w, h := c.ImageSize(img)
	dst := image.Rect(x, y, x+int(float64(w)*scale), y+int(float64(h)*scale))
	xdraw.NearestNeighbor.Scale(c.img, dst, img, img.Bounds(), xdraw.Over, nil)
}

func (c *Canvas) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {
	if img == nil || rect.Empty() {
		return
	}
	w, h := c.ImageSize(img)
	if w == 0 || h == 0 {
		return
	}
	dst := rect
	switch mode {
	case ScaleModeFit, ScaleModeFill:
		sx := float64(rect.Dx()) / float64(w)
		sy := float64(rect.Dy()) / float64(h)
		scale := sx
		if (mode == ScaleModeFit && sy < sx) || (mode == ScaleModeFill && sy > sx) {
			scale = sy
		}
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		minX := rect.Min.X + (rect.Dx()-dw)/2
		minY := rect.Min.Y + (rect.Dy()-dh)/2
		dst = image.Rect(minX, minY, minX+dw, minY+dh)
	}
	// Fill may overflow rect; clip to it.
	target := c.img.SubImage(rect).(*image.RGBA)
	xdraw.NearestNeighbor.Scale(target, dst, img, img.Bounds(), xdraw.Over, nil)
}
