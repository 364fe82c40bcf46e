package screens

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/render/layout"
	"github.com/rook-computer/framekit/internal/section"
	"github.com/rook-computer/framekit/internal/window"
)

const (
	ballRadius   = 16
	hudHeight    = 56
	pauseButtonW = 160
	nudge        = 60.0
)

var (
	ballColor = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xFF}
	hudColor  = color.RGBA{R: 0xFF, G: 0xF3, B: 0x99, A: 0xFF}
)

// Ball is simulated in window coordinates (bottom-left origin) on fixed steps.
type Ball struct {
	X, Y   float64
	VX, VY float64

	prevX, prevY float64
}

// Step advances the ball by dt and bounces it inside w x h.
func (b *Ball) Step(dt float64, w, h int) {
	b.prevX, b.prevY = b.X, b.Y
	b.X += b.VX * dt
	b.Y += b.VY * dt
	minX, maxX := float64(ballRadius), float64(w-ballRadius)
	minY, maxY := float64(ballRadius), float64(h-hudHeight-ballRadius)
	if b.X < minX {
		b.X, b.VX = minX+(minX-b.X), math.Abs(b.VX)
	} else if b.X > maxX {
		b.X, b.VX = maxX-(b.X-maxX), -math.Abs(b.VX)
	}
	if b.Y < minY {
		b.Y, b.VY = minY+(minY-b.Y), math.Abs(b.VY)
	} else if b.Y > maxY {
		b.Y, b.VY = maxY-(b.Y-maxY), -math.Abs(b.VY)
	}
}

// At interpolates between the last two fixed steps.
func (b *Ball) At(fraction float64) (float64, float64) {
	return b.prevX + (b.X-b.prevX)*fraction, b.prevY + (b.Y-b.prevY)*fraction
}

func (b *Ball) Place(x, y float64) {
	b.X, b.Y = x, y
	b.prevX, b.prevY = x, y
}

// PlayView bounces a ball. The top strip is a HUD section and its right end
// is a pause button.
type PlayView struct {
	window.BaseView

	App    Controller
	Logger Logger

	Ball  Ball
	Steps uint64

	hud   *section.Section
	pause *section.Section
}

// NewPlayView builds the view for a width x height window.
func NewPlayView(app Controller, logger Logger, width, height int) (*PlayView, error) {
	v := &PlayView{App: app, Logger: orNoop(logger)}
	v.Ball.Place(float64(width)/2, float64(height-hudHeight)/2)
	v.Ball.VX, v.Ball.VY = 240, 180

	strip := image.Rect(0, height-hudHeight, width, height)
	hudRect, buttonRect := layout.SplitVertical(strip, width-pauseButtonW)

	v.hud = section.NewSection("hud", hudRect.Min.X, hudRect.Min.Y, hudRect.Dx(), hudRect.Dy())
	v.hud.AcceptKeyboard = false
	v.hud.AcceptMouse = false
	v.hud.On(event.Draw, v.drawHUD)

	v.pause = section.NewSection("pause-button", buttonRect.Min.X, buttonRect.Min.Y, buttonRect.Dx(), buttonRect.Dy())
	v.pause.AcceptKeyboard = false
	v.pause.DrawOrder = 1
	v.pause.On(event.Draw, v.drawPauseButton)
	v.pause.On(event.MousePress, func(event.Event) error {
		if err := v.App.Switch(PauseName); err != nil {
			return err
		}
		return event.Stop
	})

	if err := v.AddSection(v.hud, -1); err != nil {
		return nil, err
	}
	if err := v.AddSection(v.pause, -1); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *PlayView) Name() string { return PlayName }

func (v *PlayView) Events() event.Handlers {
	return event.Handlers{
		event.FixedUpdate: v.fixedUpdate,
		event.Draw:        v.draw,
		event.KeyPress:    v.keyPress,
		event.MousePress:  v.mousePress,
	}
}

func (v *PlayView) OnShowView() {
	v.Logger.Infof("screens", "play at fixed t=%.3f", v.Window().FixedTime())
}

func (v *PlayView) fixedUpdate(ev event.Event) error {
	w, h := v.Window().Size()
	v.Ball.Step(ev.Delta, w, h)
	v.Steps++
	return nil
}

func (v *PlayView) keyPress(ev event.Event) error {
	ke, _ := ev.Payload.(input.KeyEvent)
	switch {
	case ke.Key == input.KeySpace || (ke.Key == input.KeyRune && ke.Rune == 'p'):
		if err := v.App.Switch(PauseName); err != nil {
			return err
		}
	case ke.Key == input.KeyLeft:
		v.Ball.VX -= nudge
	case ke.Key == input.KeyRight:
		v.Ball.VX += nudge
	case ke.Key == input.KeyUp:
		v.Ball.VY += nudge
	case ke.Key == input.KeyDown:
		v.Ball.VY -= nudge
	default:
		return nil
	}
	return event.Stop
}

// mousePress only sees clicks outside the sections.
func (v *PlayView) mousePress(ev event.Event) error {
	me, ok := ev.Payload.(input.MouseEvent)
	if !ok {
		return nil
	}
	v.Ball.Place(float64(me.X), float64(me.Y))
	return event.Stop
}

func (v *PlayView) draw(event.Event) error {
	w := v.Window()
	s := w.Surface()
	v.Clear(nil)
	_, height := w.Size()
	x, y := v.Ball.At(w.Fraction())
	cx, cy := int(math.Round(x)), layout.FlipY(int(math.Round(y)), height)
	s.FillRect(image.Rect(cx-ballRadius, cy-ballRadius, cx+ballRadius, cy+ballRadius), ballColor)
	return nil
}

func (v *PlayView) drawHUD(event.Event) error {
	w := v.Window()
	s := w.Surface()
	_, height := w.Size()
	r := v.hud.CanvasRect(height)
	s.FillRect(r, hudColor)
	text := fmt.Sprintf("t %.2f  fixed %.2f  steps %d", w.Time(), w.FixedTime(), v.Steps)
	s.DrawText(text, r.Min.X+12, r.Min.Y+12, render.TextStyle{Size: 24})
	return nil
}

func (v *PlayView) drawPauseButton(event.Event) error {
	w := v.Window()
	s := w.Surface()
	_, height := w.Size()
	r := v.pause.CanvasRect(height)
	s.FillRect(r, ballColor)
	s.DrawText("pause", (r.Min.X+r.Max.X)/2, r.Min.Y+12, render.TextStyle{Size: 24, Color: render.Background, Align: render.TextAlignCenter})
	return nil
}
