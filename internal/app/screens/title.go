package screens

import (
	"image"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/render/layout"
	"github.com/rook-computer/framekit/internal/window"
)

const titleQRSizePx = 240

// TitleView shows the title and, once the network is known, a QR code for
// the web UI. Enter or a click starts play.
type TitleView struct {
	window.BaseView

	App    Controller
	Status StatusSource
	Logger Logger

	qrURL   string
	qrImage image.Image
	shown   int
}

func NewTitleView(app Controller, status StatusSource, logger Logger) *TitleView {
	return &TitleView{App: app, Status: status, Logger: orNoop(logger)}
}

func (v *TitleView) Name() string { return TitleName }

func (v *TitleView) Events() event.Handlers {
	return event.Handlers{
		event.Draw:       v.draw,
		event.KeyPress:   v.keyPress,
		event.MousePress: v.mousePress,
	}
}

func (v *TitleView) OnShowView() {
	v.shown++
	v.Logger.Infof("screens", "title shown (%d)", v.shown)
}

// Shown counts activations.
func (v *TitleView) Shown() int { return v.shown }

func (v *TitleView) keyPress(ev event.Event) error {
	ke, _ := ev.Payload.(input.KeyEvent)
	switch ke.Key {
	case input.KeyEnter, input.KeySpace:
		return v.play()
	}
	return nil
}

func (v *TitleView) mousePress(event.Event) error { return v.play() }

func (v *TitleView) play() error {
	if err := v.App.Switch(PlayName); err != nil {
		return err
	}
	return event.Stop
}

func (v *TitleView) draw(event.Event) error {
	w := v.Window()
	s := w.Surface()
	v.Clear(nil)

	width, height := s.Size()
	s.DrawText(w.Title(), width/2, height/6, render.TextStyle{Size: 64, Align: render.TextAlignCenter})
	s.DrawText("press enter to play", width/2, height/6+96, render.TextStyle{Align: render.TextAlignCenter})

	url := ""
	if v.Status != nil {
		url = v.Status.Snapshot().Network.URL
	}
	if url == "" {
		return nil
	}
	if url != v.qrURL {
		img, err := render.GenerateQRCodeImage(url, titleQRSizePx)
		if err != nil {
			v.Logger.Errorf("screens", "qr code for %s: %v", url, err)
			img = nil
		}
		v.qrURL, v.qrImage = url, img
	}
	if v.qrImage != nil {
		// Lower half, centered.
		_, lower := layout.SplitHorizontal(image.Rect(0, 0, width, height), height/2)
		s.DrawImageInRect(v.qrImage, layout.Inset(lower, 16), render.ScaleModeFit)
	}
	m := s.MeasureText(url, render.TextStyle{Size: 20})
	s.DrawText(url, width/2, height-m.Height-8, render.TextStyle{Size: 20, Align: render.TextAlignCenter})
	return nil
}
