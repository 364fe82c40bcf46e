package screens

import (
	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/window"
)

// PauseView freezes play by taking its place: the play view's fixed_update
// is unbound while this view is active. Escape falls through to the window.
type PauseView struct {
	window.BaseView

	App Controller
}

func NewPauseView(app Controller) *PauseView { return &PauseView{App: app} }

func (v *PauseView) Name() string { return PauseName }

func (v *PauseView) Events() event.Handlers {
	return event.Handlers{
		event.Draw:       v.draw,
		event.KeyPress:   v.keyPress,
		event.MousePress: v.resume,
	}
}

func (v *PauseView) keyPress(ev event.Event) error {
	ke, _ := ev.Payload.(input.KeyEvent)
	switch {
	case ke.Key == input.KeySpace || ke.Key == input.KeyEnter || (ke.Key == input.KeyRune && ke.Rune == 'p'):
		return v.resume(ev)
	case ke.Key == input.KeyRune && ke.Rune == 't':
		if err := v.App.Switch(TitleName); err != nil {
			return err
		}
		return event.Stop
	}
	return nil
}

func (v *PauseView) resume(event.Event) error {
	if err := v.App.Switch(PlayName); err != nil {
		return err
	}
	return event.Stop
}

func (v *PauseView) draw(event.Event) error {
	s := v.Window().Surface()
	v.Clear(render.Foreground)
	s.DrawTextCentered("paused", render.TextStyle{Size: 64, Color: render.Background})
	width, height := s.Size()
	s.DrawText("space to resume, t for title", width/2, height*2/3, render.TextStyle{Color: render.Background, Align: render.TextAlignCenter})
	return nil
}
