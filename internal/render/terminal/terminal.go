// Package terminal presents the canvas in a text terminal with half-block
// cells and turns terminal keys and mouse reports into window events.
package terminal

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/render"
)

const halfBlock = '▀'

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Surface is both a render.Surface and an input.Source. The canvas keeps its
// logical size; Flip samples it down to the current cell grid.
type Surface struct {
	*render.Canvas

	Logger logger

	screen tcell.Screen
	events chan event.Event
	mouse  mouseTracker

	mu   sync.Mutex
	cols int
	rows int

	wg      sync.WaitGroup
	stopped chan struct{}
	once    sync.Once
}

func New(width, height int, logger logger) (*Surface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, width, height, logger), nil
}

// NewWithScreen wraps an existing screen, such as tcell's simulation screen.
func NewWithScreen(screen tcell.Screen, width, height int, logger logger) *Surface {
	return &Surface{
		Canvas:  render.NewCanvas(width, height, logger),
		Logger:  logger,
		screen:  screen,
		events:  make(chan event.Event, 64),
		stopped: make(chan struct{}),
	}
}

func (s *Surface) Start(ctx context.Context) error {
	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnableMouse()
	s.screen.HideCursor()

	s.mu.Lock()
	s.cols, s.rows = s.screen.Size()
	s.mu.Unlock()

	if s.Logger != nil {
		s.Logger.Infof("terminal", "screen ready, cells=%dx%d colors=%d", s.cols, s.rows, s.screen.Colors())
	}

	s.wg.Add(1)
	go s.poll(ctx)
	return nil
}

func (s *Surface) poll(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.events)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			// Fini was called.
			return
		}
		for _, out := range s.convert(ev) {
			select {
			case s.events <- out:
			case <-ctx.Done():
				return
			case <-s.stopped:
				return
			}
		}
	}
}

func (s *Surface) convert(ev tcell.Event) []event.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyCtrlC {
			return []event.Event{{Name: event.Close}}
		}
		ke, ok := convertKey(e)
		if !ok {
			return nil
		}
		// Terminals do not report releases.
		return []event.Event{input.Press(ke)}
	case *tcell.EventMouse:
		cx, cy := e.Position()
		x, y := s.cellToCanvas(cx, cy)
		return s.mouse.update(x, y, e.Buttons(), convertMods(e.Modifiers()))
	case *tcell.EventResize:
		cols, rows := e.Size()
		s.mu.Lock()
		s.cols, s.rows = cols, rows
		s.mu.Unlock()
		s.screen.Sync()
	}
	return nil
}

// cellToCanvas maps a cell to the canvas pixel at its centre, bottom-left origin.
func (s *Surface) cellToCanvas(cx, cy int) (int, int) {
	s.mu.Lock()
	cols, rows := s.cols, s.rows
	s.mu.Unlock()
	w, h := s.Size()
	return cellToCanvas(cx, cy, cols, rows, w, h)
}

func cellToCanvas(cx, cy, cols, rows, w, h int) (int, int) {
	if cols <= 0 || rows <= 0 {
		return 0, 0
	}
	x := (2*cx + 1) * w / (2 * cols)
	top := (2*cy + 1) * h / (2 * rows)
	return x, h - top
}

func (s *Surface) Events() <-chan event.Event { return s.events }

func (s *Surface) Flip() error {
	s.mu.Lock()
	cols, rows := s.cols, s.rows
	s.mu.Unlock()

	img := s.Image()
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top, bottom := sampleCell(img, cx, cy, cols, rows)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			s.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	s.screen.Show()
	return nil
}

// Resize only changes the canvas; the cell grid follows the terminal.
func (s *Surface) Resize(width, height int) {
	s.Canvas.Resize(width, height)
}

func (s *Surface) Stop() error {
	s.once.Do(func() {
		close(s.stopped)
		s.screen.Fini()
	})
	s.wg.Wait()
	return nil
}
