// Package screens holds the built-in views: a title card with the status QR
// code, a bouncing-ball playfield and a pause overlay.
package screens

import (
	"github.com/rook-computer/framekit/internal/state"
)

const (
	TitleName = "title"
	PlayName  = "play"
	PauseName = "pause"
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Controller is implemented by the host application. Views call Switch from
// their handlers, which run on the loop goroutine.
type Controller interface {
	Switch(name string) error
	Exit(err error)
}

// StatusSource is typically a *state.Store.
type StatusSource interface {
	Snapshot() state.State
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

func orNoop(l Logger) Logger {
	if l == nil {
		return noopLogger{}
	}
	return l
}
