//go:build !linux

package input

import (
	"context"
	"errors"

	"github.com/rook-computer/framekit/internal/event"
)

type evdevLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EvdevSource is only available on Linux.
type EvdevSource struct {
	Logger evdevLogger
	ch     chan event.Event
}

func NewEvdevSource(logger evdevLogger) *EvdevSource {
	return &EvdevSource{Logger: logger, ch: make(chan event.Event)}
}

func (s *EvdevSource) Start(ctx context.Context) error { return errors.New("evdev requires linux") }
func (s *EvdevSource) Stop() error                     { return nil }
func (s *EvdevSource) Events() <-chan event.Event      { return s.ch }
