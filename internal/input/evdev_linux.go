//go:build linux

package input

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rook-computer/framekit/internal/event"
	"golang.org/x/sys/unix"
)

type evdevLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EvdevSource reads key events from every /dev/input/event* device.
type EvdevSource struct {
	Glob   string
	Logger evdevLogger

	ch     chan event.Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEvdevSource(logger evdevLogger) *EvdevSource {
	return &EvdevSource{Glob: "/dev/input/event*", Logger: logger, ch: make(chan event.Event, 64)}
}

func (s *EvdevSource) Events() <-chan event.Event { return s.ch }

// Start is best-effort: with no readable devices it logs and returns an error,
// and the caller may keep running without keyboard input.
func (s *EvdevSource) Start(ctx context.Context) error {
	tvSize := binary.Size(unix.Timeval{})
	if tvSize <= 0 {
		tvSize = 16
	}

	paths, err := filepath.Glob(s.Glob)
	if err != nil || len(paths) == 0 {
		if s.Logger != nil {
			s.Logger.Infof("input", "no evdev devices found under %s", s.Glob)
		}
		return errors.New("no evdev devices")
	}

	readCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, path := range paths {
		s.wg.Add(1)
		go s.read(readCtx, path, tvSize)
	}
	return nil
}

func (s *EvdevSource) read(ctx context.Context, path string, tvSize int) {
	defer s.wg.Done()

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			if s.Logger != nil {
				s.Logger.Errorf("input", "read %s: %v", path, err)
			}
			return
		}
		for _, ev := range parseEvdev(buf[:n], tvSize) {
			select {
			case s.ch <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *EvdevSource) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}
