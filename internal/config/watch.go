package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Watch reloads path whenever it changes and passes valid results to fn.
// It watches the parent directory so editors that replace the file by rename
// are seen too. Watch blocks until ctx is done; fn runs on the watch goroutine.
func Watch(ctx context.Context, path string, fn func(File), log logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if log != nil {
				log.Errorf("config", "watch error: %v", err)
			}
		case <-timer.C:
			f, err := Load(abs)
			if err == nil {
				err = f.Validate()
			}
			if err != nil {
				if log != nil {
					log.Errorf("config", "reload %s ignored: %v", abs, err)
				}
				continue
			}
			if log != nil {
				log.Infof("config", "reloaded %s", abs)
			}
			fn(f)
		}
	}
}
