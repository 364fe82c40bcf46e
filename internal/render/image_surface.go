package render

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
)

// ImageSurface keeps frames offscreen. It can write every Nth frame to a PNG.
type ImageSurface struct {
	*Canvas

	// SnapshotDir receives frame-%06d.png files when SnapshotEvery > 0.
	SnapshotDir   string
	SnapshotEvery int

	frames int
}

func NewImageSurface(width, height int, logger canvasLogger) *ImageSurface {
	return &ImageSurface{Canvas: NewCanvas(width, height, logger)}
}

func (s *ImageSurface) Start(ctx context.Context) error {
	if s.SnapshotEvery > 0 && s.SnapshotDir != "" {
		return os.MkdirAll(s.SnapshotDir, 0o755)
	}
	return nil
}

func (s *ImageSurface) Flip() error {
	s.frames++
	if s.SnapshotEvery <= 0 || s.SnapshotDir == "" || s.frames%s.SnapshotEvery != 0 {
		return nil
	}
	path := filepath.Join(s.SnapshotDir, fmt.Sprintf("frame-%06d.png", s.frames))
	return s.SavePNG(path)
}

func (s *ImageSurface) Stop() error { return nil }

// Frames is the number of presented frames.
func (s *ImageSurface) Frames() int { return s.frames }

func (s *ImageSurface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.Image())
}

func (s *ImageSurface) SavePNG(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if err := s.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
