//go:build !linux

package system

import "errors"

const (
	kdText     = 0x00
	kdGraphics = 0x01
)

var errNoConsole = errors.New("console mode switching is only supported on linux")

func setMode([]string, int) error { return errNoConsole }

func writeVT([]string, string) error { return errNoConsole }
