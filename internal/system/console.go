// Package system holds the little host integration the framebuffer build
// needs: console mode switching and the address shown on the title view.
package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Console switches the active virtual terminal between text and graphics
// mode so the kernel console does not draw over the framebuffer.
type Console struct {
	// Paths are tried in order; the first that accepts the ioctl wins.
	Paths  []string
	Logger logger

	graphics bool
}

func NewConsole(l logger) *Console {
	return &Console{Paths: []string{"/dev/tty", "/dev/tty0"}, Logger: l}
}

// Enter sets graphics mode and hides the cursor. Failures are logged and
// returned; callers usually carry on without a console.
func (c *Console) Enter() error {
	if err := setMode(c.Paths, kdGraphics); err != nil {
		c.errorf("KD_GRAPHICS failed: %v", err)
		return err
	}
	c.graphics = true
	c.infof("KD_GRAPHICS set")
	if err := writeVT(c.Paths, "\x1b[?25l"); err != nil {
		c.errorf("hide cursor failed: %v", err)
	}
	return nil
}

// Restore undoes Enter. It does nothing if Enter never succeeded.
func (c *Console) Restore() error {
	if !c.graphics {
		return nil
	}
	if err := setMode(c.Paths, kdText); err != nil {
		c.errorf("KD_TEXT failed: %v", err)
		return err
	}
	c.graphics = false
	c.infof("KD_TEXT set")
	if err := writeVT(c.Paths, "\x1b[?25h"); err != nil {
		c.errorf("show cursor failed: %v", err)
	}
	return nil
}

func (c *Console) InGraphicsMode() bool { return c.graphics }

func (c *Console) infof(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Infof("tty", format, args...)
	}
}

func (c *Console) errorf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Errorf("tty", format, args...)
	}
}
