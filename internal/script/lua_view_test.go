package script

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/loop"
	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/window"
)

type memLogger struct{ lines []string }

func (m *memLogger) Infof(component, format string, args ...interface{}) {
	m.lines = append(m.lines, component+": "+fmt.Sprintf(format, args...))
}

func (m *memLogger) Errorf(component, format string, args ...interface{}) {
	m.lines = append(m.lines, "ERROR "+component+": "+fmt.Sprintf(format, args...))
}

func newWindow(t *testing.T) *window.Window {
	t.Helper()
	w, err := window.New(loop.New(), render.NewImageSurface(64, 48, nil), window.DefaultConfig())
	if err != nil {
		t.Fatalf("window.New: %v", err)
	}
	return w
}

const counterScript = `
updates = 0
fixed = 0
shown = false

function on_update(dt)
  updates = updates + 1
end

function on_fixed_update(dt)
  fixed = fixed + 1
  last_fixed_time = frame.fixed_time()
end

function on_key_press(dt, key)
  last_key = key.key
  return key.key == "space"
end

function on_draw(dt)
  frame.clear()
  frame.rect(0, 0, 10, 10, "#ff0000")
  frame.text("hi", 0, 20)
end

function on_show_view()
  shown = true
  frame.log("hello")
end
`

func number(t *testing.T, v *LuaView, name string) float64 {
	t.Helper()
	n, ok := v.Global(name).(lua.LNumber)
	if !ok {
		t.Fatalf("global %s = %v, not a number", name, v.Global(name))
	}
	return float64(n)
}

func TestCapabilityTableFromGlobals(t *testing.T) {
	v, err := LoadString("counter", counterScript)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer v.Close()

	got := v.Events()
	for _, name := range []event.Name{event.Update, event.FixedUpdate, event.KeyPress, event.Draw} {
		if got[name] == nil {
			t.Errorf("%s not bound", name)
		}
	}
	if got[event.MousePress] != nil || len(got) != 4 {
		t.Errorf("unexpected handlers: %v", got.Names())
	}
}

func TestLuaViewOnWindow(t *testing.T) {
	log := &memLogger{}
	v, err := LoadString("counter", counterScript, WithLogger(log))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	defer v.Close()

	w := newWindow(t)
	if err := w.ShowView(v); err != nil {
		t.Fatalf("ShowView: %v", err)
	}
	if v.Global("shown") != lua.LTrue {
		t.Error("on_show_view did not run")
	}
	if len(log.lines) == 0 || !strings.Contains(log.lines[len(log.lines)-1], "counter: hello") {
		t.Errorf("log = %v", log.lines)
	}

	if err := w.Test(3); err != nil {
		t.Fatalf("Test: %v", err)
	}
	if number(t, v, "updates") != 3 || number(t, v, "fixed") != 3 {
		t.Errorf("updates=%v fixed=%v", v.Global("updates"), v.Global("fixed"))
	}
	if got := number(t, v, "last_fixed_time"); got < 3.0/60-1e-9 || got > 3.0/60+1e-9 {
		t.Errorf("fixed_time = %v", got)
	}

	handled, err := w.Dispatch(input.Press(input.KeyEvent{Key: input.KeySpace, Rune: ' '}))
	if err != nil || !handled {
		t.Errorf("space: handled=%v err=%v", handled, err)
	}
	handled, _ = w.Dispatch(input.Press(input.KeyEvent{Key: input.KeyRune, Rune: 'x'}))
	if handled {
		t.Error("x should not be consumed")
	}
	if v.Global("last_key").String() != "x" {
		t.Errorf("last_key = %v", v.Global("last_key"))
	}
}

func TestLuaErrorPropagates(t *testing.T) {
	v, err := LoadString("bad", `function on_fixed_update(dt) error("exploded") end`)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	w := newWindow(t)
	w.ShowView(v)
	err = w.DispatchUpdates(1.0 / 60)
	if err == nil || !strings.Contains(err.Error(), "exploded") {
		t.Fatalf("err = %v, want lua error", err)
	}
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		t.Errorf("err does not wrap *lua.ApiError: %T", err)
	}
}

func TestSyntaxErrorFailsLoad(t *testing.T) {
	if _, err := LoadString("broken", `function (`); err == nil {
		t.Error("expected syntax error")
	}
}

func TestUnsafeLibrariesAreMissing(t *testing.T) {
	v, err := LoadString("sandbox", `has_os = os ~= nil; has_io = io ~= nil; has_dofile = dofile ~= nil`)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	for _, name := range []string{"has_os", "has_io", "has_dofile"} {
		if v.Global(name) != lua.LFalse {
			t.Errorf("%s = %v", name, v.Global(name))
		}
	}
}

func TestRequireCannotReadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "outside.lua"), []byte(`return "loaded-from-disk"`), 0o644); err != nil {
		t.Fatal(err)
	}
	src := fmt.Sprintf(`
package.path = %q
ok, got = pcall(require, "outside")
local f = require("frame")
has_frame = f ~= nil
`, filepath.Join(dir, "?.lua"))
	v, err := LoadString("sandbox", src)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	if v.Global("ok") != lua.LFalse {
		t.Errorf("require of a file on disk succeeded: got = %v", v.Global("got"))
	}
	if v.Global("has_frame") != lua.LTrue {
		t.Errorf("has_frame = %v, want true", v.Global("has_frame"))
	}
}

func TestShowNavigates(t *testing.T) {
	var asked []string
	nav := func(name string) error {
		asked = append(asked, name)
		if name == "missing" {
			return errors.New("no such view")
		}
		return nil
	}
	v, err := LoadString("menu", `
local f = require("frame")
function on_action(dt, a)
  f.show(a.name)
end
`, WithNavigator(nav))
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	w := newWindow(t)
	w.ShowView(v)

	if _, err := w.Dispatch(event.Event{Name: event.Action, Payload: input.ActionEvent{Name: "play", Pressed: true}}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	_, err = w.Dispatch(event.Event{Name: event.Action, Payload: input.ActionEvent{Name: "missing"}})
	if err == nil || !strings.Contains(err.Error(), "no such view") {
		t.Errorf("err = %v", err)
	}
	if len(asked) != 2 || asked[0] != "play" {
		t.Errorf("asked = %v", asked)
	}
}

func TestHookErrorIsRecorded(t *testing.T) {
	v, err := LoadString("hook", `function on_show() error("nope") end`)
	if err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	w := newWindow(t)
	if err := w.ShowView(v); err != nil {
		t.Fatal(err)
	}
	if v.Err() == nil || !strings.Contains(v.Err().Error(), "nope") {
		t.Errorf("Err = %v", v.Err())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "title.lua")
	if err := os.WriteFile(path, []byte(`function on_draw() end`), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer v.Close()
	if v.Name() != "title" || window.ViewName(v) != "title" {
		t.Errorf("Name = %q", v.Name())
	}
}
