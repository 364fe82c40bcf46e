// Package script lets a Lua file act as a view. The script defines
// on_<event> globals; the view's capability table is built from the ones
// present when the script is loaded.
package script

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/window"
)

var ErrClosed = errors.New("script closed")

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Navigator switches the window to a registered view by name.
type Navigator func(name string) error

type Option func(*LuaView)

func WithLogger(l logger) Option {
	return func(v *LuaView) {
		if l != nil {
			v.logger = l
		}
	}
}

func WithNavigator(n Navigator) Option {
	return func(v *LuaView) { v.navigate = n }
}

// LuaView runs a script on the loop goroutine. gopher-lua states are not
// goroutine-safe, so the view must only be driven by its window.
type LuaView struct {
	window.BaseView

	name     string
	L        *lua.LState
	logger   logger
	navigate Navigator

	handlers event.Handlers
	hooks    map[string]*lua.LFunction
	err      error
	closed   bool
}

// Load reads and runs the script at path. The view is named after the file.
func Load(path string, opts ...Option) (*LuaView, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return LoadString(name, string(src), opts...)
}

func LoadString(name, src string, opts ...Option) (*LuaView, error) {
	v := &LuaView{
		name:   name,
		logger: noopLogger{},
		hooks:  make(map[string]*lua.LFunction),
	}
	for _, opt := range opts {
		opt(v)
	}

	v.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(v.L)
	v.L.PreloadModule("frame", v.loadFrameModule)
	v.L.SetGlobal("frame", v.frameTable(v.L))

	if err := v.L.DoString(src); err != nil {
		v.L.Close()
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	v.bind()
	return v, nil
}

// openSafeLibraries leaves out io, os and debug. require only resolves
// preloaded modules such as frame.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	pkg, ok := L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}
	pkg.RawSetString("path", lua.LString(""))
	pkg.RawSetString("cpath", lua.LString(""))
	// require walks this same table; entry 1 is the preload searcher and the
	// rest read from disk.
	if loaders, ok := pkg.RawGetString("loaders").(*lua.LTable); ok {
		for i := loaders.Len(); i > 1; i-- {
			loaders.RawSetInt(i, lua.LNil)
		}
	}
}

func (v *LuaView) bind() {
	v.handlers = make(event.Handlers)
	for _, name := range event.DefaultNames() {
		if name == event.Show {
			continue
		}
		if fn, ok := v.L.GetGlobal("on_" + string(name)).(*lua.LFunction); ok {
			v.handlers[name] = v.handler(fn)
		}
	}
	for _, hook := range []string{"on_show", "on_show_view", "on_hide_view"} {
		if fn, ok := v.L.GetGlobal(hook).(*lua.LFunction); ok {
			v.hooks[hook] = fn
		}
	}
}

func (v *LuaView) handler(fn *lua.LFunction) event.Handler {
	return func(ev event.Event) error {
		if v.closed {
			return ErrClosed
		}
		args := []lua.LValue{lua.LNumber(ev.Delta), payloadTable(v.L, ev.Payload)}
		if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return fmt.Errorf("script %s: %s: %w", v.name, ev.Name, err)
		}
		ret := v.L.Get(-1)
		v.L.Pop(1)
		if lua.LVAsBool(ret) {
			return event.Stop
		}
		return nil
	}
}

func (v *LuaView) callHook(name string) {
	fn := v.hooks[name]
	if fn == nil || v.closed {
		return
	}
	if err := v.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		v.err = fmt.Errorf("script %s: %s: %w", v.name, name, err)
		v.logger.Errorf("script", "%v", v.err)
	}
}

func (v *LuaView) Name() string           { return v.name }
func (v *LuaView) Events() event.Handlers { return v.handlers }
func (v *LuaView) OnShow()                { v.callHook("on_show") }
func (v *LuaView) OnShowView()            { v.callHook("on_show_view") }
func (v *LuaView) OnHideView()            { v.callHook("on_hide_view") }

// Err returns the last error raised by a lifecycle hook.
func (v *LuaView) Err() error { return v.err }

// Global reads a script global, mostly for tests and status output.
func (v *LuaView) Global(name string) lua.LValue { return v.L.GetGlobal(name) }

func (v *LuaView) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.L.Close()
}

func payloadTable(L *lua.LState, payload any) lua.LValue {
	t := L.NewTable()
	switch p := payload.(type) {
	case input.KeyEvent:
		t.RawSetString("key", lua.LString(p.Name()))
		t.RawSetString("shift", lua.LBool(p.Mods.Has(input.ModShift)))
		t.RawSetString("ctrl", lua.LBool(p.Mods.Has(input.ModCtrl)))
		t.RawSetString("alt", lua.LBool(p.Mods.Has(input.ModAlt)))
	case input.MouseEvent:
		t.RawSetString("x", lua.LNumber(p.X))
		t.RawSetString("y", lua.LNumber(p.Y))
		t.RawSetString("dx", lua.LNumber(p.DX))
		t.RawSetString("dy", lua.LNumber(p.DY))
		t.RawSetString("button", lua.LNumber(p.Button))
		t.RawSetString("scroll_x", lua.LNumber(p.ScrollX))
		t.RawSetString("scroll_y", lua.LNumber(p.ScrollY))
	case input.ResizeEvent:
		t.RawSetString("width", lua.LNumber(p.Width))
		t.RawSetString("height", lua.LNumber(p.Height))
	case input.ActionEvent:
		t.RawSetString("name", lua.LString(p.Name))
		t.RawSetString("pressed", lua.LBool(p.Pressed))
	case nil:
		return lua.LNil
	}
	return t
}

func (v *LuaView) loadFrameModule(L *lua.LState) int {
	L.Push(v.frameTable(L))
	return 1
}

func (v *LuaView) frameTable(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"time":       v.clockFunc(func(w *window.Window) float64 { return w.Time() }),
		"delta_time": v.clockFunc(func(w *window.Window) float64 { return w.DeltaTime() }),
		"fixed_time": v.clockFunc(func(w *window.Window) float64 { return w.FixedTime() }),
		"fraction":   v.clockFunc(func(w *window.Window) float64 { return w.Fraction() }),
		"size":       v.luaSize,
		"log":        v.luaLog,
		"clear":      v.luaClear,
		"text":       v.luaText,
		"rect":       v.luaRect,
		"show":       v.luaShow,
	})
}

func (v *LuaView) clockFunc(read func(*window.Window) float64) lua.LGFunction {
	return func(L *lua.LState) int {
		w := v.Window()
		if w == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(read(w)))
		return 1
	}
}

func (v *LuaView) luaSize(L *lua.LState) int {
	width, height := 0, 0
	if w := v.Window(); w != nil {
		width, height = w.Size()
	}
	L.Push(lua.LNumber(width))
	L.Push(lua.LNumber(height))
	return 2
}

func (v *LuaView) luaLog(L *lua.LState) int {
	v.logger.Infof("script", "%s: %s", v.name, L.CheckString(1))
	return 0
}

func (v *LuaView) luaClear(L *lua.LState) int {
	w := v.Window()
	if w == nil {
		return 0
	}
	c, err := optColor(L, 1, nil)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	w.Clear(c)
	return 0
}

// text(str, x, y [, size [, color]]) draws at canvas pixels, top-left origin.
func (v *LuaView) luaText(L *lua.LState) int {
	str := L.CheckString(1)
	x := L.CheckInt(2)
	y := L.CheckInt(3)
	size := L.OptInt(4, 0)
	c, err := optColor(L, 5, render.Foreground)
	if err != nil {
		L.ArgError(5, err.Error())
		return 0
	}
	w := v.Window()
	if w == nil {
		return 0
	}
	m := w.Surface().DrawText(str, x, y, render.TextStyle{Color: c, Size: size})
	L.Push(lua.LNumber(m.Width))
	return 1
}

// rect(x, y, w, h [, color]) fills canvas pixels, top-left origin.
func (v *LuaView) luaRect(L *lua.LState) int {
	x, y := L.CheckInt(1), L.CheckInt(2)
	width, height := L.CheckInt(3), L.CheckInt(4)
	c, err := optColor(L, 5, render.Foreground)
	if err != nil {
		L.ArgError(5, err.Error())
		return 0
	}
	if w := v.Window(); w != nil {
		w.Surface().FillRect(image.Rect(x, y, x+width, y+height), c)
	}
	return 0
}

func (v *LuaView) luaShow(L *lua.LState) int {
	name := L.CheckString(1)
	if v.navigate == nil {
		L.RaiseError("frame.show: no navigator for %q", name)
		return 0
	}
	if err := v.navigate(name); err != nil {
		L.RaiseError("frame.show(%q): %v", name, err)
	}
	return 0
}

func optColor(L *lua.LState, n int, def color.Color) (color.Color, error) {
	if L.Get(n) == lua.LNil {
		return def, nil
	}
	return render.ParseHex(L.CheckString(n))
}
