package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rook-computer/framekit/internal/app/screens"
	"github.com/rook-computer/framekit/internal/assets"
	"github.com/rook-computer/framekit/internal/script"
	"github.com/rook-computer/framekit/internal/window"
)

// RegisterBuiltins registers the title, play and pause views, the bundled
// scripts and then every script found under Config.Script.Paths. A user
// script with a bundled script's name replaces it.
func (app *App) RegisterBuiltins() error {
	width, height := app.window.Size()
	play, err := screens.NewPlayView(app, app.Logger, width, height)
	if err != nil {
		return err
	}
	for _, v := range []window.View{
		screens.NewTitleView(app, app.Store, app.Logger),
		play,
		screens.NewPauseView(app),
	} {
		if err := app.Register(v); err != nil {
			return err
		}
	}

	loaded := make(map[string]*script.LuaView)
	var names []string
	add := func(v *script.LuaView) {
		if old, ok := loaded[v.Name()]; ok {
			old.Close()
		} else {
			names = append(names, v.Name())
		}
		loaded[v.Name()] = v
	}

	bundled, err := fs.Glob(assets.Scripts, "*.lua")
	if err != nil {
		return err
	}
	for _, p := range bundled {
		src, err := fs.ReadFile(assets.Scripts, p)
		if err != nil {
			return err
		}
		v, err := script.LoadString(strings.TrimSuffix(p, ".lua"), string(src), app.scriptOptions()...)
		if err != nil {
			return err
		}
		add(v)
	}

	for _, root := range app.Config.Script.Paths {
		paths, err := scriptFiles(root)
		if err != nil {
			return err
		}
		for _, p := range paths {
			v, err := script.Load(p, app.scriptOptions()...)
			if err != nil {
				return err
			}
			add(v)
		}
	}

	for _, name := range names {
		v := loaded[name]
		if err := app.Register(v); err != nil {
			v.Close()
			return err
		}
		app.scripts = append(app.scripts, v)
	}
	if app.StartView == "" {
		app.StartView = app.Config.Script.Start
	}
	if app.StartView == "" {
		app.StartView = screens.TitleName
	}
	app.Logger.Infof("app", "registered views %v", app.order)
	return nil
}

func (app *App) scriptOptions() []script.Option {
	return []script.Option{script.WithLogger(app.Logger), script.WithNavigator(app.Switch)}
}

// scriptFiles expands root to itself or to the *.lua files directly in it.
func scriptFiles(root string) ([]string, error) {
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("script path: %w", err)
	}
	if !st.IsDir() {
		return []string{root}, nil
	}
	paths, err := filepath.Glob(filepath.Join(root, "*.lua"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// closeScripts releases every Lua state; the window must already be closed.
func (app *App) closeScripts() {
	for _, v := range app.scripts {
		v.Close()
	}
	app.scripts = nil
}
