package assets

import (
	"embed"
	"io/fs"
)

//go:embed web
var webFS embed.FS

//go:embed scripts/*.lua
var scriptFS embed.FS

// WebUI is an embedded filesystem rooted at internal/assets/web.
var WebUI fs.FS

// Scripts holds the bundled Lua views, rooted at internal/assets/scripts.
var Scripts fs.FS

func init() {
	// Embed paths include the leading directory; strip it for serving at '/'.
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	WebUI = sub

	sub, err = fs.Sub(scriptFS, "scripts")
	if err != nil {
		panic(err)
	}
	Scripts = sub
}
