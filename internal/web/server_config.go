package web

import "github.com/rook-computer/framekit/internal/config"

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - device:   :80
// - headless: :8080
type ServerConfig struct {
	Enabled    bool
	ListenAddr string
	DevMode    bool
	StaticDir  string
}

// ServerConfigFrom reads the server section of a loaded config file.
// Environment overrides are already applied by config.ApplyEnv.
func ServerConfigFrom(section config.ServerSection, defaultListenAddr string) ServerConfig {
	listenAddr := section.Listen
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}
	return ServerConfig{
		Enabled:    section.Enabled,
		ListenAddr: listenAddr,
		DevMode:    section.Dev,
		StaticDir:  section.StaticDir,
	}
}
