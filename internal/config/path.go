// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading ~ and $VAR style environment variables in a
// file path.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return path
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// DataDir returns the directory for local state, honoring XDG_DATA_HOME.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "pulse")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pulse-data"
	}
	return filepath.Join(home, ".local", "share", "pulse")
}

// DatabasePath returns the default SQLite database location.
func DatabasePath() string {
	return filepath.Join(DataDir(), "pulse.db")
}

// TokenPath returns the default OAuth2 token location.
func TokenPath() string {
	return filepath.Join(DataDir(), "token.json")
}
