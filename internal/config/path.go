// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DefaultDataDir returns the directory where tagsnap keeps its
// database and cached tokens.
func DefaultDataDir() string {
	if dir := os.Getenv("TAGSNAP_DATA_DIR"); dir != "" {
		return ExpandPath(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tagsnap"
	}
	return filepath.Join(home, ".local", "share", "tagsnap")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	return filepath.Join(DefaultDataDir(), "tagsnap.db")
}

// DefaultTokenPath returns where the Sheets OAuth token is cached.
func DefaultTokenPath() string {
	return filepath.Join(DefaultDataDir(), "sheets-token.json")
}
