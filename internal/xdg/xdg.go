// Package xdg resolves XDG Base Directory paths for sqlblock, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used below the XDG base directories.
const AppName = "sqlblock"

// ConfigHome returns the base config directory without creating anything.
func ConfigHome() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return base, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// ConfigDir returns the XDG config directory for sqlblock.
// The directory is created with private permissions (0700) if missing.
func ConfigDir() (string, error) {
	base, err := ConfigHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
