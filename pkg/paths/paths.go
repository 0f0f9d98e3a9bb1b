// Package paths resolves configuration and data directory locations.
// Implements: prd003-configuration-directories (R2 defaults, R3
// overrides, R5 precedence).
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".custos"
	DefaultDataDirName   = ".custos-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CUSTOS_CONFIG_DIR"
	EnvDataDir   = "CUSTOS_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration
// directory.
//
// Linux:   $XDG_CONFIG_HOME/custos (fallback ~/.config/custos)
// macOS:   ~/Library/Application Support/custos
// Windows: %APPDATA%/custos
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "custos"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "custos"), nil
	default:
		// macOS and Windows use os.UserConfigDir which returns
		// ~/Library/Application Support on macOS and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "custos"), nil
	}
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/custos (fallback ~/.local/share/custos)
// macOS:   ~/Library/Application Support/custos
// Windows: %APPDATA%/custos
func DefaultDataDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "custos"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", "custos"), nil
	default:
		// macOS and Windows: same as config dir.
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "custos"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: explicit value > CUSTOS_CONFIG_DIR env >
// DefaultConfigDir().
func ResolveConfigDir(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence
// chain: explicit value > config.yaml value > CUSTOS_DATA_DIR env >
// CWD-relative default.
//
// The CWD-relative default ($(CWD)/.custos-db) keeps a registry
// database next to the project that owns it when no override is
// active.
func ResolveDataDir(explicit, configYAMLValue string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
