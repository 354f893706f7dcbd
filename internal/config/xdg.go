package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nova-tracer/nova-tracer/internal/constants"
)

// ConfigFileNames are the installer config files looked up in the config
// directory, in order of preference.
var ConfigFileNames = []string{"config.yml", "config.yaml", "config.toml", "config.json"}

// XDGConfig resolves nova-tracer's XDG Base Directory locations.
type XDGConfig struct {
	ConfigDir string
	StateDir  string
}

// NewXDGConfig honours XDG_CONFIG_HOME and XDG_STATE_HOME, falling back to
// ~/.config and ~/.local/state.
func NewXDGConfig() *XDGConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to paths relative to the working directory
		home = "."
	}

	configBase := os.Getenv("XDG_CONFIG_HOME")
	if configBase == "" {
		configBase = filepath.Join(home, ".config")
	}
	stateBase := os.Getenv("XDG_STATE_HOME")
	if stateBase == "" {
		stateBase = filepath.Join(home, ".local", "state")
	}

	return &XDGConfig{
		ConfigDir: filepath.Join(configBase, constants.ConfigDirName),
		StateDir:  filepath.Join(stateBase, constants.ConfigDirName),
	}
}

// FindConfigFile returns the first existing config file, or "" if there is
// none.
func (x *XDGConfig) FindConfigFile() string {
	for _, name := range ConfigFileNames {
		path := filepath.Join(x.ConfigDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LogPath returns the installer log file location.
func (x *XDGConfig) LogPath() string {
	return filepath.Join(x.StateDir, constants.DefaultLogFile)
}

// EnsureDirectories creates the config and state directories.
func (x *XDGConfig) EnsureDirectories() error {
	for _, dir := range []string{x.ConfigDir, x.StateDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil { // #nosec G301 - XDG directories should be user-only accessible
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
