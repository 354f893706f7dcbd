// Package config loads the installer configuration and resolves the paths
// nova-tracer works on.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/nova-tracer/nova-tracer/internal/constants"
)

// DefaultBackupsKeep is how many settings backups prune keeps by default.
const DefaultBackupsKeep = 10

// ErrUnsupportedFormat is returned for config files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// BackupConfig controls settings.json backups.
type BackupConfig struct {
	Keep int `yaml:"keep" toml:"keep" json:"keep"`
}

// Config is the installer configuration.
type Config struct {
	InstallRoot  string         `yaml:"installRoot" toml:"installRoot" json:"installRoot"`
	SettingsPath string         `yaml:"settingsPath" toml:"settingsPath" json:"settingsPath"`
	Runner       string         `yaml:"runner" toml:"runner" json:"runner"`
	ExtraMarkers []string       `yaml:"extraMarkers" toml:"extraMarkers" json:"extraMarkers"`
	Timeouts     map[string]int `yaml:"timeouts" toml:"timeouts" json:"timeouts"`
	Backups      BackupConfig   `yaml:"backups" toml:"backups" json:"backups"`
	Log          LogConfig      `yaml:"log" toml:"log" json:"log"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-" toml:"-" json:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backups: BackupConfig{Keep: DefaultBackupsKeep},
		Log:     DefaultLogConfig(),
	}
}

// Load reads the config at path, or the first config file found in the XDG
// config directory when path is empty, then applies environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(constants.EnvConfig)
	}
	if path == "" {
		path = NewXDGConfig().FindConfigFile()
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a single config file on top of the defaults. The format
// follows the extension: .yml/.yaml, .toml or .json.
func LoadFile(path string) (*Config, error) {
	path = ExpandHome(path)
	data, err := os.ReadFile(path) // #nosec G304 - user-selected config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%w: %q (use .yml, .yaml, .toml or .json)", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.Source = path
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(constants.EnvInstallRoot)); v != "" {
		c.InstallRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(constants.EnvSettings)); v != "" {
		c.SettingsPath = v
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Log.Format != "" && !IsValidLoggingFormat(c.Log.Format) {
		return fmt.Errorf("invalid log format %q (use %s or %s)", c.Log.Format, LoggingFormatJSONL, LoggingFormatPretty)
	}
	if c.Backups.Keep < 0 {
		return fmt.Errorf("backups.keep must not be negative, got %d", c.Backups.Keep)
	}
	for name, t := range c.Timeouts {
		if t < 0 {
			return fmt.Errorf("timeout for %s must not be negative, got %d", name, t)
		}
	}
	return nil
}

// ResolveInstallRoot returns the absolute install root. The flag wins over
// the config (which already carries NOVA_TRACER_ROOT), then ~/.nova-tracer.
func (c *Config) ResolveInstallRoot(flag string) (string, error) {
	root := strings.TrimSpace(flag)
	if root == "" {
		root = c.InstallRoot
	}
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		root = filepath.Join(home, constants.DefaultInstallDir)
	}
	return filepath.Abs(ExpandHome(root))
}

// ResolveSettingsPath picks the settings file: an explicit path first, then
// the project file when project is set, then the configured path, then
// the user's global settings.
func (c *Config) ResolveSettingsPath(explicit string, project bool) (string, error) {
	switch {
	case strings.TrimSpace(explicit) != "":
		return filepath.Abs(ExpandHome(explicit))
	case project:
		return GetSettingsPath(false)
	case c.SettingsPath != "":
		return filepath.Abs(ExpandHome(c.SettingsPath))
	default:
		return GetSettingsPath(true)
	}
}

// GetSettingsPath returns ~/.claude/settings.json when global, otherwise
// ./.claude/settings.json.
func GetSettingsPath(global bool) (string, error) {
	if global {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, constants.ClaudeDir, constants.SettingsFileName), nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, constants.ClaudeDir, constants.SettingsFileName), nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
