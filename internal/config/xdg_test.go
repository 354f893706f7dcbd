package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewXDGConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")
	t.Setenv("XDG_STATE_HOME", "/tmp/test-xdg-state")

	xdg := NewXDGConfig()
	if want := filepath.Join("/tmp/test-xdg-config", "nova-tracer"); xdg.ConfigDir != want {
		t.Errorf("ConfigDir = %s, want %s", xdg.ConfigDir, want)
	}
	if want := filepath.Join("/tmp/test-xdg-state", "nova-tracer", "installer.log"); xdg.LogPath() != want {
		t.Errorf("LogPath() = %s, want %s", xdg.LogPath(), want)
	}

	// Test without XDG variables
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	xdg = NewXDGConfig()
	homeDir, _ := os.UserHomeDir()
	if want := filepath.Join(homeDir, ".config", "nova-tracer"); xdg.ConfigDir != want {
		t.Errorf("ConfigDir = %s, want %s", xdg.ConfigDir, want)
	}
	if want := filepath.Join(homeDir, ".local", "state", "nova-tracer"); xdg.StateDir != want {
		t.Errorf("StateDir = %s, want %s", xdg.StateDir, want)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	xdg := &XDGConfig{ConfigDir: dir, StateDir: dir}

	if got := xdg.FindConfigFile(); got != "" {
		t.Errorf("FindConfigFile() = %q in empty dir", got)
	}

	for _, name := range []string{"config.json", "config.toml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if got := xdg.FindConfigFile(); filepath.Base(got) != "config.toml" {
		t.Errorf("FindConfigFile() = %q, want config.toml to win over config.json", got)
	}

	if err := os.Mkdir(filepath.Join(dir, "config.yml"), 0o750); err != nil {
		t.Fatal(err)
	}
	if got := xdg.FindConfigFile(); filepath.Base(got) != "config.toml" {
		t.Errorf("FindConfigFile() = %q, a directory must be skipped", got)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	xdg := &XDGConfig{
		ConfigDir: filepath.Join(base, "config", "nova-tracer"),
		StateDir:  filepath.Join(base, "state", "nova-tracer"),
	}
	if err := xdg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() error = %v", err)
	}
	for _, dir := range []string{xdg.ConfigDir, xdg.StateDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}
