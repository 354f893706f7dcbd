package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging format constants
const (
	LoggingFormatJSONL  = "jsonl"
	LoggingFormatPretty = "pretty"
)

// IsValidLoggingFormat returns true if the provided format is supported.
func IsValidLoggingFormat(f string) bool {
	return f == LoggingFormatJSONL || f == LoggingFormatPretty
}

// LogConfig controls the installer's own log file.
type LogConfig struct {
	Format     string `yaml:"format" toml:"format" json:"format"`
	MaxSizeMB  int    `yaml:"maxSizeMB" toml:"maxSizeMB" json:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups" toml:"maxBackups" json:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays" toml:"maxAgeDays" json:"maxAgeDays"`
	Compress   bool   `yaml:"compress" toml:"compress" json:"compress"`
	// Path overrides the XDG state location.
	Path string `yaml:"path,omitempty" toml:"path,omitempty" json:"path,omitempty"`
}

// DefaultLogConfig returns sensible defaults for log rotation
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Format:     LoggingFormatJSONL,
		MaxSizeMB:  10,   // 10MB per file
		MaxBackups: 5,    // Keep 5 backup files
		MaxAgeDays: 30,   // 30 days default retention
		Compress:   true, // Compress old files
	}
}

// SetupLogRotation configures a rotating writer for logPath.
func SetupLogRotation(logPath string, cfg LogConfig) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true, // Use local time for timestamps
	}, nil
}
