package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Log format names accepted in log.format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// LogConfig selects the level and handler of the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// IPCConfig controls the status socket.
type IPCConfig struct {
	Enabled bool `yaml:"enabled"`
	// Socket overrides the socket path; empty means the runtime directory default.
	Socket string `yaml:"socket"`
}

// Config holds the ambient settings of the window manager process. Frame
// decoration is not configurable.
type Config struct {
	// Display overrides $DISPLAY when non-empty.
	Display string    `yaml:"display"`
	Log     LogConfig `yaml:"log"`
	IPC     IPCConfig `yaml:"ipc"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
		IPC: IPCConfig{
			Enabled: true,
		},
	}
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return &ValidationError{Path: "log.level", Err: err}
	}
	switch c.Log.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return &ValidationError{Path: "log.format", Err: fmt.Errorf("log.format must be one of: text, json")}
	}
	if strings.ContainsAny(c.Display, " \t\n") {
		return &ValidationError{Path: "display", Err: fmt.Errorf("display must not contain whitespace")}
	}
	return nil
}

// SlogLevel returns the slog level named by Log.Level.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
}

// ValidationError reports an invalid setting, with its file position when the
// value came from a config file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
