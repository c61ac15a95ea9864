// Package logging wires the slog logger used across the core: a text
// handler appended to the configured log file, with the level from the
// configuration document.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/seanmcc/taskbucket/internal/config"
)

// Level maps a config log level string to a slog level. Unknown values
// default to info.
func Level(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New opens the configured log file and returns a logger appending to it.
// When the file cannot be opened the logger falls back to stderr rather
// than failing the command.
func New(cfg *config.Config) (*slog.Logger, io.Closer) {
	level := Level(cfg.LogLevel)

	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0755); err == nil {
			file, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
			if err == nil {
				handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})
				return slog.New(handler), file
			}
		}
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler), nopCloser{}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
