package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/claesbert/PlexAmpCliStatus/internal/config"
)

// Setup creates a slog.Logger that writes to a size-rotated log file in the
// user state directory. The terminal is reserved for the dashboard, so nothing
// is ever logged to stdout. The caller is responsible for closing the writer.
func Setup(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	path := cfg.File
	if path == "" {
		stateDir, err := StateDir()
		if err != nil {
			return nil, nil, fmt.Errorf("state dir: %w", err)
		}
		path = filepath.Join(stateDir, "plexamp-status.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.Backups(),
		MaxAge:     cfg.AgeDays(),
		Compress:   true,
	}
	handler := slog.NewTextHandler(rotator, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return slog.New(handler), rotator, nil
}

// ParseLevel maps a config level name to a slog.Level. Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// StateDir returns the path to the state directory (~/.config/plexamp-status/state).
func StateDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "plexamp-status", "state"), nil
}
