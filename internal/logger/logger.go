// ABOUTME: Structured logging configuration using log/slog
// ABOUTME: Logs go to a file in the config directory so the TUI owns the terminal

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the log file inside the config directory
const FileName = "hrdesk.log"

// Init configures the default slog logger.
// level: debug, info, warn, error (default: info)
// format: text, json (default: text)
func Init(level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// OpenFile opens <dir>/hrdesk.log for appending, creating dir if needed
func OpenFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
}

// Setup points the default logger at the log file in dir. If the file cannot
// be opened, logging is discarded. The returned func closes the file.
func Setup(dir, level, format string) func() {
	f, err := OpenFile(dir)
	if err != nil {
		Init(level, format, io.Discard)
		return func() {}
	}
	Init(level, format, f)
	return func() { f.Close() }
}

// parseLevel converts a string log level to slog.Level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
