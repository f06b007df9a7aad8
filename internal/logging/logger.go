package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/toyz/usersapi/internal/config"
)

// AppLogger is the application wide structured logger
type AppLogger struct {
	logger *slog.Logger
}

// NewAppLogger builds the logger described by cfg, writing to stdout
func NewAppLogger(cfg *config.Config) *AppLogger {
	return New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
}

// New builds a logger writing to w. format is "json" or "text".
func New(w io.Writer, level, format string) *AppLogger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &AppLogger{logger: slog.New(handler)}
}

// Discard returns a logger that drops everything, for tests
func Discard() *AppLogger {
	return New(io.Discard, "error", "text")
}

// ParseLevel maps a level name to a slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
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

// Info logs an info message
func (l *AppLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// With returns a logger that adds args to every record
func (l *AppLogger) With(args ...any) *AppLogger {
	return &AppLogger{logger: l.logger.With(args...)}
}

// Logger returns the underlying slog.Logger for advanced usage
func (l *AppLogger) Logger() *slog.Logger {
	return l.logger
}
