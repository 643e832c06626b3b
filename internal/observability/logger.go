package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	logger *slog.Logger
}

// NewLogger writes JSON lines to stderr at the level named by
// CRAWL_LOG_LEVEL (debug, info, warn, error; default info).
func NewLogger(component string) Logger {
	return NewLoggerTo(os.Stderr, component, levelFromEnv())
}

func NewLoggerTo(w io.Writer, component string, level slog.Level) Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return Logger{logger: slog.New(h).With("component", component)}
}

// Nop discards everything.
func Nop() Logger {
	return NewLoggerTo(io.Discard, "", slog.LevelError+1)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("CRAWL_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// With returns a logger carrying extra attributes.
func (l Logger) With(args ...any) Logger {
	return Logger{logger: l.logger.With(args...)}
}

func (l Logger) Debugf(format string, args ...any) {
	l.logger.Debug("debug", "message", fmt.Sprintf(format, args...))
}

func (l Logger) Infof(format string, args ...any) {
	l.logger.Info("info", "message", fmt.Sprintf(format, args...))
}

func (l Logger) Warnf(format string, args ...any) {
	l.logger.Warn("warn", "message", fmt.Sprintf(format, args...))
}

func (l Logger) Errorf(format string, args ...any) {
	l.logger.Error("error", "message", fmt.Sprintf(format, args...))
}
