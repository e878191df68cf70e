package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	loggerMu sync.RWMutex
	logger   = NewLogger(os.Stdout, "info")
)

// NewLogger builds a JSON slog logger. level is one of debug, info, warn, error.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// SetLogger replaces the process logger used by LogEvent and LogError.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// LogEvent writes a standardized line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string, attrs ...any) {
	args := append([]any{
		slog.String("module", strings.ToLower(module)),
		slog.String("action", action),
		slog.String("request_id", strings.TrimSpace(requestID)),
	}, attrs...)
	Logger().Info(message, args...)
}

// LogError is LogEvent at error level with the error attached.
func LogError(requestID, module, action string, err error, attrs ...any) {
	args := append([]any{
		slog.String("module", strings.ToLower(module)),
		slog.String("action", action),
		slog.String("request_id", strings.TrimSpace(requestID)),
		slog.String("error", err.Error()),
	}, attrs...)
	Logger().Error(action+" failed", args...)
}
