package logger

import (
	"log/slog"
	"os"
	"strings"

	"agent-eval/internal/config"
)

// Setup initializes the process-wide logger from the loaded configuration
func Setup(cfg *config.Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	default: // "text" or empty (already validated in config.go)
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts a string log level to slog.Level.
// Input is validated in config.go, so only known values reach here.
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default: // "info" or empty
		return slog.LevelInfo
	}
}
