package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/0X4227/Arina/internal/backend"
)

// Attribute keys whose values never reach the output
var secretKeys = map[string]bool{
	"credentials_base64": true,
	"credentials_json":   true,
	"private_key":        true,
	"password":           true,
}

// Logger wraps slog.Logger to implement backend.Logger
type Logger struct {
	slogger *slog.Logger
	attrs   []slog.Attr
}

// NewLogger creates a logger writing to stdout
func NewLogger(config backend.LoggingConfig) (backend.Logger, error) {
	return NewLoggerWithWriter(config, os.Stdout)
}

// NewLoggerWithWriter creates a logger writing to w
func NewLoggerWithWriter(config backend.LoggingConfig, w io.Writer) (backend.Logger, error) {
	level, err := parseLogLevel(config.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	switch strings.ToLower(config.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{
		slogger: slog.New(handler),
		attrs:   make([]slog.Attr, 0),
	}, nil
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.log(slog.LevelDebug, msg, keysAndValues...)
}

// Info logs an info message
func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.log(slog.LevelInfo, msg, keysAndValues...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.log(slog.LevelWarn, msg, keysAndValues...)
}

// Error logs an error message
func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.log(slog.LevelError, msg, keysAndValues...)
}

// With returns a new logger with additional fields
func (l *Logger) With(keysAndValues ...any) backend.Logger {
	newAttrs := make([]slog.Attr, len(l.attrs))
	copy(newAttrs, l.attrs)
	newAttrs = append(newAttrs, parseKeyValues(keysAndValues...)...)

	return &Logger{
		slogger: l.slogger,
		attrs:   newAttrs,
	}
}

func (l *Logger) log(level slog.Level, msg string, keysAndValues ...any) {
	ctx := context.Background()
	if !l.slogger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(l.attrs)+len(keysAndValues)/2)
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, parseKeyValues(keysAndValues...)...)
	l.slogger.LogAttrs(ctx, level, msg, attrs...)
}

// parseKeyValues converts key-value pairs to slog attributes.
// A trailing key without a value and non-string keys are dropped.
func parseKeyValues(keysAndValues ...any) []slog.Attr {
	var attrs []slog.Attr

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, slog.Any(key, keysAndValues[i+1]))
	}

	return attrs
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if secretKeys[a.Key] {
		return slog.String(a.Key, "[REDACTED]")
	}
	return a
}

// parseLogLevel parses a log level string to slog.Level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", level)
	}
}
