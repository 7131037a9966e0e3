// internal/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	levelVar      = new(slog.LevelVar)
)

// Init installs a logger writing to output with the given config.
// It may be called again (tests, config reload); the last call wins.
func Init(cfg Config, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	levelVar.Set(ParseLevel(cfg.LogLevel))

	opts := &slog.HandlerOptions{
		Level:     levelVar,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.SourceKey:
				if src, ok := a.Value.Any().(*slog.Source); ok && src != nil {
					src.File = filepath.Base(src.File)
				}
			case slog.TimeKey:
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	handler := newFilteringHandler(slog.NewTextHandler(output, opts), cfg)

	mu.Lock()
	defaultLogger = slog.New(handler)
	mu.Unlock()
}

// OpenOutput resolves a log file path to a writer. "" and "-" mean stderr.
// The returned close function is always safe to call.
func OpenOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stderr, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file '%s': %w", path, err)
	}
	return f, f.Close, nil
}

// SetLevel changes the minimum level at runtime.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

// Get returns the active *slog.Logger.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// logAt builds a record with the caller of the exported helper as its source.
func logAt(level slog.Level, tag string, format string, args ...interface{}) {
	l := Get()
	if !l.Enabled(context.Background(), level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // Callers, logAt, exported helper
	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	_ = l.Handler().Handle(context.Background(), r)
}

// Debugf logs at debug level.
func Debugf(format string, args ...interface{}) { logAt(slog.LevelDebug, "", format, args...) }

// Infof logs at info level.
func Infof(format string, args ...interface{}) { logAt(slog.LevelInfo, "", format, args...) }

// Warnf logs at warn level.
func Warnf(format string, args ...interface{}) { logAt(slog.LevelWarn, "", format, args...) }

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) { logAt(slog.LevelError, "", format, args...) }

// DebugTagf logs at debug level with a filterable tag.
func DebugTagf(tag, format string, args ...interface{}) {
	logAt(slog.LevelDebug, tag, format, args...)
}

// InfoTagf logs at info level with a filterable tag.
func InfoTagf(tag, format string, args ...interface{}) {
	logAt(slog.LevelInfo, tag, format, args...)
}
