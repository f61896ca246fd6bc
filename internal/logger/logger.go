// Package logger provides the process-wide structured logger.
//
// It is a thin wrapper over log/slog with runtime-adjustable level and
// format. The codec packages never log; the CLI and resolver use this for
// diagnostics on stderr so command output on stdout stays machine-readable.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Config holds logger configuration.
type Config struct {
	Level  string `mapstructure:"level"  validate:"omitempty,oneof=debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"             yaml:"format"`
}

var (
	level atomic.Int32 // slog.Level

	mu      sync.RWMutex
	output  io.Writer = os.Stderr
	format            = "text"
	slogger           = slog.New(slog.NewTextHandler(os.Stderr, handlerOpts()))
)

func handlerOpts() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: slog.Level(level.Load()),
	}
}

// reconfigure rebuilds the slog handler from the current settings.
// Callers must hold mu.
func reconfigure() {
	if format == "json" {
		slogger = slog.New(slog.NewJSONHandler(output, handlerOpts()))
	} else {
		slogger = slog.New(slog.NewTextHandler(output, handlerOpts()))
	}
}

// Init applies the configuration to the process-wide logger.
func Init(cfg Config) error {
	if cfg.Level != "" {
		if err := SetLevel(cfg.Level); err != nil {
			return err
		}
	}
	if cfg.Format != "" {
		f := strings.ToLower(cfg.Format)
		if f != "text" && f != "json" {
			return fmt.Errorf("unknown log format %q", cfg.Format)
		}
		mu.Lock()
		format = f
		reconfigure()
		mu.Unlock()
	}
	return nil
}

// InitWithWriter redirects log output, primarily for tests.
func InitWithWriter(w io.Writer) {
	mu.Lock()
	output = w
	reconfigure()
	mu.Unlock()
}

// SetLevel sets the minimum level: debug, info, warn, or error.
func SetLevel(name string) error {
	var l slog.Level
	switch strings.ToLower(name) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", name)
	}
	level.Store(int32(l))
	mu.Lock()
	reconfigure()
	mu.Unlock()
	return nil
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

// Debug logs at debug level with structured key/value fields.
func Debug(msg string, args ...any) { get().Debug(msg, args...) }

// Info logs at info level with structured key/value fields.
func Info(msg string, args ...any) { get().Info(msg, args...) }

// Warn logs at warn level with structured key/value fields.
func Warn(msg string, args ...any) { get().Warn(msg, args...) }

// Error logs at error level with structured key/value fields.
func Error(msg string, args ...any) { get().Error(msg, args...) }
