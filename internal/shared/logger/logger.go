// Package logger wires slog with a tint console handler (or a JSON handler
// for structured environments) and exposes an injectable Interface so that
// application code never depends on the global logger directly.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	sharedConfig "deskhub/internal/shared/config"
)

var (
	defaultLogger *slog.Logger
	atomicLevel   *slog.LevelVar
)

// Init builds the process logger from configuration. Safe to call once at startup.
func Init(cfg *sharedConfig.LoggerConfig) error {
	atomicLevel = new(slog.LevelVar)
	atomicLevel.Set(parseLevel(cfg.Level))

	var writer io.Writer
	switch strings.ToLower(cfg.OutputPath) {
	case "stdout", "":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writer = file
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:     atomicLevel,
			AddSource: cfg.AddSource,
		})
	} else {
		handler = tint.NewHandler(writer, &tint.Options{
			Level:       atomicLevel,
			TimeFormat:  time.DateTime,
			AddSource:   cfg.AddSource,
			NoColor:     !isTerminal(writer),
			ReplaceAttr: tintErrAttr,
		})
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
	return nil
}

// tintErrAttr renders error values with tint's error styling.
func tintErrAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == "error" && a.Value.Kind() == slog.KindAny {
		if err, ok := a.Value.Any().(error); ok {
			return tint.Err(err)
		}
	}
	return a
}

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

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// SetLevel changes the log level at runtime.
func SetLevel(level slog.Level) {
	if atomicLevel != nil {
		atomicLevel.Set(level)
	}
}

// Get returns the process logger, initializing a terminal-friendly default
// if Init has not been called (tests, ad hoc tooling).
func Get() *slog.Logger {
	if defaultLogger == nil {
		handler := tint.NewHandler(os.Stdout, &tint.Options{
			Level:       slog.LevelInfo,
			TimeFormat:  time.DateTime,
			NoColor:     !term.IsTerminal(int(os.Stdout.Fd())),
			ReplaceAttr: tintErrAttr,
		})
		defaultLogger = slog.New(handler)
		slog.SetDefault(defaultLogger)
	}
	return defaultLogger
}
