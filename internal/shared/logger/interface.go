package logger

import "log/slog"

// Interface is the logging contract injected into application and
// infrastructure components. The *w variants take alternating key/value
// pairs, mirroring slog's variadic form.
type Interface interface {
	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
	Fatalw(msg string, keysAndValues ...any)
	With(args ...any) Interface
	Named(name string) Interface
}

type slogLogger struct {
	logger *slog.Logger
}

// NewLogger returns an Interface backed by the process logger.
func NewLogger() Interface {
	return &slogLogger{logger: Get()}
}

// NewLoggerWithSlog wraps an existing slog.Logger.
func NewLoggerWithSlog(l *slog.Logger) Interface {
	return &slogLogger{logger: l}
}

func (l *slogLogger) Debugw(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *slogLogger) Infow(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *slogLogger) Warnw(msg string, keysAndValues ...any) {
	l.logger.Warn(msg, keysAndValues...)
}

func (l *slogLogger) Errorw(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *slogLogger) Fatalw(msg string, keysAndValues ...any) {
	l.logger.Error(msg, keysAndValues...)
	panic("fatal error")
}

func (l *slogLogger) With(args ...any) Interface {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) Named(name string) Interface {
	return &slogLogger{logger: l.logger.With("logger", name)}
}
