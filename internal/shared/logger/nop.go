package logger

// Nop returns an Interface that discards everything. Intended for tests.
func Nop() Interface {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debugw(msg string, keysAndValues ...any) {}
func (nopLogger) Infow(msg string, keysAndValues ...any)  {}
func (nopLogger) Warnw(msg string, keysAndValues ...any)  {}
func (nopLogger) Errorw(msg string, keysAndValues ...any) {}
func (nopLogger) Fatalw(msg string, keysAndValues ...any) {}
func (nopLogger) With(args ...any) Interface              { return nopLogger{} }
func (nopLogger) Named(name string) Interface             { return nopLogger{} }
