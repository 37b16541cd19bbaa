package engine

// Logger is the optional leveled logging hook Engine calls into. It
// exists so the core never imports a concrete logging dependency it
// doesn't need (spec.md §2.1 ambient stack); wire it to zap, zerolog,
// or stdlib log as the caller prefers. New uses a no-op implementation
// when given a nil Logger.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}
