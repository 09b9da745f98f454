package logger

import (
	"log/slog"
)

// componentKey names the attribute Named writes.
const componentKey = "component"

// Interface is the logger handed to repositories, use cases and handlers.
// The w-suffixed methods take alternating key/value pairs.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	Debugw(msg string, keysAndValues ...any)
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)

	With(args ...any) Interface
	// Named scopes the logger to a component. Nested names join with a dot,
	// so Named("cache").Named("redis") logs component=cache.redis once.
	Named(name string) Interface
}

type componentLogger struct {
	// scoped carries every With attribute but not the component
	scoped    *slog.Logger
	component string
	out       *slog.Logger
}

func newComponentLogger(scoped *slog.Logger, component string) *componentLogger {
	out := scoped
	if component != "" {
		out = scoped.With(componentKey, component)
	}
	return &componentLogger{scoped: scoped, component: component, out: out}
}

// NewLogger wraps the process logger.
func NewLogger() Interface {
	return newComponentLogger(Get(), "")
}

// New wraps an explicit slog logger, e.g. one writing to a test buffer.
func New(base *slog.Logger) Interface {
	if base == nil {
		base = Get()
	}
	return newComponentLogger(base, "")
}

func (l *componentLogger) Debug(msg string, args ...any) { l.out.Debug(msg, args...) }
func (l *componentLogger) Info(msg string, args ...any)  { l.out.Info(msg, args...) }
func (l *componentLogger) Warn(msg string, args ...any)  { l.out.Warn(msg, args...) }
func (l *componentLogger) Error(msg string, args ...any) { l.out.Error(msg, args...) }

func (l *componentLogger) Debugw(msg string, keysAndValues ...any) { l.out.Debug(msg, keysAndValues...) }
func (l *componentLogger) Infow(msg string, keysAndValues ...any)  { l.out.Info(msg, keysAndValues...) }
func (l *componentLogger) Warnw(msg string, keysAndValues ...any)  { l.out.Warn(msg, keysAndValues...) }
func (l *componentLogger) Errorw(msg string, keysAndValues ...any) { l.out.Error(msg, keysAndValues...) }

func (l *componentLogger) With(args ...any) Interface {
	return newComponentLogger(l.scoped.With(args...), l.component)
}

func (l *componentLogger) Named(name string) Interface {
	switch {
	case name == "":
		return l
	case l.component == "":
		return newComponentLogger(l.scoped, name)
	default:
		return newComponentLogger(l.scoped, l.component+"."+name)
	}
}
