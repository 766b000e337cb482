package logger

import (
	"fmt"
	"time"

	"github.com/elmarx/slog-kickstarter/core"
	"github.com/elmarx/slog-kickstarter/handler"
)

// Logger is an immutable handle onto an assembled drain pipeline.
// All configuration is set once via the Builder; With derives child
// handles that share the pipeline. Because nothing is mutated after
// construction, a Logger is safe for concurrent use without locking.
type Logger struct {
	handler      handler.Handler
	minLevel     core.Level
	fields       []core.Field
	moduleOrigin bool
	callerSkip   int
	recycleEntry bool
	now          func() time.Time
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	handler      handler.Handler
	minLevel     core.Level
	fields       []core.Field
	moduleOrigin bool
	callerSkip   int
	recycleEntry bool
	now          func() time.Time
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		minLevel:   core.InfoLevel,
		callerSkip: 3, // Default skip for GetCaller from the level methods
		now:        time.Now,
	}
}

// WithHandler sets the drain the logger emits into
func (b *Builder) WithHandler(h handler.Handler) *Builder {
	b.handler = h
	// Pre-compute recycleEntry to avoid interface assertion on the hot path
	if rc, ok := h.(handler.EntryRecycler); ok {
		b.recycleEntry = rc.CanRecycleEntry()
	} else {
		b.recycleEntry = false
	}
	return b
}

// WithMinLevel sets the cheapest pre-filter level. Records below it
// are discarded before any allocation; exact per-module filtering
// happens downstream in the drain.
func (b *Builder) WithMinLevel(level core.Level) *Builder {
	b.minLevel = level
	return b
}

// WithFields adds static fields attached to every record
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithModuleOrigin enables resolving the emitting package's import
// path for every record. The path is computed fresh per record via
// the runtime, never cached, since one Logger handle serves many
// call sites.
func (b *Builder) WithModuleOrigin(enabled bool) *Builder {
	b.moduleOrigin = enabled
	return b
}

// WithTimeFunc overrides the time source for record timestamps
func (b *Builder) WithTimeFunc(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	return &Logger{
		handler:      b.handler,
		minLevel:     b.minLevel,
		fields:       b.fields,
		moduleOrigin: b.moduleOrigin,
		callerSkip:   b.callerSkip,
		recycleEntry: b.recycleEntry,
		now:          b.now,
	}
}

// With creates a new Logger with additional static fields. The
// parent is not modified; both handles share the same underlying
// pipeline and output stream.
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make([]core.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &Logger{
		handler:      l.handler,
		minLevel:     l.minLevel,
		fields:       newFields,
		moduleOrigin: l.moduleOrigin,
		callerSkip:   l.callerSkip,
		recycleEntry: l.recycleEntry,
		now:          l.now,
	}
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	// Level check optimization - exit early BEFORE any allocations
	if level < l.minLevel {
		return
	}

	l.log(level, msg, fields)
}

// log is the internal logging method that takes a pre-allocated slice.
// Emission never returns an error to the caller; drain failures are
// absorbed inside the pipeline.
func (l *Logger) log(level core.Level, msg string, fields []core.Field) {
	// Handler check - exit if no handler (avoid any work)
	if l.handler == nil {
		return
	}

	// Get entry from pool AFTER level check
	entry := core.GetEntry()
	entry.Time = l.now()
	entry.Level = level
	entry.Message = msg

	// Add logger's static fields
	if len(l.fields) > 0 {
		entry.Fields = append(entry.Fields, l.fields...)
	}

	// Add call-site fields
	if len(fields) > 0 {
		entry.Fields = append(entry.Fields, fields...)
	}

	if l.moduleOrigin {
		caller := core.GetCaller(l.callerSkip)
		entry.Module = caller.Module
		entry.Caller = caller
	}

	err := l.handler.Handle(entry)
	if err != nil {
		return
	}

	// Return entry to pool if the drain is done with it
	if l.recycleEntry {
		core.PutEntry(entry)
	}
}

// Trace logs a trace message
func (l *Logger) Trace(msg string, fields ...core.Field) {
	if core.TraceLevel < l.minLevel {
		return
	}
	l.log(core.TraceLevel, msg, fields)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if core.DebugLevel < l.minLevel {
		return
	}
	l.log(core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if core.InfoLevel < l.minLevel {
		return
	}
	l.log(core.InfoLevel, msg, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...core.Field) {
	if core.WarnLevel < l.minLevel {
		return
	}
	l.log(core.WarnLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	if core.ErrorLevel < l.minLevel {
		return
	}
	l.log(core.ErrorLevel, msg, fields)
}

// Critical logs a critical message
func (l *Logger) Critical(msg string, fields ...core.Field) {
	l.log(core.CriticalLevel, msg, fields)
}

// Tracef logs a trace message with formatting
func (l *Logger) Tracef(format string, args ...interface{}) {
	if core.TraceLevel < l.minLevel {
		return
	}
	l.log(core.TraceLevel, fmt.Sprintf(format, args...), nil)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	if core.DebugLevel < l.minLevel {
		return
	}
	l.log(core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	if core.InfoLevel < l.minLevel {
		return
	}
	l.log(core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...interface{}) {
	if core.WarnLevel < l.minLevel {
		return
	}
	l.log(core.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	if core.ErrorLevel < l.minLevel {
		return
	}
	l.log(core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Criticalf logs a critical message with formatting
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.log(core.CriticalLevel, fmt.Sprintf(format, args...), nil)
}

// Close closes the logger's drain pipeline
func (l *Logger) Close() error {
	if l.handler != nil {
		return l.handler.Close()
	}
	return nil
}
