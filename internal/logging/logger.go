package logging

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// MultiLogger fans log entries out to a set of adapters with level filtering.
type MultiLogger struct {
	adapters map[string]LogAdapter
	level    LogLevel
	fields   map[string]any
	mu       sync.RWMutex
}

// NewMultiLogger creates a new MultiLogger instance
func NewMultiLogger(level LogLevel) *MultiLogger {
	return &MultiLogger{
		adapters: make(map[string]LogAdapter),
		level:    level,
		fields:   make(map[string]any),
	}
}

// AddAdapter registers an output adapter under its name.
func (l *MultiLogger) AddAdapter(adapter LogAdapter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.adapters[adapter.Name()] = adapter
}

// Debug logs a debug message
func (l *MultiLogger) Debug(message string, fields ...map[string]any) {
	l.log(DebugLevel, message, fields...)
}

// Info logs an info message
func (l *MultiLogger) Info(message string, fields ...map[string]any) {
	l.log(InfoLevel, message, fields...)
}

// Warn logs a warning message
func (l *MultiLogger) Warn(message string, fields ...map[string]any) {
	l.log(WarnLevel, message, fields...)
}

// Error logs an error message
func (l *MultiLogger) Error(message string, fields ...map[string]any) {
	l.log(ErrorLevel, message, fields...)
}

// Fatal logs a fatal message and exits
func (l *MultiLogger) Fatal(message string, fields ...map[string]any) {
	l.log(FatalLevel, message, fields...)
	l.Close()
	os.Exit(1)
}

func (l *MultiLogger) log(level LogLevel, message string, fields ...map[string]any) {
	if level < l.level {
		return
	}

	entry := &LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Fields:    l.mergeFields(fields...),
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for name, adapter := range l.adapters {
		if err := adapter.Write(entry); err != nil {
			// Adapter errors go to stderr to avoid recursing into logging.
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", name, err)
		}
	}
}

// WithField returns a new logger with the specified field
func (l *MultiLogger) WithField(key string, value any) Logger {
	fields := l.copyFields()
	fields[key] = value
	return &MultiLogger{adapters: l.adapters, level: l.level, fields: fields}
}

// WithFields returns a new logger with the specified fields
func (l *MultiLogger) WithFields(fields map[string]any) Logger {
	merged := l.copyFields()
	for k, v := range fields {
		merged[k] = v
	}
	return &MultiLogger{adapters: l.adapters, level: l.level, fields: merged}
}

// Close closes all registered adapters.
func (l *MultiLogger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, adapter := range l.adapters {
		_ = adapter.Close()
	}
}

func (l *MultiLogger) copyFields() map[string]any {
	copied := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		copied[k] = v
	}
	return copied
}

func (l *MultiLogger) mergeFields(fields ...map[string]any) map[string]any {
	merged := l.copyFields()
	for _, fm := range fields {
		for k, v := range fm {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
