package logging

import "sync"

var (
	globalLogger Logger
	globalMu     sync.RWMutex
)

// Initialize builds the global logger from config values. Output is "stdout"
// or a file path; format is "json" or "text". Safe to call once at startup.
func Initialize(level, format, output string) (Logger, error) {
	logger := NewMultiLogger(ParseLevel(level))
	if output == "" || output == "stdout" {
		logger.AddAdapter(NewStdoutAdapter(format))
	} else {
		adapter, err := NewFileAdapter(output)
		if err != nil {
			return nil, err
		}
		logger.AddAdapter(adapter)
	}

	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
	return logger, nil
}

// GetGlobalLogger returns the process-wide logger, installing a default
// stdout JSON logger if Initialize was never called.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()
	if logger != nil {
		return logger
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		fallback := NewMultiLogger(InfoLevel)
		fallback.AddAdapter(NewStdoutAdapter("json"))
		globalLogger = fallback
	}
	return globalLogger
}
