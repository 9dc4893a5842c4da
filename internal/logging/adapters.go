package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// StdoutAdapter writes log entries to stdout as JSON or plain text.
type StdoutAdapter struct {
	format string
	out    io.Writer
	mu     sync.Mutex
}

// NewStdoutAdapter creates a stdout adapter; format is "json" or "text".
func NewStdoutAdapter(format string) *StdoutAdapter {
	return &StdoutAdapter{format: format, out: os.Stdout}
}

func (a *StdoutAdapter) Write(entry *LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.format == "text" {
		_, err := fmt.Fprintf(a.out, "%s [%s] %s %v\n",
			entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
			entry.Level, entry.Message, entry.Fields)
		return err
	}
	payload := map[string]any{
		"level":     entry.Level.String(),
		"message":   entry.Message,
		"timestamp": entry.Timestamp,
	}
	for k, v := range entry.Fields {
		payload[k] = v
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

func (a *StdoutAdapter) Close() error { return nil }

func (a *StdoutAdapter) Name() string { return "stdout" }

// FileAdapter appends JSON log entries to a file.
type FileAdapter struct {
	file *os.File
	mu   sync.Mutex
}

// NewFileAdapter opens (or creates) the log file at path.
func NewFileAdapter(path string) (*FileAdapter, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &FileAdapter{file: file}, nil
}

func (a *FileAdapter) Write(entry *LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	payload := map[string]any{
		"level":     entry.Level.String(),
		"message":   entry.Message,
		"timestamp": entry.Timestamp,
	}
	for k, v := range entry.Fields {
		payload[k] = v
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = a.file.Write(append(data, '\n'))
	return err
}

func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

func (a *FileAdapter) Name() string { return "file" }
