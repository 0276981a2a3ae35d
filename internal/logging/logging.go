package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger writes structured log entries as one JSON object per line.
// Every entry carries "ts" (RFC3339Nano in the configured location) and "level".
// A nil *Logger is valid and discards everything.
type Logger struct {
	mu     *sync.Mutex
	w      io.Writer
	loc    *time.Location
	fields map[string]any
}

// New returns a Logger writing to w with timestamps rendered in loc.
func New(w io.Writer, loc *time.Location) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{mu: &sync.Mutex{}, w: w, loc: loc}
}

// Stdout returns a Logger writing to standard output.
func Stdout(loc *time.Location) *Logger {
	return New(os.Stdout, loc)
}

// With returns a child logger that adds fields to every entry.
func (l *Logger) With(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{mu: l.mu, w: l.w, loc: l.loc, fields: merged}
}

// Info logs an informational event.
func (l *Logger) Info(event string, fields map[string]any) {
	l.Log("info", event, fields)
}

// Warn logs a recoverable problem.
func (l *Logger) Warn(event string, fields map[string]any) {
	l.Log("warn", event, fields)
}

// Error logs a failure.
func (l *Logger) Error(event string, fields map[string]any) {
	l.Log("error", event, fields)
}

// Log writes a single entry. When level is empty it is derived from fields["status"]:
// "error" maps to level error, anything else to info.
func (l *Logger) Log(level, event string, fields map[string]any) {
	if l == nil || l.w == nil {
		return
	}
	entry := make(map[string]any, len(l.fields)+len(fields)+3)
	for k, v := range l.fields {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}
	if level == "" {
		level = "info"
		if entry["status"] == "error" {
			level = "error"
		}
	}
	entry["level"] = level
	entry["event"] = event
	entry["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)

	b, err := json.Marshal(entry)
	if err != nil {
		log.Printf("failed to marshal log entry %q: %v", event, err)
		return
	}
	b = append(b, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(b)
}
