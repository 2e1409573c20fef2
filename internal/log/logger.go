// Package log is the leveled key=value logger used by the cfgviz commands.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log severity levels
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

var levelColors = map[Level]string{
	DebugLevel: "\033[36m",
	InfoLevel:  "\033[32m",
	WarnLevel:  "\033[33m",
	ErrorLevel: "\033[31m",
}

const colorReset = "\033[0m"

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// Logger is the structured logging interface the commands depend on. Args are
// alternating keys and values.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	With(args ...interface{}) Logger
	SetLevel(level Level)
	SetJSONOutput(enabled bool)
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// field is one key=value pair attached to an entry.
type field struct {
	key   string
	value interface{}
}

// sink is shared by a logger and everything derived from it with With.
type sink struct {
	mu         sync.Mutex
	level      Level
	jsonOutput bool
	out        io.Writer
	colors     bool
	now        func() time.Time
}

// DefaultLogger writes one line per entry, as text or JSON.
type DefaultLogger struct {
	*sink
	fields []field
}

// New creates a new logger with the given configuration
func New(cfg LoggerConfig) *DefaultLogger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	return &DefaultLogger{sink: &sink{
		level:      cfg.Level,
		jsonOutput: cfg.JSONOutput,
		out:        out,
		colors:     isTerminal(out),
		now:        time.Now,
	}}
}

// isTerminal reports whether w is a character device and NO_COLOR is unset
func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// parseFields pairs up args. A leading odd arg is kept under the key "extra";
// pairs with a non-string key are dropped.
func parseFields(args []interface{}) []field {
	var fields []field
	if len(args)%2 != 0 {
		fields = append(fields, field{key: "extra", value: args[0]})
		args = args[1:]
	}
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, field{key: key, value: args[i+1]})
	}
	return fields
}

// formatMessage renders msg followed by " key=value" for each field.
func formatMessage(msg string, fields []field) string {
	if len(fields) == 0 {
		return msg
	}

	var sb strings.Builder
	sb.WriteString(msg)
	for _, f := range fields {
		sb.WriteString(" ")
		if f.key != "extra" {
			sb.WriteString(f.key)
			sb.WriteString("=")
		}
		fmt.Fprintf(&sb, "%v", f.value)
	}
	return sb.String()
}

func (l *DefaultLogger) log(level Level, msg string, args []interface{}) {
	fields := append(append([]field(nil), l.fields...), parseFields(args)...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := l.now().Format("2006-01-02 15:04:05")

	if l.jsonOutput {
		entry := make(map[string]interface{}, len(fields)+3)
		for _, f := range fields {
			entry[f.key] = f.value
		}
		entry["timestamp"] = timestamp
		entry["level"] = level.String()
		entry["message"] = msg
		data, err := json.Marshal(entry)
		if err != nil {
			data, _ = json.Marshal(map[string]string{
				"timestamp": timestamp,
				"level":     level.String(),
				"message":   formatMessage(msg, fields),
			})
		}
		fmt.Fprintln(l.out, string(data))
		return
	}

	line := formatMessage(msg, fields)
	if l.colors {
		line = levelColors[level] + line + colorReset
	}
	fmt.Fprintf(l.out, "[%s] %s: %s\n", timestamp, level, line)
}

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...interface{}) {
	l.log(DebugLevel, msg, args)
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...interface{}) {
	l.log(InfoLevel, msg, args)
}

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, args ...interface{}) {
	l.log(WarnLevel, msg, args)
}

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...interface{}) {
	l.log(ErrorLevel, msg, args)
}

// With returns a logger that adds args to every entry. It shares level and
// output with l.
func (l *DefaultLogger) With(args ...interface{}) Logger {
	fields := append(append([]field(nil), l.fields...), parseFields(args)...)
	return &DefaultLogger{sink: l.sink, fields: fields}
}

// SetLevel sets the minimum log level
func (l *DefaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetJSONOutput enables or disables JSON output
func (l *DefaultLogger) SetJSONOutput(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonOutput = enabled
}
