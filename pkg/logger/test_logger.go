package logger

import (
	"fmt"
	"strings"
	"sync"
)

// TestLogger captures log messages for assertions in tests
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	fields   map[string]interface{}
	err      error
}

// LogMessage is a single captured log entry
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a logger that records instead of printing
func NewTestLogger() *TestLogger {
	return &TestLogger{}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   l.err,
	})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return &boundTestLogger{root: l, fields: map[string]interface{}{key: value}, err: l.err}
}

func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return &boundTestLogger{root: l, fields: fields, err: l.err}
}

func (l *TestLogger) WithError(err error) Logger {
	return &boundTestLogger{root: l, err: err}
}


// Messages returns a copy of all captured entries
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// MessagesByLevel returns captured entries of the given level
func (l *TestLogger) MessagesByLevel(level string) []LogMessage {
	var filtered []LogMessage
	for _, msg := range l.Messages() {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage reports whether any entry's message contains text
func (l *TestLogger) HasMessage(text string) bool {
	for _, msg := range l.Messages() {
		if strings.Contains(msg.Message, text) {
			return true
		}
	}
	return false
}

// String renders captured entries, useful in test failure output
func (l *TestLogger) String() string {
	var b strings.Builder
	for _, msg := range l.Messages() {
		fmt.Fprintf(&b, "[%s] %s", msg.Level, msg.Message)
		if len(msg.Fields) > 0 {
			fmt.Fprintf(&b, " fields=%v", msg.Fields)
		}
		if msg.Error != nil {
			fmt.Fprintf(&b, " error=%v", msg.Error)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// boundTestLogger carries field/error context while writing into the root
// TestLogger's buffer
type boundTestLogger struct {
	root   *TestLogger
	fields map[string]interface{}
	err    error
}

func (b *boundTestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(b.fields)+len(fields))
	for k, v := range b.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	b.root.mu.Lock()
	defer b.root.mu.Unlock()
	b.root.messages = append(b.root.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   b.err,
	})
}

func (b *boundTestLogger) Debug(msg string) { b.log("DEBUG", msg, nil) }
func (b *boundTestLogger) Info(msg string)  { b.log("INFO", msg, nil) }
func (b *boundTestLogger) Warn(msg string)  { b.log("WARN", msg, nil) }
func (b *boundTestLogger) Error(msg string) { b.log("ERROR", msg, nil) }
func (b *boundTestLogger) Fatal(msg string) { b.log("FATAL", msg, nil) }

func (b *boundTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	b.log("DEBUG", msg, fields)
}

func (b *boundTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	b.log("INFO", msg, fields)
}

func (b *boundTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	b.log("WARN", msg, fields)
}

func (b *boundTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	b.log("ERROR", msg, fields)
}

func (b *boundTestLogger) WithField(key string, value interface{}) Logger {
	merged := make(map[string]interface{}, len(b.fields)+1)
	for k, v := range b.fields {
		merged[k] = v
	}
	merged[key] = value
	return &boundTestLogger{root: b.root, fields: merged, err: b.err}
}

func (b *boundTestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(b.fields)+len(fields))
	for k, v := range b.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &boundTestLogger{root: b.root, fields: merged, err: b.err}
}

func (b *boundTestLogger) WithError(err error) Logger {
	return &boundTestLogger{root: b.root, fields: b.fields, err: err}
}

// NewNopLogger creates a logger that discards everything
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
