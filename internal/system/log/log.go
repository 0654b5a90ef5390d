// Package log provides a thin structured logging layer over logrus.
package log

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// LoggerKeyComponentName is the standard field key naming the emitting component.
const LoggerKeyComponentName = "component"

// Field is a single structured log field.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Any creates a field holding an arbitrary value.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger wraps a logrus entry so call sites carry their fields along.
type Logger struct {
	entry *logrus.Entry
}

var (
	root     *logrus.Logger
	rootOnce sync.Once
)

func rootLogger() *logrus.Logger {
	rootOnce.Do(func() {
		root = logrus.New()
		root.SetOutput(os.Stdout)
		root.SetFormatter(&logrus.JSONFormatter{})
		root.SetLevel(logrus.InfoLevel)
	})
	return root
}

// GetLogger returns the shared logger.
func GetLogger() *Logger {
	return &Logger{entry: logrus.NewEntry(rootLogger())}
}

// SetLevel sets the global log level from a logrus level name, e.g. "debug".
// Unknown names are ignored.
func SetLevel(level string) {
	if parsed, err := logrus.ParseLevel(level); err == nil {
		rootLogger().SetLevel(parsed)
	}
}

// With returns a logger carrying the given fields on every entry.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{entry: l.entry.WithFields(toLogrusFields(fields))}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Debug(msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Info(msg)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Warn(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string, err error, fields ...Field) {
	entry := l.entry.WithFields(toLogrusFields(fields))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

// Fatal logs at fatal level and exits.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.entry.WithFields(toLogrusFields(fields)).Fatal(msg)
}

func toLogrusFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
