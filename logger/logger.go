// Package logger defines the minimal logging contract the paygate
// packages write to, with zap and noop implementations.
package logger

// Fields is a loose bag of structured log context.
type Fields map[string]any

type Logger interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, fields Fields)
}

// NoopLogger discards everything. It is the default so library users
// opt in to logging explicitly.
type NoopLogger struct{}

func (NoopLogger) Debug(string, Fields) {}
func (NoopLogger) Info(string, Fields)  {}
func (NoopLogger) Warn(string, Fields)  {}
func (NoopLogger) Error(string, Fields) {}
