package log

// NoopLogger is a Logger that drops everything. It is the default wherever a
// component accepts an optional logger, and keeps tests quiet.
type NoopLogger struct{}

// NewNoopLogger returns a logger that produces no output.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// Debug drops the message.
func (NoopLogger) Debug(msg string, fields ...Field) {}

// Info drops the message.
func (NoopLogger) Info(msg string, fields ...Field) {}

// Warn drops the message.
func (NoopLogger) Warn(msg string, fields ...Field) {}

// Error drops the message.
func (NoopLogger) Error(msg string, fields ...Field) {}
