package logging

// NullLogger discards all log messages. Useful in tests and when the
// silent override is active.
type NullLogger struct{}

// NewNullLogger creates a NullLogger.
func NewNullLogger() *NullLogger { return &NullLogger{} }

// Verbose implements the logger contract and discards the message.
func (*NullLogger) Verbose(string, ...interface{}) {}

// Info implements the logger contract and discards the message.
func (*NullLogger) Info(string, ...interface{}) {}

// Error implements the logger contract and discards the message.
func (*NullLogger) Error(string, ...interface{}) {}
