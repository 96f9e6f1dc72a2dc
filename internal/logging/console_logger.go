// Package logging provides concrete logger implementations for tmpdb.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleLogger writes log messages to stderr. Verbose output is gated by
// the debug flag. Safe for concurrent use by multiple goroutines.
type ConsoleLogger struct {
	debug bool
	out   io.Writer
	mu    sync.Mutex
}

// NewConsoleLogger creates a ConsoleLogger. When debug is false, Verbose()
// calls are no-ops.
func NewConsoleLogger(debug bool) *ConsoleLogger {
	return &ConsoleLogger{debug: debug, out: os.Stderr}
}

// NewConsoleLoggerTo is like NewConsoleLogger but writes to w. Used by
// supervisor children whose stderr may be redirected.
func NewConsoleLoggerTo(w io.Writer, debug bool) *ConsoleLogger {
	return &ConsoleLogger{debug: debug, out: w}
}

// Verbose logs diagnostic detail when debug mode is enabled.
func (l *ConsoleLogger) Verbose(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.write("[debug] "+format, args...)
}

// Info logs informational messages about normal operations.
func (l *ConsoleLogger) Info(format string, args ...interface{}) {
	l.write(format, args...)
}

// Error logs error messages.
func (l *ConsoleLogger) Error(format string, args ...interface{}) {
	l.write("[error] "+format, args...)
}

func (l *ConsoleLogger) write(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		fmt.Fprintf(l.out, format+"\n", args...)
		return
	}
	fmt.Fprint(l.out, format+"\n")
}
