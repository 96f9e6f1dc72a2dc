package tmpdb

import "github.com/vvka-141/tmpdb/internal/logging"

// Logger receives diagnostics from the provisioning lifecycle. Verbose is
// for create/drop tracing, Info for messages the user should see (such as
// a kept database's URL), Error for failures.
type Logger interface {
	Verbose(format string, args ...interface{})
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}

var (
	_ Logger = (*logging.ConsoleLogger)(nil)
	_ Logger = (*logging.NullLogger)(nil)
)
