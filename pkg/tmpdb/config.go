package tmpdb

import (
	"errors"
	"fmt"
	"time"

	"github.com/vvka-141/tmpdb/internal/config"
	"github.com/vvka-141/tmpdb/internal/logging"
)

// CleanupMode selects the out-of-band cleanup strategy armed after a
// successful create. Synchronous teardown in Close is independent of it.
type CleanupMode int

const (
	// CleanupNone relies on Close alone.
	CleanupNone CleanupMode = iota

	// CleanupPipe spawns a watcher holding the read end of a pipe; the OS
	// closes the write end when this process exits, however it exits, and
	// the watcher then drops the database.
	CleanupPipe

	// CleanupDetach spawns a watcher in its own session that polls this
	// process's pid and drops the database once the pid is gone.
	CleanupDetach
)

// String returns the flag spelling of the mode.
func (m CleanupMode) String() string {
	switch m {
	case CleanupPipe:
		return "pipe"
	case CleanupDetach:
		return "detach"
	default:
		return "none"
	}
}

// ParseCleanupMode converts a flag value ("none", "pipe", "detach") into a
// CleanupMode.
func ParseCleanupMode(s string) (CleanupMode, error) {
	switch s {
	case "", "none":
		return CleanupNone, nil
	case "pipe":
		return CleanupPipe, nil
	case "detach":
		return CleanupDetach, nil
	}
	return CleanupNone, fmt.Errorf("unknown cleanup mode %q: %w", s, ErrInvalidConfig)
}

// Config tunes provisioning. The zero value is usable but does not
// auto-create; DefaultConfig returns the settings New applies when cfg is
// nil.
type Config struct {
	// Template is the database name template. Recognized placeholders:
	// %H hostname, %P pid, %T process start time, %U numeric uid,
	// %X executable basename, %R an 8-character random component, and
	// %i the retry index (empty on the first attempt, "_1", "_2", ...
	// afterwards). Empty means DefaultTemplate.
	Template string

	// AutoCreate provisions the database inside New. When false the
	// handle stays unprovisioned until Create is called.
	AutoCreate bool

	// Cleanup arms an out-of-band watcher after a successful create.
	Cleanup CleanupMode

	// AdminDatabase overrides the administrative database used to issue
	// CREATE/DROP DATABASE. Empty means the backend's conventional one.
	AdminDatabase string

	// TempDir is where SQLite database files are created. Empty means the
	// system temp directory.
	TempDir string

	// KeepLongName disables the length ceiling and its template
	// shortening. The server may still reject the name.
	KeepLongName bool

	// MaxAttempts bounds the create loop. Zero means
	// DefaultMaxCreateAttempts, or the TMPDB_MAX_CREATE_ATTEMPTS
	// override when set.
	MaxAttempts int

	// GuardInterval is the detached watcher's parent poll interval. Zero
	// means DefaultGuardInterval, or the TMPDB_GUARD_INTERVAL override.
	GuardInterval time.Duration

	// Logger receives diagnostics. Nil means a console logger on stderr
	// with verbosity tied to TMPDB_DEBUG.
	Logger Logger

	// Sequence supplies retry indexes. Nil means DefaultSequence, shared
	// process-wide so sibling handles never collide on a template.
	Sequence *Sequence
}

// DefaultConfig returns the configuration New uses when handed nil.
func DefaultConfig() *Config {
	return &Config{
		AutoCreate:  true,
		Template:    DefaultTemplate,
		MaxAttempts: DefaultMaxCreateAttempts,
	}
}

// withDefaults fills zero fields from env overrides and package defaults.
// Returns a copy; the caller's Config is never mutated.
func (c *Config) withDefaults(env config.Env) *Config {
	out := *c
	if out.Template == "" {
		out.Template = DefaultTemplate
	}
	if out.MaxAttempts == 0 {
		out.MaxAttempts = env.MaxAttempts
	}
	if out.MaxAttempts == 0 {
		out.MaxAttempts = DefaultMaxCreateAttempts
	}
	if out.GuardInterval == 0 {
		out.GuardInterval = env.GuardInterval
	}
	if out.GuardInterval == 0 {
		out.GuardInterval = DefaultGuardInterval
	}
	if out.Logger == nil {
		out.Logger = logging.NewConsoleLogger(env.Debug)
	}
	if out.Sequence == nil {
		out.Sequence = DefaultSequence
	}
	return &out
}

func (c *Config) validate() error {
	var errs []error
	if c.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("max attempts must not be negative, got %d", c.MaxAttempts))
	}
	if c.GuardInterval < 0 {
		errs = append(errs, fmt.Errorf("guard interval must not be negative, got %s", c.GuardInterval))
	}
	if c.Cleanup < CleanupNone || c.Cleanup > CleanupDetach {
		errs = append(errs, fmt.Errorf("unknown cleanup mode %d", c.Cleanup))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
