package tmpdb

import (
	"time"

	"github.com/vvka-141/tmpdb/internal/config"
	"github.com/vvka-141/tmpdb/internal/name"
)

const (
	// DefaultTemplate is the name template used when Config.Template is
	// empty. See the name placeholder documentation on Config.Template.
	DefaultTemplate = "tmp_%U_%T_%H_%X%i"

	// DefaultMaxCreateAttempts bounds the provisioning loop.
	DefaultMaxCreateAttempts = 20

	// DefaultGuardInterval is how often a detached watcher probes whether
	// the owning process is still alive.
	DefaultGuardInterval = 2 * time.Second

	// MaxNameLength is the identifier ceiling shared by the supported
	// server catalogs.
	MaxNameLength = name.MaxLength
)

// Environment variables honored by this package. Re-exported so callers do
// not reach into internal packages for the names.
const (
	// EnvURL receives the fully resolved URL of the most recently created
	// database, for collaborating tools. Last write wins.
	EnvURL = config.EnvURL

	// EnvKeep disables dropping; databases survive the process.
	EnvKeep = config.EnvKeep

	// EnvSilent suppresses the note printed when a database is kept.
	EnvSilent = config.EnvSilent

	// EnvDebug turns on verbose diagnostics.
	EnvDebug = config.EnvDebug

	// EnvMaxAttempts overrides DefaultMaxCreateAttempts.
	EnvMaxAttempts = config.EnvMaxAttempts

	// EnvGuardInterval overrides DefaultGuardInterval.
	EnvGuardInterval = config.EnvGuardInterval

	// EnvHelper points at the guard helper binary when it is not on PATH.
	EnvHelper = config.EnvHelper
)
