// Package config reads the process-wide overrides and the optional
// project file that tune tmpdb's behavior.
package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables consulted at runtime.
const (
	// EnvURL is where the fully resolved database URL is published after
	// every successful create, for collaborating tools to pick up.
	EnvURL = "TMPDB_URL"

	// EnvKeep keeps databases around instead of dropping them.
	EnvKeep = "TMPDB_KEEP_DATABASE"

	// EnvSilent suppresses the informational output printed when a
	// database is kept.
	EnvSilent = "TMPDB_SILENT"

	// EnvDebug enables verbose diagnostics, including guard stderr.
	EnvDebug = "TMPDB_DEBUG"

	// EnvMaxAttempts overrides the creation attempt ceiling.
	EnvMaxAttempts = "TMPDB_MAX_CREATE_ATTEMPTS"

	// EnvGuardInterval overrides the detached watcher's poll interval.
	EnvGuardInterval = "TMPDB_GUARD_INTERVAL"

	// EnvHelper overrides where the guard helper binary is found.
	EnvHelper = "TMPDB_HELPER"
)

// Env is the snapshot of all environment overrides.
type Env struct {
	Keep          bool
	Silent        bool
	Debug         bool
	MaxAttempts   int           // 0 means unset
	GuardInterval time.Duration // 0 means unset
	Helper        string
}

// FromEnv reads the current process environment.
func FromEnv() Env {
	return Env{
		Keep:          truthy(os.Getenv(EnvKeep)),
		Silent:        truthy(os.Getenv(EnvSilent)),
		Debug:         truthy(os.Getenv(EnvDebug)),
		MaxAttempts:   positiveInt(os.Getenv(EnvMaxAttempts)),
		GuardInterval: duration(os.Getenv(EnvGuardInterval)),
		Helper:        os.Getenv(EnvHelper),
	}
}

func truthy(s string) bool {
	switch s {
	case "", "0", "false", "no":
		return false
	}
	return true
}

func positiveInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// duration accepts Go duration syntax or bare seconds.
func duration(s string) time.Duration {
	if s == "" {
		return 0
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return 0
}
