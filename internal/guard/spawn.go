package guard

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// HelperName is the executable the supervisor re-enters through.
const HelperName = "tmpdb"

// Controller abstracts process creation so the supervisor can be exercised
// in tests without spawning anything.
type Controller interface {
	// StartPipeWatcher starts the helper and returns the write end of its
	// stdin pipe. The caller holds it for the process lifetime; the OS
	// closes it when the caller exits, releasing the watcher.
	StartPipeWatcher(helper string, args []string) (io.Closer, error)

	// StartDetached starts the helper in its own session so it survives
	// the caller, the caller's process group, and the caller's terminal.
	StartDetached(helper string, args []string) error
}

// ExecController is the real Controller backed by os/exec.
type ExecController struct {
	// Debug passes the caller's stderr through to the watcher so its
	// diagnostics stay visible. Otherwise all descriptors are detached.
	Debug bool
}

// StartPipeWatcher implements Controller.
func (c *ExecController) StartPipeWatcher(helper string, args []string) (io.Closer, error) {
	cmd := exec.Command(helper, args...)
	if c.Debug {
		cmd.Stderr = os.Stderr
	}
	w, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create guard pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start pipe watcher: %w", err)
	}
	// The watcher outlives us on purpose; never wait for it.
	_ = cmd.Process.Release()
	return w, nil
}

// StartDetached implements Controller. The started helper becomes a session
// leader and is reparented by the kernel once the caller exits, the same
// detachment a double fork buys.
func (c *ExecController) StartDetached(helper string, args []string) error {
	cmd := exec.Command(helper, args...)
	cmd.SysProcAttr = detachedSysProcAttr()
	if c.Debug {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start detached watcher: %w", err)
	}
	_ = cmd.Process.Release()
	return nil
}

// FindHelper locates the watcher executable. Resolution order: explicit
// override, the current executable when it already is the helper, PATH.
func FindHelper(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if exe, err := os.Executable(); err == nil {
		base := filepath.Base(exe)
		if base == HelperName || base == HelperName+".exe" {
			return exe, nil
		}
	}
	path, err := exec.LookPath(HelperName)
	if err != nil {
		return "", fmt.Errorf("locate %q helper: %w", HelperName, err)
	}
	return path, nil
}

// PipeArgs builds the helper invocation for pipe-watch mode. The guarded
// database name rides in argv, so a process listing shows what the watcher
// protects.
func PipeArgs(rawURL, dbName string) []string {
	return []string{"guard", "--mode", "pipe", "--url", rawURL, "--name", dbName}
}

// DetachArgs builds the helper invocation for detached mode.
func DetachArgs(rawURL, dbName string, parentPID int, interval time.Duration) []string {
	return []string{
		"guard", "--mode", "detach",
		"--url", rawURL,
		"--name", dbName,
		"--parent", strconv.Itoa(parentPID),
		"--interval", interval.String(),
	}
}
