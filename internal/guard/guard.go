// Package guard implements the out-of-band cleanup supervisor.
//
// A guarded database gets a watcher process that drops it once the owning
// process is gone, catching crashes and kill -9 where the normal teardown
// path never runs. Two strategies exist: a pipe watcher that blocks on the
// read end of a pipe whose write end the parent holds (the OS closes it on
// parent exit), and a detached watcher running in its own session that
// polls the parent pid with a zero-signal liveness probe.
//
// The watcher runs a small state machine: armed -> watching -> cleaning ->
// exited. Cleanup is best effort and retried with backoff, since the
// server may still count connections from the dying parent.
package guard

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/vvka-141/tmpdb/internal/retry"
)

// Mode selects the supervision strategy.
type Mode int

const (
	ModeNone Mode = iota
	ModePipe
	ModeDetach
)

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModePipe:
		return "pipe"
	case ModeDetach:
		return "detach"
	default:
		return "none"
	}
}

// ParseMode converts a flag value into a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "none":
		return ModeNone, true
	case "pipe":
		return ModePipe, true
	case "detach":
		return ModeDetach, true
	}
	return ModeNone, false
}

// State describes where a watcher is in its lifecycle.
type State int32

const (
	StateArmed State = iota
	StateWatching
	StateCleaning
	StateExited
)

// Logger is the subset of logging the watcher needs.
type Logger interface {
	Verbose(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Watcher waits for the owning process to end, then drops the guarded
// database via the injected drop function.
type Watcher struct {
	state  atomic.Int32
	drop   func(ctx context.Context) error
	logger Logger
}

// NewWatcher creates a watcher in the armed state.
func NewWatcher(drop func(ctx context.Context) error, logger Logger) *Watcher {
	return &Watcher{drop: drop, logger: logger}
}

// State reports the watcher's current state.
func (w *Watcher) State() State {
	return State(w.state.Load())
}

// WatchPipe blocks reading r until it is closed, which happens when the
// process holding the write end exits, then runs cleanup. Cancelling ctx
// (the signal handler path) also triggers cleanup before returning.
func (w *Watcher) WatchPipe(ctx context.Context, r io.Reader) error {
	w.state.Store(int32(StateWatching))
	w.logger.Verbose("guard: watching pipe")

	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(io.Discard, r)
		close(done)
	}()

	select {
	case <-done:
		w.logger.Verbose("guard: pipe closed, parent is gone")
	case <-ctx.Done():
		w.logger.Verbose("guard: interrupted, cleaning up early")
	}
	return w.clean(context.WithoutCancel(ctx))
}

// PollParent probes the parent pid with alive at the given interval until
// the parent is gone, then runs cleanup. Cancelling ctx also triggers
// cleanup before returning.
func (w *Watcher) PollParent(ctx context.Context, pid int, interval time.Duration, alive func(pid int) bool) error {
	w.state.Store(int32(StateWatching))
	w.logger.Verbose("guard: polling parent pid %d every %s", pid, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Verbose("guard: interrupted, cleaning up early")
			return w.clean(context.WithoutCancel(ctx))
		case <-ticker.C:
			if !alive(pid) {
				w.logger.Verbose("guard: parent pid %d is gone", pid)
				return w.clean(context.WithoutCancel(ctx))
			}
		}
	}
}

func (w *Watcher) clean(ctx context.Context) error {
	w.state.Store(int32(StateCleaning))
	defer w.state.Store(int32(StateExited))

	executor := retry.NewExecutor(retry.Always, retry.Exponential{
		Retries:      5,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
	})
	err := executor.Execute(ctx, w.drop)
	if err != nil {
		w.logger.Error("guard: dropping guarded database failed: %v", err)
	}
	return err
}
