package guard

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Verbose(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{})   {}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"", ModeNone, true},
		{"none", ModeNone, true},
		{"pipe", ModePipe, true},
		{"detach", ModeDetach, true},
		{"forkbomb", ModeNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWatchPipe_DropsOnPipeClose(t *testing.T) {
	var dropped atomic.Bool
	w := NewWatcher(func(context.Context) error {
		dropped.Store(true)
		return nil
	}, nopLogger{})

	r, wr := io.Pipe()
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.WatchPipe(context.Background(), r)
	}()

	// Watcher must stay blocked while the write end is open.
	time.Sleep(50 * time.Millisecond)
	if dropped.Load() {
		t.Fatal("dropped before pipe closed")
	}
	if got := w.State(); got != StateWatching {
		t.Fatalf("state = %v, want StateWatching", got)
	}

	wr.Close()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("WatchPipe returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WatchPipe did not return after pipe close")
	}
	if !dropped.Load() {
		t.Fatal("database was not dropped")
	}
	if got := w.State(); got != StateExited {
		t.Errorf("state = %v, want StateExited", got)
	}
}

func TestWatchPipe_SignalCancellationCleans(t *testing.T) {
	var dropped atomic.Bool
	w := NewWatcher(func(context.Context) error {
		dropped.Store(true)
		return nil
	}, nopLogger{})

	r, wr := io.Pipe()
	defer wr.Close()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.WatchPipe(ctx, r)
	}()

	cancel()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("WatchPipe did not return after cancellation")
	}
	if !dropped.Load() {
		t.Fatal("cancellation must still clean up")
	}
}

func TestPollParent_DropsWhenParentDies(t *testing.T) {
	var polls atomic.Int32
	alive := func(pid int) bool {
		return polls.Add(1) < 3
	}
	var dropped atomic.Bool
	w := NewWatcher(func(context.Context) error {
		dropped.Store(true)
		return nil
	}, nopLogger{})

	err := w.PollParent(context.Background(), 12345, time.Millisecond, alive)
	if err != nil {
		t.Fatalf("PollParent returned error: %v", err)
	}
	if !dropped.Load() {
		t.Fatal("database was not dropped")
	}
	if got := w.State(); got != StateExited {
		t.Errorf("state = %v, want StateExited", got)
	}
}

func TestClean_RetriesTransientDropFailures(t *testing.T) {
	var calls atomic.Int32
	w := NewWatcher(func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("database is being accessed by other users")
		}
		return nil
	}, nopLogger{})

	r, wr := io.Pipe()
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.WatchPipe(context.Background(), r)
	}()
	wr.Close()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("expected retries to succeed, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("WatchPipe did not return")
	}
	if calls.Load() != 3 {
		t.Errorf("drop called %d times, want 3", calls.Load())
	}
}

func TestAlive_SelfIsAlive(t *testing.T) {
	pid := os.Getpid()
	if !Alive(pid) {
		t.Errorf("Alive(%d) = false for the current process", pid)
	}
}

func TestDetachArgs_NameVisibleInArgv(t *testing.T) {
	args := DetachArgs("postgres://localhost", "tmp_1000_x", 42, 2*time.Second)
	found := false
	for _, a := range args {
		if a == "tmp_1000_x" {
			found = true
		}
	}
	if !found {
		t.Errorf("guarded database name missing from argv: %v", args)
	}
}
