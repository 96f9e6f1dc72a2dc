package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecute_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	e := NewExecutor(Always, Immediate{Retries: 5})
	err := e.Execute(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestExecute_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	e := NewExecutor(Always, Immediate{Retries: 5})
	err := e.Execute(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("collision")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestExecute_ExhaustsAttempts(t *testing.T) {
	calls := 0
	lastErr := errors.New("still broken")
	e := NewExecutor(Always, Immediate{Retries: 4})
	err := e.Execute(context.Background(), func(context.Context) error {
		calls++
		return lastErr
	})
	if !errors.Is(err, lastErr) {
		t.Fatalf("want last error, got %v", err)
	}
	if calls != 5 { // initial attempt + 4 retries
		t.Errorf("expected 5 calls, got %d", calls)
	}
}

func TestExecute_FatalErrorStopsImmediately(t *testing.T) {
	fatal := errors.New("bad template")
	calls := 0
	classifier := TransientFunc(func(err error) bool { return !errors.Is(err, fatal) })
	e := NewExecutor(classifier, Immediate{Retries: 10})
	err := e.Execute(context.Background(), func(context.Context) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("want fatal error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestExecute_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := NewExecutor(Always, Exponential{Retries: 10, InitialDelay: time.Hour})
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Execute(ctx, func(context.Context) error {
			return errors.New("transient")
		})
	}()
	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Execute did not return after cancellation")
	}
}

func TestExecute_OnRetryCallback(t *testing.T) {
	var attempts []int
	e := NewExecutor(Always, Immediate{Retries: 2}).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		})
	_ = e.Execute(context.Background(), func(context.Context) error {
		return errors.New("transient")
	})
	if len(attempts) != 2 || attempts[0] != 0 || attempts[1] != 1 {
		t.Errorf("unexpected retry callbacks: %v", attempts)
	}
}

func TestExponential_NextDelay(t *testing.T) {
	s := Exponential{Retries: 5, InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, time.Second},
		{10, time.Second},
	}
	for _, tt := range tests {
		if got := s.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
