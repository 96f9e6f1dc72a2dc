package retry

import (
	"context"
	"time"
)

// Classifier decides whether an error is worth retrying.
type Classifier interface {
	IsTransient(err error) bool
}

// Strategy controls how many retries happen and how long to wait between
// them. MaxAttempts is the number of retries after the initial attempt;
// a negative value retries indefinitely.
type Strategy interface {
	MaxAttempts() int
	NextDelay(attempt int) time.Duration
}

// TransientFunc adapts a plain function to the Classifier interface.
type TransientFunc func(error) bool

// IsTransient implements Classifier.
func (f TransientFunc) IsTransient(err error) bool { return f(err) }

// Always classifies every error as transient.
var Always Classifier = TransientFunc(func(error) bool { return true })

// Executor runs an operation with retries governed by a Classifier and a
// Strategy. Safe for concurrent use; WithOnRetry returns a configured copy
// instead of mutating the receiver.
type Executor struct {
	classifier Classifier
	strategy   Strategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates an Executor. Panics if classifier or strategy is nil.
func NewExecutor(classifier Classifier, strategy Strategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{classifier: classifier, strategy: strategy}
}

// WithOnRetry returns a copy of the executor that invokes callback before
// each retry attempt.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails fatally, exhausts the
// strategy, or the context is cancelled. The error of the last attempt is
// returned.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	lastErr := operation(ctx)
	if lastErr == nil {
		return nil
	}
	if !e.classifier.IsTransient(lastErr) {
		return lastErr
	}

	maxAttempts := e.strategy.MaxAttempts()
	for attempt := 0; maxAttempts < 0 || attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}
		if !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
	}

	return lastErr
}
