package retry

import "time"

// Immediate retries up to Retries times with no delay between attempts.
// Used by the provisioning loop, where a name collision is resolved by
// generating the next candidate, not by waiting.
type Immediate struct {
	Retries int
}

// MaxAttempts implements Strategy.
func (s Immediate) MaxAttempts() int { return s.Retries }

// NextDelay implements Strategy.
func (s Immediate) NextDelay(int) time.Duration { return 0 }

// Exponential doubles the delay after every attempt, capped at MaxDelay.
type Exponential struct {
	Retries      int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// MaxAttempts implements Strategy.
func (s Exponential) MaxAttempts() int { return s.Retries }

// NextDelay implements Strategy.
func (s Exponential) NextDelay(attempt int) time.Duration {
	delay := s.InitialDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	for i := 0; i < attempt; i++ {
		delay *= 2
		if s.MaxDelay > 0 && delay >= s.MaxDelay {
			return s.MaxDelay
		}
	}
	if s.MaxDelay > 0 && delay > s.MaxDelay {
		return s.MaxDelay
	}
	return delay
}
