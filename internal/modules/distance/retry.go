package distance

import (
	"context"
	"time"
)

const (
	maxAttempts    = 3
	initialBackoff = 2 * time.Second
	attemptTimeout = 15 * time.Second
)

// outcome is the typed result of a single external-call attempt.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeRetryable
	outcomeTerminal
)

// runWithBackoff executes attempt up to maxAttempts times, sleeping with an
// exponentially doubling delay between retryable failures. Results travel
// through the attempt closure; the return value only reports success.
func runWithBackoff(ctx context.Context, sleep func(time.Duration), attempt func(context.Context) outcome) bool {
	delay := initialBackoff
	for i := 0; i < maxAttempts; i++ {
		actx, cancel := context.WithTimeout(ctx, attemptTimeout)
		result := attempt(actx)
		cancel()

		switch result {
		case outcomeSuccess:
			return true
		case outcomeTerminal:
			return false
		}
		if i < maxAttempts-1 {
			sleep(delay)
			delay *= 2
		}
	}
	return false
}

// firstOf returns the result of the first step that yields a value.
func firstOf[T any](steps ...func() (T, bool)) (T, bool) {
	for _, step := range steps {
		if v, ok := step(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
