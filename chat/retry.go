package chat

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/evertlam/chatkit/llm"
)

const (
	// retryInitialDelay is the backoff delay after the first failed attempt.
	// Subsequent delays double: 2s, 4s, 8s, ...
	retryInitialDelay = 2 * time.Second
	// retryMultiplier is the multiplier for exponential backoff.
	retryMultiplier = 2.0
	// retryMaxInterval caps a single backoff delay.
	retryMaxInterval = 10 * time.Minute
)

// OnRetry is invoked before each backoff delay with the number of the
// attempt that just failed, its error, and the upcoming delay.
type OnRetry func(attempt int, err error, delay time.Duration)

// Executor wraps an operation with bounded retries and exponential backoff.
// Every failure is retried identically up to the configured attempt count;
// there is no jitter and no classification of retryable vs non-retryable
// errors.
type Executor struct {
	attempts int
	timer    backoff.Timer // nil means real time; tests inject a fake
}

// NewExecutor creates an Executor that makes at most attempts calls.
func NewExecutor(attempts int) *Executor {
	if attempts < 1 {
		attempts = 1
	}
	return &Executor{attempts: attempts}
}

// Execute runs op until it succeeds or the attempt budget is exhausted.
// Between attempts it suspends for 2^attempt seconds without blocking other
// work; the context aborts the wait. The final failure is wrapped as a
// request_failed error carrying the attempt count and the last cause.
func (e *Executor) Execute(ctx context.Context, op func() error, onRetry OnRetry) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = retryInitialDelay
	eb.Multiplier = retryMultiplier
	eb.RandomizationFactor = 0
	eb.MaxInterval = retryMaxInterval
	eb.MaxElapsedTime = 0
	eb.Reset()

	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(e.attempts-1)), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		return op()
	}
	notify := func(err error, delay time.Duration) {
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}
	}

	if err := backoff.RetryNotifyWithTimer(operation, policy, notify, e.timer); err != nil {
		return llm.NewRequestFailedError(err, attempt)
	}
	return nil
}
