package graphql

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// RetryPolicy controls retry behaviour for transport failures.
// Application and partial errors are never retried.
type RetryPolicy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
}

// DefaultRetryPolicy returns the policy used by the storefront app:
// up to five attempts, exponential backoff from 300ms capped at 3s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialDelay: 300 * time.Millisecond,
		MaxDelay:     3 * time.Second,
		MaxAttempts:  5,
	}
}

// Delay returns the jittered backoff before the given retry. attempt is
// 1-based: Delay(1) precedes the second overall attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := p.InitialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			delay = p.MaxDelay
			break
		}
	}
	return addJitter(delay)
}

// addJitter spreads the delay by +/-25% so concurrent clients recovering
// from the same outage do not retry in lockstep.
func addJitter(d time.Duration) time.Duration {
	jitter := time.Duration(rand.Int63n(int64(d) / 2))
	return d - d/4 + jitter
}

// Retry re-executes the wrapped stage on network errors, sleeping the
// policy delay between attempts. The context cancels the wait.
func Retry(policy RetryPolicy, logger *slog.Logger) Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			var resp *Response
			var err error
			for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
				resp, err = next(ctx, req)
				if err == nil || !IsRetryable(err) {
					return resp, err
				}
				if attempt == policy.MaxAttempts {
					break
				}

				delay := policy.Delay(attempt)
				logger.WarnContext(ctx, "retrying request",
					slog.String("operation", req.OperationName),
					slog.Int("attempt", attempt),
					slog.Duration("delay", delay),
					slog.String("error", err.Error()),
				)

				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return nil, &NetworkError{Operation: req.OperationName, Err: ctx.Err()}
				}
			}
			return resp, err
		}
	}
}
