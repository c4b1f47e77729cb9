package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/dgallion1/sententia/internal/morph"
)

// MaxRetries bounds the attempts Retrying makes per word.
const MaxRetries = 3

// RetryableError indicates a transient failure of the lookup service.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable lookup error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns the wait before attempt n (0-indexed): base doubled per
// attempt, capped at 30 base units, plus up to half again of jitter.
func Backoff(base time.Duration, attempt int) time.Duration {
	d := base << uint(attempt)
	if limit := 30 * base; d > limit || d <= 0 {
		d = limit
	}
	if d < 2 {
		return d
	}
	return d + time.Duration(rand.Int64N(int64(d)/2))
}

// Retrying retries retryable failures of the wrapped lookup with backoff.
type Retrying struct {
	Next Lookup
	Base time.Duration
	Log  *slog.Logger
}

// NewRetrying wraps next with a one-second backoff base.
func NewRetrying(next Lookup, log *slog.Logger) *Retrying {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Retrying{Next: next, Base: time.Second, Log: log}
}

func (r *Retrying) Lookup(ctx context.Context, word string) ([]morph.CandidateParse, error) {
	var lastErr error
	for attempt := range MaxRetries {
		ps, err := r.Next.Lookup(ctx, word)
		if err == nil || !IsRetryable(err) {
			return ps, err
		}
		lastErr = err
		if attempt == MaxRetries-1 {
			break
		}
		r.Log.Warn("retryable lookup error", "word", word, "attempt", attempt, "error", err)
		select {
		case <-time.After(Backoff(r.Base, attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("lookup %q: giving up after %d attempts: %w", word, MaxRetries, lastErr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
