package redisstore

import (
	"context"
	"errors"
	"time"
)

const retryBackoff = 50 * time.Millisecond

// retry runs fn up to attempts times with a linear backoff. Context errors
// are final, as is the last attempt's error.
func retry(ctx context.Context, attempts int, fn func() error) error {
	var err error

	for i := range attempts {
		err = fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * retryBackoff):
		}
	}

	return err
}
