package timeutils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrAllAttemptsFailed = errors.New("all attempts failed")

// Retry runs function once per entry in attemptDelays, sleeping the delay
// after every attempt onFinished asks to repeat.
func Retry[T any](
	ctx context.Context,
	attemptDelays []time.Duration,
	function func(context.Context) (T, error),
	onFinished func(T, error) (needRetry bool),
) (T, error) {
	var zero T
	for _, delay := range attemptDelays {
		if ctx.Err() != nil {
			return zero, fmt.Errorf("retry canceled: %w", ctx.Err())
		}
		res, err := function(ctx)
		if !onFinished(res, err) {
			return res, err
		}
		if err := SleepCtx(ctx, delay); err != nil {
			return zero, err
		}
	}
	return zero, ErrAllAttemptsFailed
}

func SleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("sleep canceled: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}
