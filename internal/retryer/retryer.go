// Package retryer runs operations repeatedly when they fail with a
// pinerr.RetryableError.
package retryer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"go.uber.org/zap"

	"github.com/simplesurance/pinbump/internal/logfields"
	"github.com/simplesurance/pinbump/internal/pinerr"
)

const (
	DefMaxRetries = 1
	DefInterval   = time.Second
)

// Retryer executes a function until it was successful, it failed with an
// error that is not retryable or the retry budget is exhausted.
type Retryer struct {
	logger     *zap.Logger
	maxRetries uint64
	interval   time.Duration
}

type Option func(*Retryer)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Retryer) {
		r.logger = logger
	}
}

// New returns a Retryer that retries maxRetries times and waits interval
// between the executions.
func New(maxRetries uint64, interval time.Duration, opts ...Option) *Retryer {
	r := Retryer{
		maxRetries: maxRetries,
		interval:   interval,
	}

	for _, opt := range opts {
		opt(&r)
	}

	if r.logger == nil {
		r.logger = zap.L().Named("retryer")
	}

	return &r
}

// Run executes fn until it was successful, it returned an error that
// does not wrap pinerr.RetryableError, fn was retried maxRetries times or the
// execution was aborted via the context.
// The error of the last execution is returned.
func (r *Retryer) Run(ctx context.Context, fn func(context.Context) error, logF []zap.Field) error {
	var tryCnt uint

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.interval), r.maxRetries),
		ctx,
	)

	logger := r.logger.With(logF...)

	err := backoff.RetryNotify(
		func() error {
			tryCnt++

			err := fn(ctx)
			if err == nil {
				return nil
			}

			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}

			var retryError *pinerr.RetryableError
			if !errors.As(err, &retryError) {
				logger.Debug(
					"operation failed, not retryable",
					logfields.Event("operation_failed"),
					zap.Uint("try_count", tryCnt),
					zap.Error(err),
				)

				return backoff.Permanent(err)
			}

			if !retryError.After.IsZero() && time.Until(retryError.After) > r.interval {
				logger.Debug(
					"operation failed, next possible retry time is after the retry interval",
					logfields.Event("operation_failed"),
					zap.Uint("try_count", tryCnt),
					zap.Time("earliest_allowed_retry", retryError.After),
					zap.Error(err),
				)

				return backoff.Permanent(err)
			}

			return err
		},
		bo,
		func(err error, retryIn time.Duration) {
			logger.Debug(
				"operation failed, retry scheduled",
				logfields.Event("operation_retry_scheduled"),
				zap.Uint("try_count", tryCnt),
				zap.Duration("retry_in", retryIn),
				zap.Error(err),
			)
		},
	)
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return fmt.Errorf("%w, last error: %s", ctxErr, err)
	}

	return err
}
