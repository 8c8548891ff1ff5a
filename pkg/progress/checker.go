// Package progress provides cooperative cancellation checkpoints for long
// tree walks.
package progress

import (
	"context"
	"errors"
	"fmt"
)

// ErrCanceled is returned (wrapped) when a checkpoint observes that the
// operation is no longer wanted. Callers discard all partial results and
// may retry later.
var ErrCanceled = errors.New("operation canceled")

// DefaultInterval polls the context at every checkpoint.
const DefaultInterval = 1

// Checker polls a context at bounded intervals. It is not safe for
// concurrent use; create one per operation.
type Checker struct {
	ctx      context.Context
	interval int
	count    int
}

// NewChecker creates a checker polling ctx once every interval checkpoints.
// Intervals below 1 are treated as 1.
func NewChecker(ctx context.Context, interval int) *Checker {
	if ctx == nil {
		ctx = context.Background()
	}
	if interval < 1 {
		interval = DefaultInterval
	}
	return &Checker{ctx: ctx, interval: interval}
}

// Context returns the polled context.
func (c *Checker) Context() context.Context {
	return c.ctx
}

// Check records a checkpoint and returns an error wrapping ErrCanceled if
// the context is done.
func (c *Checker) Check() error {
	c.count++
	if c.count%c.interval != 0 {
		return nil
	}
	return Canceled(c.ctx)
}

// Count returns the number of checkpoints passed.
func (c *Checker) Count() int {
	return c.count
}

// Canceled returns an error wrapping both ErrCanceled and the context error
// if ctx is done, or nil otherwise.
func Canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return nil
}
