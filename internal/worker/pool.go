// Package worker offloads blocking calls onto a bounded set of goroutines so
// that a slow provider cannot pile up unbounded work behind request handlers.
package worker

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of concurrently running jobs.
type Pool struct {
	sem  *semaphore.Weighted
	size int64
}

// NewPool creates a pool running at most size jobs at once.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: int64(size),
	}
}

// Size returns the pool capacity.
func (p *Pool) Size() int {
	return int(p.size)
}

// Run executes fn on a pool goroutine and waits for it or for ctx.
//
// ctx is both the wait bound and the cancellation token passed to fn. When
// ctx ends first Run returns ctx.Err() immediately; the job keeps its slot
// until fn itself returns.
func Run[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer p.sem.Release(1)
		v, err := fn(ctx)
		done <- result{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
