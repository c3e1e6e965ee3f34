package server

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// AIPool bounds how many bot decisions run concurrently across every
// session. Monte Carlo estimation is CPU-heavy; without the bound a burst
// of simultaneous bot turns could starve request handling.
type AIPool struct {
	sem *semaphore.Weighted
}

// NewAIPool creates a pool allowing workers concurrent decisions.
func NewAIPool(workers int) *AIPool {
	if workers < 1 {
		workers = 1
	}
	return &AIPool{sem: semaphore.NewWeighted(int64(workers))}
}

// Do runs fn once a slot is free, blocking until then or until ctx is
// cancelled. fn runs on the caller's goroutine.
func (p *AIPool) Do(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer p.sem.Release(1)
	fn()
	return nil
}
