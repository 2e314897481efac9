package app

import (
	"context"
	"sync"
	"time"
)

// pacer spaces request starts at least delay apart across all workers.
// The first request is not delayed.
type pacer struct {
	mu    sync.Mutex
	delay time.Duration
	next  time.Time
}

func newPacer(delay time.Duration) *pacer { return &pacer{delay: delay} }

// Wait blocks until the caller's slot arrives or ctx ends.
func (p *pacer) Wait(ctx context.Context) error {
	if p == nil || p.delay <= 0 {
		return ctx.Err()
	}
	p.mu.Lock()
	now := time.Now()
	at := p.next
	if at.Before(now) {
		at = now
	}
	p.next = at.Add(p.delay)
	p.mu.Unlock()

	d := time.Until(at)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
