package mockapi

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Poller refreshes on a fixed interval. A tick that fires while the previous
// fetch is still running is skipped rather than queued.
type Poller struct {
	interval time.Duration
	fetch    func(ctx context.Context) error
	onError  func(error)

	running atomic.Bool
	runs    atomic.Int64
	skipped atomic.Int64
	wg      sync.WaitGroup
}

// NewPoller builds a poller. onError may be nil.
func NewPoller(interval time.Duration, fetch func(ctx context.Context) error, onError func(error)) *Poller {
	if onError == nil {
		onError = func(error) {}
	}
	return &Poller{interval: interval, fetch: fetch, onError: onError}
}

// Run ticks until ctx is done, then waits for an in-flight fetch to return.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick starts a fetch unless one is already in flight and reports whether it
// started.
func (p *Poller) Tick(ctx context.Context) bool {
	if !p.running.CompareAndSwap(false, true) {
		p.skipped.Add(1)
		return false
	}
	p.runs.Add(1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.running.Store(false)
		if err := p.fetch(ctx); err != nil {
			p.onError(err)
		}
	}()
	return true
}

// Wait blocks until the in-flight fetch, if any, returns.
func (p *Poller) Wait() {
	p.wg.Wait()
}

// Runs counts started fetches.
func (p *Poller) Runs() int64 { return p.runs.Load() }

// Skipped counts ticks dropped because a fetch was in flight.
func (p *Poller) Skipped() int64 { return p.skipped.Load() }
