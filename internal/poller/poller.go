// Package poller runs a fetch on a fixed interval until cancelled.
package poller

import (
	"context"
	"sync"
	"time"
)

const DefaultInterval = 30 * time.Second

type Poller[T any] struct {
	Interval time.Duration
	Fetch    func(ctx context.Context) (T, error)
	OnUpdate func(T)
	OnError  func(error)
}

// Run fetches immediately and then on every tick until ctx is done. Results
// arriving after ctx is done are dropped.
func (p *Poller[T]) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller[T]) poll(ctx context.Context) {
	v, err := p.Fetch(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		if p.OnError != nil {
			p.OnError(err)
		}
		return
	}
	if p.OnUpdate != nil {
		p.OnUpdate(v)
	}
}

// Start runs the poller in the background. Once the returned stop function
// returns, no further callbacks are made.
func (p *Poller[T]) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}
