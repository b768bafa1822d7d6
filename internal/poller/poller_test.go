package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_FetchesImmediatelyAndOnInterval(t *testing.T) {
	var fetches int32
	updates := make(chan int, 10)
	p := &Poller[int]{
		Interval: 10 * time.Millisecond,
		Fetch: func(ctx context.Context) (int, error) {
			return int(atomic.AddInt32(&fetches, 1)), nil
		},
		OnUpdate: func(n int) { updates <- n },
	}

	stop := p.Start(context.Background())
	defer stop()

	for want := 1; want <= 3; want++ {
		select {
		case got := <-updates:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("no update %d", want)
		}
	}
}

func TestPoller_NoUpdatesAfterStop(t *testing.T) {
	var afterStop atomic.Bool
	var stopped atomic.Bool
	p := &Poller[int]{
		Interval: time.Millisecond,
		Fetch: func(ctx context.Context) (int, error) {
			time.Sleep(2 * time.Millisecond)
			return 1, nil
		},
		OnUpdate: func(int) {
			if stopped.Load() {
				afterStop.Store(true)
			}
		},
	}

	stop := p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	stop()
	stopped.Store(true)
	time.Sleep(20 * time.Millisecond)
	stop()

	assert.False(t, afterStop.Load())
}

func TestPoller_ErrorsGoToOnError(t *testing.T) {
	boom := errors.New("boom")
	errs := make(chan error, 1)
	p := &Poller[int]{
		Interval: time.Hour,
		Fetch:    func(ctx context.Context) (int, error) { return 0, boom },
		OnUpdate: func(int) { t.Error("unexpected update") },
		OnError: func(err error) {
			select {
			case errs <- err:
			default:
			}
		},
	}
	stop := p.Start(context.Background())
	defer stop()

	select {
	case err := <-errs:
		require.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("no error reported")
	}
}

func TestPoller_RunReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p := &Poller[int]{
		Interval: time.Hour,
		Fetch:    func(ctx context.Context) (int, error) { return 0, nil },
	}
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
