package graph

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRun(t *testing.T) {
	p := NewPool(2, 0)
	defer p.Close()

	value, err := p.Run(context.Background(), func(ctx context.Context) (any, error) {
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const workers = 3
	p := NewPool(workers, 0)
	defer p.Close()

	var current, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Run(context.Background(), func(ctx context.Context) (any, error) {
				n := atomic.AddInt64(&current, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return nil, nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(workers))
	assert.Greater(t, atomic.LoadInt64(&peak), int64(0))
}

func TestPoolDispatchFuture(t *testing.T) {
	p := NewPool(1, 0)
	defer p.Close()

	out := p.Dispatch(context.Background(), func(ctx context.Context) (any, error) {
		return 7, nil
	})

	res := <-out
	require.NoError(t, res.Err)
	assert.Equal(t, 7, res.Value)
}

func TestPoolRunCancelledCaller(t *testing.T) {
	p := NewPool(1, 0)
	defer p.Close()

	started := make(chan struct{})
	release := make(chan struct{})

	// Occupy the only worker.
	go p.Run(context.Background(), func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return nil, nil
	})
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx, func(ctx context.Context) (any, error) {
			return nil, nil
		})
		done <- err
	}()

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}

func TestPoolTaskSurvivesCallerCancellation(t *testing.T) {
	p := NewPool(1, 0)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{})

	out := p.Dispatch(ctx, func(taskCtx context.Context) (any, error) {
		// Dispatched work runs to completion; its context must not carry
		// the caller's cancellation.
		cancel()
		select {
		case <-taskCtx.Done():
			t.Error("task context cancelled after dispatch")
		default:
		}
		close(ran)
		return nil, nil
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	res := <-out
	assert.NoError(t, res.Err)
}
