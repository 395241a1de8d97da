package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(3, 0)
	results := pool.Run(context.Background())

	var ran atomic.Int32
	go func() {
		for i := 0; i < 10; i++ {
			id := i
			err := pool.Submit(context.Background(), Task{ID: id, Run: func(context.Context) error {
				ran.Add(1)
				if id%4 == 0 {
					return errors.New("odd one out")
				}
				return nil
			}})
			assert.NoError(t, err)
		}
		pool.Close()
	}()

	seen := map[int]bool{}
	failed := 0
	for r := range results {
		seen[r.ID] = true
		if r.Err != nil {
			failed++
		}
	}
	assert.Len(t, seen, 10)
	assert.Equal(t, 3, failed)
	assert.Equal(t, int32(10), ran.Load())
}

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2, 8)
	results := pool.Run(context.Background())

	var active, peak atomic.Int32
	for i := 0; i < 8; i++ {
		require.NoError(t, pool.Submit(context.Background(), Task{ID: i, Run: func(context.Context) error {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
			return nil
		}}))
	}
	pool.Close()
	for range results {
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestWorkerPool_SubmitAfterCancel(t *testing.T) {
	pool := NewWorkerPool(1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Submit(ctx, Task{ID: 1, Run: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkerPool_CancelStopsWorkers(t *testing.T) {
	pool := NewWorkerPool(2, 4)
	ctx, cancel := context.WithCancel(context.Background())
	results := pool.Run(ctx)
	cancel()

	select {
	case _, ok := <-results:
		for ok {
			_, ok = <-results
		}
	case <-time.After(2 * time.Second):
		t.Fatal("results channel not closed after cancel")
	}
}

func TestWorkerPool_NilIsInert(t *testing.T) {
	var pool *WorkerPool
	_, ok := <-pool.Run(context.Background())
	assert.False(t, ok)
	assert.NoError(t, pool.Submit(context.Background(), Task{}))
}
