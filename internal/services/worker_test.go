package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelPoolRunsJobs(t *testing.T) {
	pool := NewModelPool(3, nil)
	pool.Start()
	defer pool.Stop()

	var calls atomic.Int32
	out, err := pool.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, int32(1), calls.Load())

	_, err = pool.Do(context.Background(), func(ctx context.Context) (string, error) {
		return "", errors.New("model exploded")
	})
	assert.EqualError(t, err, "model exploded")
}

func TestModelPoolBoundsConcurrency(t *testing.T) {
	pool := NewModelPool(2, nil)
	pool.Start()
	defer pool.Stop()

	var running, peak atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 6; i++ {
		go func() {
			_, _ = pool.Do(context.Background(), func(ctx context.Context) (string, error) {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return "", nil
			})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 6; i++ {
		<-done
	}

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestModelPoolStopped(t *testing.T) {
	pool := NewModelPool(1, nil)
	pool.Start()
	pool.Stop()
	pool.Stop()

	_, err := pool.Do(context.Background(), func(ctx context.Context) (string, error) {
		return "never", nil
	})
	assert.True(t, errors.Is(err, ErrPoolStopped))
}

func TestModelPoolContextCancelled(t *testing.T) {
	pool := NewModelPool(1, nil)
	pool.Start()
	defer pool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pool.Do(ctx, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
