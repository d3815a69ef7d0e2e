package services

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrPoolStopped is returned by Do once the pool has been stopped.
var ErrPoolStopped = errors.New("worker pool stopped")

// ModelPool runs blocking model calls on a fixed number of goroutines so a slow
// backend cannot tie up every request handler.
type ModelPool interface {
	Start()
	Stop()
	Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error)
}

type poolJob struct {
	ctx    context.Context
	fn     func(ctx context.Context) (string, error)
	result chan poolResult
}

type poolResult struct {
	out string
	err error
}

type modelPool struct {
	jobs        chan poolJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	log         *zap.Logger
}

func NewModelPool(concurrency int, log *zap.Logger) ModelPool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &modelPool{
		jobs:        make(chan poolJob, concurrency*4),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		log:         log,
	}
}

// Start implements ModelPool.
func (p *modelPool) Start() {
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.process(i + 1)
	}
	p.log.Info("🚀 Model worker pool started", zap.Int("workers", p.concurrency))
}

// Stop implements ModelPool. Jobs still queued are abandoned; their callers get ErrPoolStopped.
func (p *modelPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
		p.wg.Wait()
		p.log.Info("✅ Model worker pool stopped")
	})
}

// Do implements ModelPool.
func (p *modelPool) Do(ctx context.Context, fn func(ctx context.Context) (string, error)) (string, error) {
	job := poolJob{ctx: ctx, fn: fn, result: make(chan poolResult, 1)}

	select {
	case <-p.stopChan:
		return "", ErrPoolStopped
	default:
	}

	select {
	case p.jobs <- job:
	case <-p.stopChan:
		return "", ErrPoolStopped
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-job.result:
		return res.out, res.err
	case <-p.stopChan:
		return "", ErrPoolStopped
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (p *modelPool) process(workerID int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			p.log.Debug("worker stopped", zap.Int("worker", workerID))
			return
		case job := <-p.jobs:
			if err := job.ctx.Err(); err != nil {
				job.result <- poolResult{err: err}
				continue
			}
			out, err := job.fn(job.ctx)
			job.result <- poolResult{out: out, err: err}
		}
	}
}
