package pipeline

import (
	"context"
	"sync"
	"time"

	"greenjobs/internal/domain/measures"
)

// BatchTask measures one advert chunk and reports its outcome.
type BatchTask func(ctx context.Context) BatchResult

// BatchResult is one chunk's outcome: its position in the run, the
// record-scoped null tallies and any batch-scoped error.
type BatchResult struct {
	Index    int
	Size     int
	Nulls    measures.NullCounts
	Err      error
	Duration time.Duration
}

// WorkerPool runs advert chunks on a fixed number of workers. A cancelled
// context stops workers at the next chunk boundary: a running chunk
// completes, a queued chunk is skipped.
type WorkerPool struct {
	workers int
	tasks   chan BatchTask
	wg      sync.WaitGroup
}

func NewWorkerPool(workers, buffer int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &WorkerPool{
		workers: workers,
		tasks:   make(chan BatchTask, buffer),
	}
}

func (p *WorkerPool) Submit(t BatchTask) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

func (p *WorkerPool) Close() {
	if p == nil {
		return
	}
	close(p.tasks)
}

// Run starts the workers and returns the result channel, closed once every
// submitted task has finished or been skipped.
func (p *WorkerPool) Run(ctx context.Context) <-chan BatchResult {
	out := make(chan BatchResult, p.workers*4)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					res := t(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- res:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}
