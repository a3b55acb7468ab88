package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/syla/execution-service/internal/queue"
	"github.com/syla/execution-service/internal/sandbox"
	"github.com/syla/execution-service/internal/store"
)

// Pool runs N symmetric Workers concurrently against a shared store,
// queue and sandbox.
type Pool struct {
	workers []*Worker
}

// NewPool builds size workers, each with its own id for logging.
func NewPool(size int, s store.Store, q queue.Queue, sb sandbox.Sandbox, mirror Mirror) *Pool {
	if size < 1 {
		size = 1
	}
	workers := make([]*Worker, size)
	for i := 0; i < size; i++ {
		w := New(fmt.Sprintf("w%d", i), s, q, sb)
		w.Mirror = mirror
		workers[i] = w
	}
	return &Pool{workers: workers}
}

// Run starts every worker and blocks until ctx is cancelled and all of
// them have returned.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			w.Run(ctx)
		}(w)
	}
	wg.Wait()
}
