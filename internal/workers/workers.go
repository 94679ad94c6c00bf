package workers

import "context"

// Workers aggregates the application's background workers.
type Workers struct {
	workers []Worker
}

// New returns a Workers aggregate over the given workers.
func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker. Each worker returns immediately and keeps its loop
// running until ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Run(ctx)
	}
}
