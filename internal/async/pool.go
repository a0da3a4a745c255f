// Package async runs documents through the pipeline with a bounded worker
// pool. Each document is independent, so the only coordination needed is the
// in-flight bound, which also caps concurrent extraction-service calls.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ledgerline/invoice-pipeline/internal/pipeline"
)

type Pool struct {
	proc    *pipeline.Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration
}

type Option func(*Pool)

func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithDocTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewPool(proc *pipeline.Processor, logger *slog.Logger, opts ...Option) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pool{
		proc:    proc,
		logger:  logger,
		workers: 1,
		timeout: 3 * time.Minute,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run processes every path and returns one Result per path, in input order.
// A document that exceeds the per-document timeout is reported as failed
// without retry; it never blocks the others.
func (p *Pool) Run(ctx context.Context, paths []string) []pipeline.Result {
	results := make([]pipeline.Result, len(paths))
	idx := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range idx {
				docCtx, cancel := context.WithTimeout(ctx, p.timeout)
				results[i] = p.proc.Process(docCtx, paths[i])
				cancel()
				p.logger.Debug("pool.document.done",
					"worker_id", workerID, "path", paths[i], "status", results[i].Status)
			}
		}(w + 1)
	}

	for i := range paths {
		idx <- i
	}
	close(idx)
	wg.Wait()

	return results
}

// Summary aggregates batch reporting counts.
type Summary struct {
	OK       int
	Warnings int
	Failed   int
}

func Summarize(results []pipeline.Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case pipeline.StatusOK:
			s.OK++
		case pipeline.StatusWarnings:
			s.Warnings++
		case pipeline.StatusFailed:
			s.Failed++
		}
	}
	return s
}
