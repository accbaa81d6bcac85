// internal/downloader/pool.go
package downloader

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// WorkerPool manages concurrent downloads using a worker pool pattern
type WorkerPool struct {
	downloader  *Downloader
	concurrency int

	// OnDone is called after each download, from the worker goroutine.
	OnDone func(*Result)
}

// NewWorkerPool creates a new worker pool with specified concurrency
func NewWorkerPool(concurrency int, d *Downloader) *WorkerPool {
	if concurrency <= 0 {
		concurrency = 4
	}
	if concurrency > 16 {
		concurrency = 16
	}
	return &WorkerPool{downloader: d, concurrency: concurrency}
}

type indexedJob struct {
	index int
	job   Job
}

// DownloadBatch downloads every job into outputDir. Results are returned in
// job order; jobs skipped after cancellation carry the context error.
func (wp *WorkerPool) DownloadBatch(ctx context.Context, jobs []Job, outputDir string) []*Result {
	results := make([]*Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	queue := make(chan indexedJob)
	var wg sync.WaitGroup
	workers := min(wp.concurrency, len(jobs))
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go wp.worker(ctx, w, queue, results, outputDir, &wg)
	}

feed:
	for i, job := range jobs {
		select {
		case queue <- indexedJob{index: i, job: job}:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	wg.Wait()

	for i, r := range results {
		if r == nil {
			results[i] = &Result{URL: jobs[i].URL, Error: fmt.Errorf("download skipped: %w", ctx.Err())}
		}
	}
	return results
}

// worker processes download jobs from the queue
func (wp *WorkerPool) worker(ctx context.Context, id int, queue <-chan indexedJob, results []*Result, outputDir string, wg *sync.WaitGroup) {
	defer wg.Done()

	for item := range queue {
		log.Debug().
			Int("worker_id", id).
			Str("url", item.job.URL).
			Msg("Worker processing download")

		result := wp.downloader.Download(ctx, item.job, outputDir)
		results[item.index] = result
		if wp.OnDone != nil {
			wp.OnDone(result)
		}
	}
}
