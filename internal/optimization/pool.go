package optimization

import (
	"sync"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rgehrsitz/rothsim/internal/domain"
)

// ProgressFunc reports sweep progress. It is always called from the goroutine
// that started the sweep, so implementations need no locking.
type ProgressFunc func(done, total int, label string)

// candidate is one scenario variant to evaluate
type candidate struct {
	label    string
	scenario domain.Scenario
}

// WorkerPool evaluates candidates, optionally in parallel. Results always come
// back in input order regardless of completion order.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a pool; n <= 0 means a single inline worker
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = 1
	}
	return &WorkerPool{numWorkers: n}
}

// Workers returns the configured worker count
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// Evaluate simulates every candidate and returns their summaries in input order
func (wp *WorkerPool) Evaluate(engine *calculation.Engine, candidates []candidate, progress ProgressFunc) []domain.Summary {
	n := len(candidates)
	summaries := make([]domain.Summary, n)
	if n == 0 {
		return summaries
	}

	if wp.numWorkers == 1 {
		for i, c := range candidates {
			summaries[i] = engine.RunSimulation(c.scenario).Summary
			if progress != nil {
				progress(i+1, n, c.label)
			}
		}
		return summaries
	}

	jobs := make(chan jobItem, n)
	results := make(chan resultItem, n)

	numActualWorkers := wp.numWorkers
	if n < numActualWorkers {
		numActualWorkers = n
	}

	var wg sync.WaitGroup
	for i := 0; i < numActualWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(engine, jobs, results)
		}()
	}

	for idx, c := range candidates {
		jobs <- jobItem{index: idx, scenario: c.scenario}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for r := range results {
		summaries[r.index] = r.summary
		done++
		if progress != nil {
			progress(done, n, candidates[r.index].label)
		}
	}
	return summaries
}

type jobItem struct {
	index    int
	scenario domain.Scenario
}

type resultItem struct {
	index   int
	summary domain.Summary
}

func worker(engine *calculation.Engine, jobs <-chan jobItem, results chan<- resultItem) {
	for job := range jobs {
		results <- resultItem{
			index:   job.index,
			summary: engine.RunSimulation(job.scenario).Summary,
		}
	}
}
