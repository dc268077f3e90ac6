// worker/pool.go
package worker

import "sync"

// Job is a unit of deferred work, typically a store write whose failure
// is logged rather than surfaced.
type Job func() error

type Result struct {
	JobID string
	Err   error
}

// Pool runs queued jobs on a fixed set of goroutines and reports each
// outcome on Results.
type Pool struct {
	jobs    chan jobWrapper
	results chan Result
	wg      sync.WaitGroup
}

type jobWrapper struct {
	id string
	fn Job
}

func NewPool(workerCount int, bufferSize int) *Pool {
	p := &Pool{
		jobs:    make(chan jobWrapper, bufferSize),
		results: make(chan Result, bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.results <- Result{
			JobID: job.id,
			Err:   job.fn(),
		}
	}
}

func (p *Pool) Submit(id string, fn Job) {
	p.jobs <- jobWrapper{id: id, fn: fn}
}

func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close stops accepting jobs, waits for in-flight ones and closes the
// results channel.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}
