// Package routines provides a fixed size pool of go-routines.
package routines

import "sync"

// Pool executes queued functions with a fixed number of go-routines.
type Pool struct {
	workCh    chan func()
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool starts a pool with workers go-routines.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := Pool{
		workCh: make(chan func()),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return &p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for fn := range p.workCh {
		fn()
	}
}

// Queue schedules fn for execution.
// It blocks until a worker is available.
// Calling Queue after Wait panics.
func (p *Pool) Queue(fn func()) {
	p.workCh <- fn
}

// Wait waits until all queued functions were executed and terminates the
// go-routines of the pool.
func (p *Pool) Wait() {
	p.closeOnce.Do(func() {
		close(p.workCh)
	})

	p.wg.Wait()
}
