package starlark

import (
	"runtime"
	"sync"

	"go.starlark.net/starlark"
)

// ThreadPool recycles Starlark threads across row evaluations so a
// per-row assertion does not allocate a fresh thread every row, including
// when rules run concurrently.
type ThreadPool struct {
	mu      sync.Mutex
	idle    []*starlark.Thread
	maxIdle int
}

// NewThreadPool creates a pool holding at most maxIdle parked threads.
// Non-positive sizes fall back to GOMAXPROCS, one thread per rule the
// engine can evaluate in parallel.
func NewThreadPool(maxIdle int) *ThreadPool {
	if maxIdle <= 0 {
		maxIdle = runtime.GOMAXPROCS(0)
	}
	return &ThreadPool{
		idle:    make([]*starlark.Thread, 0, maxIdle),
		maxIdle: maxIdle,
	}
}

// Get returns a parked thread or creates one. The name is used for
// error reporting (typically the rule ID).
func (p *ThreadPool) Get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.idle); n > 0 {
		thread := p.idle[n-1]
		p.idle = p.idle[:n-1]
		thread.Name = name
		return thread
	}

	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, _ string) {
			// Expressions must stay side-effect free; print is a no-op.
		},
	}
}

// Put parks a thread for reuse, discarding it when the pool is full.
func (p *ThreadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.idle) < p.maxIdle {
		thread.Name = ""
		p.idle = append(p.idle, thread)
	}
}

// Size returns the number of parked threads.
func (p *ThreadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
