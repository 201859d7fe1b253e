package live

import (
	"context"
	"sync"
)

// Dispatcher is an unbounded FIFO hand-off between the reconciliation
// goroutine and a consumer bound to its own goroutine (an HTTP stream, a
// reporting worker). Producers call Enqueue from any goroutine; the consumer
// calls Run, which executes tasks one by one in enqueue order.
type Dispatcher struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	signal chan struct{} // buffered, size 1
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		tasks:  make([]func(), 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a task. Returns false once the dispatcher is closed.
func (d *Dispatcher) Enqueue(task func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	d.tasks = append(d.tasks, task)

	select {
	case d.signal <- struct{}{}:
	default:
	}
	return true
}

// Wrap returns a handler that defers h onto the dispatcher.
func (d *Dispatcher) Wrap(h Handler) Handler {
	return func(n Notification) {
		d.Enqueue(func() { h(n) })
	}
}

func (d *Dispatcher) tryDequeue() (func(), bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.tasks) == 0 {
		return nil, false
	}
	task := d.tasks[0]
	d.tasks[0] = nil
	if len(d.tasks) == 1 {
		d.tasks = d.tasks[:0]
	} else {
		d.tasks = d.tasks[1:]
	}
	return task, true
}

// Len returns the number of pending tasks.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.tasks)
}

// Run executes tasks until ctx is done or the dispatcher is closed and
// drained. It returns ctx.Err() on cancellation and nil after Close.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			task, ok := d.tryDequeue()
			if !ok {
				break
			}
			task()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-d.signal:
			if !ok {
				// closed: run whatever is left and stop
				for {
					task, ok := d.tryDequeue()
					if !ok {
						return nil
					}
					task()
				}
			}
		}
	}
}

// Close stops accepting tasks and lets Run return once drained.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	close(d.signal)
}
