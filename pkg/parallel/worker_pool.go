package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/dd0wney/cluso-contactnet/pkg/logging"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // guards taskQueue against close during send
	closed    bool

	onPanic func(p *PanicError)
	logger  logging.Logger
}

var (
	// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers
	ErrTooManyWorkers = errors.New("worker count exceeds maximum")
	// ErrPoolClosed is returned when submitting to a closed pool
	ErrPoolClosed = errors.New("worker pool closed")
)

// MaxWorkers caps the pool size. One graph per task never needs more.
const MaxWorkers = 1 << 16

// PanicError wraps a value recovered from a panicking task
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Option configures a WorkerPool
type Option func(*WorkerPool)

// WithPanicHandler sets a callback invoked, on the worker goroutine, for
// every recovered task panic.
func WithPanicHandler(fn func(p *PanicError)) Option {
	return func(wp *WorkerPool) { wp.onPanic = fn }
}

// WithLogger sets the logger used to report recovered panics
func WithLogger(logger logging.Logger) Option {
	return func(wp *WorkerPool) { wp.logger = logger }
}

// NewWorkerPool starts a pool of workers goroutines. A non-positive count
// gives one worker.
func NewWorkerPool(workers int, opts ...Option) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(pool)
	}

	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		wp.run(task)
	}
}

// run executes one task; a panic is recovered so the worker keeps going
func (wp *WorkerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			p := &PanicError{Value: r, Stack: debug.Stack()}
			wp.logger.Error("worker recovered task panic", logging.Error(p))
			if wp.onPanic != nil {
				wp.onPanic(p)
			}
		}
	}()
	task()
}

// SubmitContext queues a task, blocking while the queue is full until ctx
// is done. It returns ErrPoolClosed after Close and ctx.Err() on cancellation.
func (wp *WorkerPool) SubmitContext(ctx context.Context, task func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolClosed
	}

	select {
	case wp.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for queued tasks to finish. It is
// safe to call more than once and from several goroutines.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}
