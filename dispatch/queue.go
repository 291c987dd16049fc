// Package dispatch runs closures serially on one designated goroutine.
//
// A Queue plays the role of a UI "main thread": state that only the queue
// goroutine mutates needs no further synchronization. Producers never block
// when submitting work with Async.
package dispatch

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrStopped is returned when work is submitted to a stopped queue.
	ErrStopped = errors.New("dispatch: queue stopped")
	// ErrRunning is returned by Start on a queue that is already running.
	ErrRunning = errors.New("dispatch: queue already running")
)

// Option configures a Queue.
type Option func(*Queue)

// WithLogger sets the logger used for recovered task panics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithName labels the queue in log records.
func WithName(name string) Option {
	return func(q *Queue) { q.name = name }
}

// Queue executes submitted tasks one at a time, in submission order, on a
// single goroutine.
type Queue struct {
	name   string
	logger logrus.FieldLogger

	mu      sync.Mutex
	tasks   []func()
	running bool
	stopped bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

// NewQueue creates a queue. Tasks submitted before Start run once it starts.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		name:   "main",
		logger: logrus.StandardLogger(),
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

// Start launches the queue goroutine.
func (q *Queue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return ErrStopped
	}
	if q.running {
		return ErrRunning
	}

	q.running = true
	go q.loop()

	q.logger.WithField("queue", q.name).Debug("dispatch queue started")

	return nil
}

// Stop runs the tasks already submitted, then terminates the goroutine.
// A stopped queue cannot be restarted. Stop must not be called from a task.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	wasRunning := q.running
	q.running = false
	q.mu.Unlock()

	close(q.quit)
	if wasRunning {
		<-q.done
	}

	q.logger.WithField("queue", q.name).Debug("dispatch queue stopped")
}

// IsRunning reports whether the queue goroutine is active.
func (q *Queue) IsRunning() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.running
}

// Async submits fn without waiting. It returns false if the queue is stopped.
func (q *Queue) Async(fn func()) bool {
	if fn == nil {
		return false
	}

	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return false
	}
	q.tasks = append(q.tasks, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}

	return true
}

// Sync submits fn and waits until it has run. Calling Sync from a task on
// the same queue deadlocks.
func (q *Queue) Sync(fn func()) error {
	if fn == nil {
		return nil
	}

	done := make(chan struct{})
	if !q.Async(func() {
		defer close(done)
		fn()
	}) {
		return ErrStopped
	}
	<-done

	return nil
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

func (q *Queue) loop() {
	defer close(q.done)

	for {
		select {
		case <-q.wake:
			q.drain()
		case <-q.quit:
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		batch := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			q.run(fn)
		}
	}
}

func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.WithFields(logrus.Fields{
				"queue": q.name,
				"panic": r,
			}).Error("dispatch task panicked")
		}
	}()
	fn()
}

var (
	mainQueue *Queue
	mainOnce  sync.Once
)

// Main returns the process-wide main queue, starting it on first use.
func Main() *Queue {
	mainOnce.Do(func() {
		mainQueue = NewQueue(WithName("main"))
		_ = mainQueue.Start()
	})
	return mainQueue
}
