package assistant

import "sync"

// Dispatcher decides where asynchronous replies are delivered.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks on the goroutine that finished the request.
var Inline Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// Queue runs callbacks one at a time, in submission order, on a single goroutine.
type Queue struct {
	jobs chan func()
	done chan struct{}
	once sync.Once
}

func NewQueue(buffer int) *Queue {
	q := &Queue{
		jobs: make(chan func(), buffer),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) Dispatch(fn func()) {
	q.jobs <- fn
}

// Close drains queued callbacks and stops the goroutine. Dispatch after Close panics.
func (q *Queue) Close() {
	q.once.Do(func() {
		close(q.jobs)
		<-q.done
	})
}

func (q *Queue) run() {
	defer close(q.done)
	for fn := range q.jobs {
		fn()
	}
}
