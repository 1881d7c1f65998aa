package parallel

// DefaultQueueCapacity is the per-tile task capacity used when none is given.
const DefaultQueueCapacity = 1024

// Queue is a bounded multi-producer FIFO of tasks backed by a buffered channel.
//
// Push blocks while the queue is full, which gives producers backpressure
// when consumers are running. Consumers never block: Drain returns as soon as
// the queue is empty.
//
// Thread safety: Queue is safe for concurrent use.
type Queue[T any] struct {
	ch chan T
}

// NewQueue creates a queue holding at most capacity tasks.
// A non-positive capacity selects DefaultQueueCapacity.
func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push appends v, blocking while the queue is full.
func (q *Queue[T]) Push(v T) {
	q.ch <- v
}

// Drain pops tasks in FIFO order until the queue is empty, calling fn for
// each. Returns the number of tasks drained.
func (q *Queue[T]) Drain(fn func(T)) int {
	n := 0
	for {
		select {
		case v := <-q.ch:
			fn(v)
			n++
		default:
			return n
		}
	}
}

// Len returns the number of queued tasks.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int {
	return cap(q.ch)
}

// Free returns the number of tasks that can be pushed without blocking.
// The value is exact only while no other producer is active.
func (q *Queue[T]) Free() int {
	return cap(q.ch) - len(q.ch)
}
