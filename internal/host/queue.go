package host

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Invoker accepts commands for later execution on the privileged context.
// Invoke never blocks and reports nothing back to the poster.
type Invoker interface {
	Invoke(cmd Command)
}

// Invocation is a posted command.
type Invocation struct {
	// ID traces the invocation through the logs.
	ID string

	// Command is the requested mutation.
	Command Command

	// Posted is when Invoke was called.
	Posted time.Time
}

// Queue is an unbounded FIFO of invocations. Any goroutine may post;
// only the privileged context drains.
type Queue struct {
	mu      sync.Mutex
	pending []Invocation
	closed  bool

	posted  atomic.Uint64
	applied atomic.Uint64
	dropped atomic.Uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Invoke posts cmd. Commands posted after Close are dropped.
func (q *Queue) Invoke(cmd Command) {
	if cmd == nil {
		return
	}
	inv := Invocation{
		ID:      uuid.NewString(),
		Command: cmd,
		Posted:  time.Now(),
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.dropped.Add(1)
		return
	}
	q.pending = append(q.pending, inv)
	q.posted.Add(1)
}

// Drain applies every pending invocation in post order and returns how many
// ran. Invocations posted while draining run in the same drain.
// Must be called from the privileged context.
func (q *Queue) Drain(apply func(Invocation)) int {
	n := 0
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, inv := range batch {
			apply(inv)
			q.applied.Add(1)
			n++
		}
	}
}

// Len returns the number of pending invocations.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops accepting invocations and discards pending ones.
// It is safe to call Close multiple times.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.dropped.Add(uint64(len(q.pending)))
	q.pending = nil
}

// QueueStats holds queue counters.
type QueueStats struct {
	Posted  uint64
	Applied uint64
	Dropped uint64
}

// Stats returns the queue counters.
func (q *Queue) Stats() QueueStats {
	return QueueStats{
		Posted:  q.posted.Load(),
		Applied: q.applied.Load(),
		Dropped: q.dropped.Load(),
	}
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(cmd Command)

// Invoke calls f(cmd).
func (f InvokerFunc) Invoke(cmd Command) {
	f(cmd)
}
