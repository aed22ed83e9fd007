package input

import (
	"fmt"
	"time"

	"github.com/temoto/alive/v2"
)

const DefaultQueueSize = 1024

type waitMode uint8

const (
	waitNonBlocking waitMode = iota
	waitIndefinite
	waitBounded
)

// Wait says how long a read may suspend when no event is queued.
// Zero value is non-blocking.
type Wait struct {
	d    time.Duration
	mode waitMode
}

// NonBlocking never suspends: empty queue fails with ErrWouldBlock.
func NonBlocking() Wait { return Wait{mode: waitNonBlocking} }

// Indefinite suspends until an event arrives or the source closes.
func Indefinite() Wait { return Wait{mode: waitIndefinite} }

// WaitFor suspends up to d, then fails with ErrTimeout.
// d <= 0 degrades to NonBlocking.
func WaitFor(d time.Duration) Wait {
	if d <= 0 {
		return NonBlocking()
	}
	return Wait{mode: waitBounded, d: d}
}

// WaitMillis maps the numeric boundary convention:
// 0 non-blocking, negative indefinite, positive milliseconds.
func WaitMillis(ms int) Wait {
	switch {
	case ms == 0:
		return NonBlocking()
	case ms < 0:
		return Indefinite()
	}
	return WaitFor(time.Duration(ms) * time.Millisecond)
}

func (w Wait) String() string {
	switch w.mode {
	case waitNonBlocking:
		return "non-blocking"
	case waitIndefinite:
		return "indefinite"
	}
	return fmt.Sprintf("wait=%s", w.d.String())
}

// Queue is the FIFO buffer behind a Source: many producers, one logical
// consumer. The buffered channel both stores events and serializes
// dequeue attempts, so extra readers cannot corrupt order, they only
// race for the head. Close aborts all suspended readers.
type Queue struct {
	events chan InputEvent
	alive  *alive.Alive
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &Queue{
		events: make(chan InputEvent, capacity),
		alive:  alive.NewAlive(),
	}
}

func (q *Queue) Cap() int { return cap(q.events) }
func (q *Queue) Len() int { return len(q.events) }

// Push appends one event and wakes a suspended reader. Never suspends:
// a full queue fails with ErrQueueFull, a closed queue with ErrClosed.
func (q *Queue) Push(e InputEvent) error {
	if !q.alive.IsRunning() {
		return ErrClosed
	}
	select {
	case q.events <- e:
		return nil
	case <-q.alive.StopChan():
		return ErrClosed
	default:
		return ErrQueueFull
	}
}

// Poll removes and returns the head event, suspending per w when empty.
// An event buffered before Close is still delivered; after the buffer
// drains, or when racing a concurrent Close, readers get ErrClosed.
func (q *Queue) Poll(w Wait) (InputEvent, error) {
	// buffered event wins over everything, including a pending close
	select {
	case e := <-q.events:
		return e, nil
	default:
	}

	switch w.mode {
	case waitNonBlocking:
		if !q.alive.IsRunning() {
			return InputEvent{}, ErrClosed
		}
		return InputEvent{}, ErrWouldBlock

	case waitIndefinite:
		select {
		case e := <-q.events:
			return e, nil
		case <-q.alive.StopChan():
			return InputEvent{}, ErrClosed
		}

	case waitBounded:
		t := time.NewTimer(w.d)
		defer t.Stop()
		select {
		case e := <-q.events:
			return e, nil
		case <-q.alive.StopChan():
			return InputEvent{}, ErrClosed
		case <-t.C:
			return InputEvent{}, ErrTimeout
		}
	}
	return InputEvent{}, ErrInvalid
}

// Close transitions the queue to closed, unblocking all waiters.
// Irreversible, repeat calls are no-ops.
func (q *Queue) Close() {
	q.alive.Stop()
}

func (q *Queue) Closed() bool { return !q.alive.IsRunning() }

// ClosedChan is closed when the queue is. Exposed for pump goroutines
// that must stop with the queue.
func (q *Queue) ClosedChan() <-chan struct{} { return q.alive.StopChan() }
