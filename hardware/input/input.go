package input

import (
	"github.com/juju/errors"
	"github.com/virtshell/inputrelay/log2"
)

// Source mediates all event flow from a backend to the one consuming
// reader. Any concrete backend (evdev shim, virtual device, test
// harness) implements this; callers must be substitutable across
// implementations without behavior change.
type Source interface {
	// ReadEvent removes and returns the head event in FIFO order.
	// Empty queue: per w it fails with ErrWouldBlock, suspends until
	// an event or Close, or suspends up to the bound then fails with
	// ErrTimeout. After Close every call fails with ErrClosed.
	ReadEvent(w Wait) (InputEvent, error)

	// Close begins teardown: suspended readers unblock with ErrClosed,
	// later calls fail. Irreversible.
	Close() error

	String() string
}

// Injector is the test/automation side-channel: synthetic events
// indistinguishable to the reader from backend-produced ones.
// Unstable, may be withdrawn; production backends are not required
// to implement it and production code must not depend on it.
type Injector interface {
	InjectEvent(e InputEvent) error
}

// QueueSource is the reference Source+Injector over a Queue. Concrete
// backends embed or wrap it and pump their events through InjectEvent
// (or Push on the queue directly).
type QueueSource struct { //nolint:maligned
	Log *log2.Log
	tag string
	q   *Queue
}

// compile-time interface compliance test
var _ Source = new(QueueSource)
var _ Injector = new(QueueSource)

func NewQueueSource(log *log2.Log, tag string, capacity int) *QueueSource {
	return &QueueSource{
		Log: log,
		tag: tag,
		q:   NewQueue(capacity),
	}
}

func (s *QueueSource) String() string { return s.tag }

func (s *QueueSource) ReadEvent(w Wait) (InputEvent, error) {
	e, err := s.q.Poll(w)
	switch err {
	case nil:
		s.Log.Debugf("input source=%s read %s", s.tag, e.String())
	case ErrWouldBlock, ErrTimeout, ErrClosed:
		// normal idle / teardown, not annotated
	default:
		err = errors.Annotatef(err, "input source=%s read", s.tag)
	}
	return e, err
}

func (s *QueueSource) InjectEvent(e InputEvent) error {
	if err := s.q.Push(e); err != nil {
		return errors.Annotatef(err, "input source=%s inject %s", s.tag, e.String())
	}
	s.Log.Debugf("input source=%s inject %s", s.tag, e.String())
	return nil
}

func (s *QueueSource) Close() error {
	s.q.Close()
	return nil
}

// queue exposes the backing queue to same-package backends.
func (s *QueueSource) queue() *Queue { return s.q }
