package relay

import (
	"io"
	"sync"

	"github.com/juju/errors"

	"github.com/virtshell/inputrelay/hardware/input"
)

// Sink is where dequeued events go: the guest side of the relay.
type Sink interface {
	Forward(e input.InputEvent) error
	String() string
}

// WriterSink emits the fixed 16-byte wire record per event, suitable
// for the guest runtime's input pipe. Writes are serialized so records
// from concurrent callers cannot interleave mid-record.
type WriterSink struct {
	tag string
	mu  sync.Mutex
	w   io.Writer
}

var _ Sink = new(WriterSink)

func NewWriterSink(tag string, w io.Writer) *WriterSink {
	return &WriterSink{tag: tag, w: w}
}

func (s *WriterSink) String() string { return s.tag }

func (s *WriterSink) Forward(e input.InputEvent) error {
	b, err := e.MarshalBinary()
	if err != nil {
		return errors.Annotatef(err, "sink=%s marshal", s.tag)
	}
	s.mu.Lock()
	_, err = s.w.Write(b)
	s.mu.Unlock()
	if err != nil {
		return errors.Annotatef(err, "sink=%s write", s.tag)
	}
	return nil
}

// FuncSink adapts a function, mostly for tests.
type FuncSink struct {
	Tag string
	Fun func(input.InputEvent) error
}

var _ Sink = FuncSink{}

func (s FuncSink) String() string { return s.Tag }
func (s FuncSink) Forward(e input.InputEvent) error {
	return s.Fun(e)
}
