// Package relay is the host's input-forwarding loop: it drains one
// event source and pushes every event into the guest sink, treating
// timeouts as idle ticks and source close as clean shutdown.
package relay

import (
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	atomic_clock "github.com/temoto/atomic_clock"

	"github.com/virtshell/inputrelay/hardware/input"
	"github.com/virtshell/inputrelay/log2"
)

const DefaultPollTimeout = 500 * time.Millisecond

type Relay struct {
	Log   *log2.Log
	Alive *alive.Alive

	source input.Source
	sink   Sink
	poll   input.Wait

	forwarded uint64 // atomic
	dropped   uint64 // atomic
	lastEvent *atomic_clock.Clock
}

func NewRelay(log *log2.Log, source input.Source, sink Sink, pollTimeout time.Duration) *Relay {
	if pollTimeout <= 0 {
		pollTimeout = DefaultPollTimeout
	}
	return &Relay{
		Log:       log,
		Alive:     alive.NewAlive(),
		source:    source,
		sink:      sink,
		poll:      input.WaitFor(pollTimeout),
		lastEvent: atomic_clock.New(),
	}
}

func (r *Relay) Forwarded() uint64 { return atomic.LoadUint64(&r.forwarded) }
func (r *Relay) Dropped() uint64   { return atomic.LoadUint64(&r.dropped) }

// LastEventAge is the time since the last forwarded event, false before
// the first one.
func (r *Relay) LastEventAge() (time.Duration, bool) {
	if r.lastEvent.IsZero() {
		return 0, false
	}
	return atomic_clock.Since(r.lastEvent), true
}

// Run loops until the source closes or Alive.Stop(). Bounded poll keeps
// the loop responsive to Stop without burning a core; a Stop while
// suspended in ReadEvent costs at most one poll timeout.
func (r *Relay) Run() {
	if !r.Alive.Add(1) {
		panic("code error relay.Run() after Stop()")
	}
	defer r.Alive.Done()
	r.Log.Infof("relay source=%s sink=%s start", r.source.String(), r.sink.String())

	for r.Alive.IsRunning() {
		e, err := r.source.ReadEvent(r.poll)
		switch err {
		case nil:
			r.forward(e)
		case input.ErrTimeout, input.ErrWouldBlock:
			// idle tick
		case input.ErrClosed:
			r.Log.Infof("relay source=%s closed, stopping", r.source.String())
			r.Alive.Stop()
		default:
			r.Log.Errorf("relay source=%s read err=%v", r.source.String(), err)
			r.Alive.Stop()
		}
	}
	r.Log.Infof("relay stop forwarded=%d dropped=%d", r.Forwarded(), r.Dropped())
}

// Stop ends the loop after the current poll and closes the source so a
// suspended read unblocks.
func (r *Relay) Stop() {
	r.Alive.Stop()
	_ = r.source.Close()
}

func (r *Relay) forward(e input.InputEvent) {
	if err := r.sink.Forward(e); err != nil {
		atomic.AddUint64(&r.dropped, 1)
		err = errors.Annotatef(err, "relay sink=%s forward %s", r.sink.String(), e.String())
		r.Log.Error(err)
		return
	}
	atomic.AddUint64(&r.forwarded, 1)
	r.lastEvent.SetNow()
}
