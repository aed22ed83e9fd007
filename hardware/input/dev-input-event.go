package input

import (
	"os"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	inputevent "github.com/temoto/inputevent-go"
	"golang.org/x/sys/unix"

	"github.com/virtshell/inputrelay/log2"
)

const DevInputEventTag = "dev-input-event"

// EVIOCGRAB: exclusive access to the evdev node so the host desktop
// does not see events destined for the guest.
const eviocgrab = 0x40044590

// DevInputEventOptions describes one /dev/input/eventN capture device.
// DeviceType/DeviceID stamp every event from this node; the guest
// multiplexes by that pair, so they must be stable for the device's
// lifetime.
type DevInputEventOptions struct {
	Device     string
	DeviceType DeviceType
	DeviceID   int32
	Grab       bool
	QueueSize  int
}

// DevInputEventSource captures raw kernel input events from an evdev
// node and queues them for the host reader. Reading the node is done by
// one pump goroutine per source; the Source side is the embedded
// QueueSource.
type DevInputEventSource struct {
	*QueueSource
	f     *os.File
	opt   DevInputEventOptions
	alive *alive.Alive
}

// compile-time interface compliance test
var _ Source = new(DevInputEventSource)

func NewDevInputEventSource(log *log2.Log, opt DevInputEventOptions) (*DevInputEventSource, error) {
	f, err := os.Open(opt.Device)
	if err != nil {
		return nil, errors.Annotatef(err, "%s open device=%s", DevInputEventTag, opt.Device)
	}
	if opt.Grab {
		if err = unix.IoctlSetInt(int(f.Fd()), eviocgrab, 1); err != nil {
			f.Close()
			return nil, errors.Annotatef(err, "%s grab device=%s", DevInputEventTag, opt.Device)
		}
	}

	s := &DevInputEventSource{
		QueueSource: NewQueueSource(log, DevInputEventTag+":"+opt.Device, opt.QueueSize),
		f:           f,
		opt:         opt,
		alive:       alive.NewAlive(),
	}
	if !s.alive.Add(1) {
		panic("code error dev-input-event alive")
	}
	go s.pump()
	return s, nil
}

func (s *DevInputEventSource) String() string {
	return DevInputEventTag + ":" + s.opt.Device
}

// Close stops the pump and fails all pending reads with ErrClosed.
// The file close also unblocks a pump stuck in ReadOne.
func (s *DevInputEventSource) Close() error {
	s.alive.Stop()
	err := s.f.Close()
	s.QueueSource.Close()
	s.alive.Wait()
	if err != nil {
		return errors.Annotatef(err, "%s close device=%s", DevInputEventTag, s.opt.Device)
	}
	return nil
}

func (s *DevInputEventSource) pump() {
	defer s.alive.Done()
	q := s.queue()
	for s.alive.IsRunning() {
		ie, err := inputevent.ReadOne(s.f)
		if err != nil {
			if s.alive.IsRunning() {
				s.Log.Errorf("%s device=%s read err=%v", DevInputEventTag, s.opt.Device, err)
			}
			s.QueueSource.Close()
			return
		}
		e := InputEvent{
			DeviceType: s.opt.DeviceType,
			DeviceID:   s.opt.DeviceID,
			Type:       ie.Type,
			Code:       ie.Code,
			Value:      ie.Value,
		}
		if err = q.Push(e); err != nil {
			if err == ErrClosed {
				return
			}
			// full queue: the reader stalled behind the kernel's event
			// rate; dropping here would reorder nothing but lose input,
			// so make it loud
			s.Log.Errorf("%s device=%s push %s err=%v", DevInputEventTag, s.opt.Device, e.String(), err)
		}
	}
}
