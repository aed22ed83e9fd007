package input

import (
	"github.com/temoto/alive/v2"

	"github.com/virtshell/inputrelay/log2"
)

const MergeTag = "merge"

// MergeSource funnels several sources into one FIFO so the host keeps a
// single reader. One forward goroutine per child preserves each child's
// order; interleaving between children is whatever the queue observes,
// same as any set of concurrent producers.
type MergeSource struct {
	*QueueSource
	children []Source
	alive    *alive.Alive
}

// compile-time interface compliance test
var _ Source = new(MergeSource)

func Merge(log *log2.Log, capacity int, children ...Source) *MergeSource {
	s := &MergeSource{
		QueueSource: NewQueueSource(log, MergeTag, capacity),
		children:    children,
		alive:       alive.NewAlive(),
	}
	for _, child := range children {
		if !s.alive.Add(1) {
			panic("code error merge alive")
		}
		go s.forward(child)
	}
	go s.finish()
	return s
}

func (s *MergeSource) String() string { return MergeTag }

// Close tears down every child, then the merged queue; suspended
// readers unblock with ErrClosed.
func (s *MergeSource) Close() error {
	s.alive.Stop()
	for _, child := range s.children {
		if err := child.Close(); err != nil {
			s.Log.Errorf("%s close child=%s err=%v", MergeTag, child.String(), err)
		}
	}
	s.alive.Wait()
	s.QueueSource.Close()
	return nil
}

func (s *MergeSource) forward(child Source) {
	defer s.alive.Done()
	q := s.queue()
	for {
		e, err := child.ReadEvent(Indefinite())
		switch err {
		case nil:
			if err = q.Push(e); err != nil {
				if err == ErrClosed {
					return
				}
				s.Log.Errorf("%s child=%s push %s err=%v", MergeTag, child.String(), e.String(), err)
			}
		case ErrClosed:
			return
		default:
			s.Log.Errorf("%s child=%s read err=%v", MergeTag, child.String(), err)
			return
		}
	}
}

// finish closes the merged queue once every child stopped producing, so
// the reader sees ErrClosed instead of hanging on dead children.
func (s *MergeSource) finish() {
	s.alive.WaitTasks()
	s.QueueSource.Close()
}
