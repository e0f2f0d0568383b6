package device

import (
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrStreamClosed is returned when work is enqueued on a closed stream.
var ErrStreamClosed = errors.New("device: stream closed")

// Stream is an ordered work queue. Enqueued tasks execute asynchronously
// relative to the host, in enqueue order relative to each other; tasks on
// different streams have no ordering guarantee. The first error reported by
// a task is sticky and surfaces at the next Synchronize.
type Stream struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func() error
	pending int // queued plus in-flight tasks
	closed  bool
	err     error
}

// NewStream creates a stream and starts its dispatch goroutine.
func NewStream() *Stream {
	s := &Stream{}
	s.cond = sync.NewCond(&s.mu)
	go s.loop()
	klog.V(2).Info("device: stream created")
	return s
}

func (s *Stream) loop() {
	s.mu.Lock()
	for {
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			// Closed and drained.
			s.mu.Unlock()
			return
		}
		f := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		err := f()

		s.mu.Lock()
		if err != nil && s.err == nil {
			s.err = err
		}
		s.pending--
		if s.pending == 0 {
			s.cond.Broadcast()
		}
	}
}

// enqueue appends f to the stream; it returns immediately, before f runs.
func (s *Stream) enqueue(f func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	s.queue = append(s.queue, f)
	s.pending++
	s.cond.Broadcast()
	return nil
}

// Synchronize blocks until every previously enqueued task has executed and
// returns the first error any task on this stream has ever reported.
func (s *Stream) Synchronize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.pending > 0 {
		s.cond.Wait()
	}
	return s.err
}

// Close stops the stream after draining already-enqueued work. Further
// enqueues fail with ErrStreamClosed. Close is idempotent.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cond.Broadcast()
	klog.V(2).Info("device: stream closed")
}
