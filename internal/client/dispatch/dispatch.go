// Package dispatch re-dispatches completions onto the goroutine that owns
// view state, the client's stand-in for a UI thread.
package dispatch

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Post after Close.
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher runs posted functions in posting order.
type Dispatcher interface {
	Post(fn func()) error
}

// Inline runs every function immediately on the posting goroutine.
type Inline struct{}

func (Inline) Post(fn func()) error {
	fn()
	return nil
}

// Serial runs posted functions one at a time on a single goroutine started
// by Run.
type Serial struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

// NewSerial creates a Serial dispatcher. Call Run to start draining it.
func NewSerial() *Serial {
	return &Serial{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues fn. It never blocks.
func (s *Serial) Post(fn func()) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run executes queued functions until ctx is done or Close is called, then
// drains whatever was posted before closing.
func (s *Serial) Run(ctx context.Context) {
	defer close(s.done)
	for {
		s.drain()

		s.mu.Lock()
		closed := s.closed
		s.mu.Unlock()
		if closed {
			s.drain()
			return
		}

		select {
		case <-s.wake:
		case <-ctx.Done():
			s.close()
			s.drain()
			return
		}
	}
}

// Close stops accepting work and waits for Run to finish the queue. It must
// not be called from a posted function.
func (s *Serial) Close() {
	s.close()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	<-s.done
}

// Done is closed once Run has returned.
func (s *Serial) Done() <-chan struct{} {
	return s.done
}

func (s *Serial) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Serial) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		fn := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		fn()
	}
}
