package controller

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/mynote/internal/client/models"
)

// Request is the handle of one submission. Dropping the handle does nothing;
// calling Ignore makes the controller discard the result when it arrives.
// The underlying provider call is never aborted.
type Request struct {
	gen     uint64
	ignored atomic.Bool
	done    chan struct{}

	once     sync.Once
	identity *models.Identity
	err      error
	applied  bool
}

func newRequest(gen uint64) *Request {
	return &Request{gen: gen, done: make(chan struct{})}
}

// finishedRequest is a request rejected before it reached a use case.
func finishedRequest(err error) *Request {
	r := newRequest(0)
	r.finish(nil, err, true)
	return r
}

// Ignore marks the request stale.
func (r *Request) Ignore() {
	r.ignored.Store(true)
}

// Wait blocks until the result was applied to the form or dropped.
func (r *Request) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the request has finished.
func (r *Request) Done() <-chan struct{} {
	return r.done
}

// Err is the outcome of the submission: a validation error, a use case error
// or nil. Valid after Done is closed.
func (r *Request) Err() error {
	<-r.done
	return r.err
}

// Identity is the identity the use case returned, if any. Valid after Done is
// closed.
func (r *Request) Identity() *models.Identity {
	<-r.done
	return r.identity.Clone()
}

// Applied reports whether the result reached the form state. It is false for
// superseded and ignored requests.
func (r *Request) Applied() bool {
	<-r.done
	return r.applied
}

func (r *Request) finish(id *models.Identity, err error, applied bool) {
	r.once.Do(func() {
		r.identity = id
		r.err = err
		r.applied = applied
		close(r.done)
	})
}
