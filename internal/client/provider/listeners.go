package provider

import (
	"sync"

	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/google/uuid"
)

// ListenerHandle identifies one OnAuthStateChanged registration.
type ListenerHandle uuid.UUID

func (h ListenerHandle) String() string {
	return uuid.UUID(h).String()
}

type listener struct {
	handle ListenerHandle
	fn     StateListener
}

// Listeners is the registration list behind OnAuthStateChanged, shared by
// provider implementations. The zero value is ready to use.
type Listeners struct {
	mu    sync.Mutex
	items []listener
}

// Add registers fn and returns its handle.
func (l *Listeners) Add(fn StateListener) ListenerHandle {
	h := ListenerHandle(uuid.New())

	l.mu.Lock()
	l.items = append(l.items, listener{handle: h, fn: fn})
	l.mu.Unlock()

	return h
}

// Remove detaches h and reports whether it was registered.
func (l *Listeners) Remove(h ListenerHandle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, it := range l.items {
		if it.handle == h {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Notify calls every listener in registration order with its own copy of id.
// Listeners run outside the lock, so they may add or remove registrations.
func (l *Listeners) Notify(id *models.Identity) {
	l.mu.Lock()
	fns := make([]StateListener, len(l.items))
	for i, it := range l.items {
		fns[i] = it.fn
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(id.Clone())
	}
}
