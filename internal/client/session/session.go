// Package session tracks who is signed in, as seen by the rest of the
// client.
//
// State owns the only auth-state listener registered with the provider and
// detaches it in Close. Provider notifications are re-dispatched through a
// dispatch.Dispatcher before they change state, so every mutation except an
// explicit SignOut or SetSigningUp happens on the dispatcher's goroutine.
//
// Subscribers see snapshots in the order the changes were made. A subscriber
// must not call SignOut or SetSigningUp from its callback.
//
// An identity counts as authenticated only while its email is verified: an
// unverified identity reported by the provider (right after sign-up, or on a
// login that is about to be refused) leaves the session unauthenticated.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/mynote/internal/client/dispatch"
	"github.com/dmitrijs2005/mynote/internal/client/gateway"
	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/dmitrijs2005/mynote/internal/client/provider"
	"github.com/dmitrijs2005/mynote/internal/logging"
)

// Snapshot is a copy of the session at one point in time.
type Snapshot struct {
	Authenticated bool
	Current       *models.Identity
	SigningUp     bool
}

// State is the process-wide session.
type State struct {
	provider provider.Provider
	gw       gateway.Gateway
	disp     dispatch.Dispatcher
	log      logging.Logger

	handle    provider.ListenerHandle
	closeOnce sync.Once

	// pubMu is held from a mutation through the delivery of its snapshot.
	// Lock order: pubMu, then mu.
	pubMu sync.Mutex

	mu            sync.Mutex
	authenticated bool
	current       *models.Identity
	signingUp     bool
	closed        bool
	// epoch advances on every explicit sign-out; notifications captured
	// under an older epoch are dropped.
	epoch   uint64
	subs    map[uint64]func(Snapshot)
	nextSub uint64
}

// New creates the session and registers its provider listener. The provider
// reports its current identity right away; with an asynchronous dispatcher
// that first update lands once the dispatcher runs it.
func New(p provider.Provider, gw gateway.Gateway, disp dispatch.Dispatcher, log logging.Logger) *State {
	s := &State{
		provider: p,
		gw:       gw,
		disp:     disp,
		log:      log.With("component", "session"),
		subs:     map[uint64]func(Snapshot){},
	}
	s.handle = p.OnAuthStateChanged(s.onAuthStateChanged)
	return s
}

func (s *State) onAuthStateChanged(id *models.Identity) {
	s.mu.Lock()
	epoch := s.epoch
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	id = id.Clone()
	if err := s.disp.Post(func() { s.apply(epoch, id) }); err != nil {
		s.log.Warn(context.Background(), "auth state update dropped", "error", err)
	}
}

func (s *State) apply(epoch uint64, id *models.Identity) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if s.closed || epoch != s.epoch {
		s.mu.Unlock()
		return
	}
	if id != nil && id.EmailVerified {
		s.authenticated = true
		s.current = id
	} else {
		s.authenticated = false
		s.current = nil
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// Snapshot returns the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Current returns a copy of the signed-in identity, or nil.
func (s *State) Current() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

func (s *State) SigningUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signingUp
}

// SetSigningUp marks whether the sign-up flow is in progress.
func (s *State) SetSigningUp(v bool) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	if s.signingUp == v {
		s.mu.Unlock()
		return
	}
	s.signingUp = v
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.publish(snap)
}

// SignOut ends the provider session. On success the session is cleared
// before SignOut returns and notifications delivered before the sign-out
// can no longer mark it authenticated. On failure the state is left as it
// was and the error is returned.
func (s *State) SignOut(ctx context.Context) error {
	if err := s.gw.SignOut(ctx); err != nil {
		s.log.Error(ctx, "sign-out failed", "error", err)
		return err
	}

	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	s.epoch++
	s.authenticated = false
	s.current = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "signed out")
	s.publish(snap)
	return nil
}

// Subscribe registers fn to receive a Snapshot after every change. The
// returned function unsubscribes.
func (s *State) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Close detaches the provider listener. Later notifications are ignored.
// It is safe to call more than once.
func (s *State) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.provider.RemoveAuthStateListener(s.handle)
	})
}

func (s *State) snapshotLocked() Snapshot {
	return Snapshot{
		Authenticated: s.authenticated,
		Current:       s.current.Clone(),
		SigningUp:     s.signingUp,
	}
}

// publish delivers snap to every subscriber. Callers hold pubMu.
func (s *State) publish(snap Snapshot) {
	s.mu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(Snapshot{Authenticated: snap.Authenticated, Current: snap.Current.Clone(), SigningUp: snap.SigningUp})
	}
}
