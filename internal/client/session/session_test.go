package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mynote/internal/client/dispatch"
	"github.com/dmitrijs2005/mynote/internal/client/gateway"
	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/dmitrijs2005/mynote/internal/client/provider"
	"github.com/dmitrijs2005/mynote/internal/client/provider/providertest"
	"github.com/dmitrijs2005/mynote/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queue holds posted functions until flush, standing in for a UI loop that
// has not run yet.
type queue struct {
	mu  sync.Mutex
	fns []func()
}

func (q *queue) Post(fn func()) error {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
	return nil
}

func (q *queue) flush() {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func newState(t *testing.T, p *providertest.Fake, d dispatch.Dispatcher) *State {
	t.Helper()
	s := New(p, gateway.New(p, logging.Nop()), d, logging.Nop())
	t.Cleanup(s.Close)
	return s
}

func TestState_VerifiedSignInAuthenticates(t *testing.T) {
	p := providertest.New()
	p.AddAccount("a@b.co", "secret1", true)
	s := newState(t, p, dispatch.Inline{})
	assert.False(t, s.IsAuthenticated())

	id, err := p.SignIn(context.Background(), "a@b.co", "secret1")
	require.NoError(t, err)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, id, s.Current())
}

func TestState_UnverifiedIdentityIsNotAuthenticated(t *testing.T) {
	p := providertest.New()
	s := newState(t, p, dispatch.Inline{})

	p.Emit(&models.Identity{UID: "u1", Email: "a@b.co", EmailVerified: true})
	require.True(t, s.IsAuthenticated())

	p.Emit(&models.Identity{UID: "u2", Email: "c@d.co"})
	snap := s.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.Current)
}

func TestState_PicksUpExistingIdentity(t *testing.T) {
	p := providertest.New()
	p.AddAccount("a@b.co", "secret1", true)
	_, err := p.SignIn(context.Background(), "a@b.co", "secret1")
	require.NoError(t, err)

	s := newState(t, p, dispatch.Inline{})
	assert.True(t, s.IsAuthenticated())
}

func TestState_SignOutDoesNotFlicker(t *testing.T) {
	p := providertest.New()
	q := &queue{}
	s := newState(t, p, q)

	verified := &models.Identity{UID: "u1", Email: "a@b.co", EmailVerified: true}
	p.Emit(verified)
	q.flush()
	require.True(t, s.IsAuthenticated())

	// a stale notification is still queued when the user signs out
	p.Emit(verified)
	require.NoError(t, s.SignOut(context.Background()))
	assert.False(t, s.IsAuthenticated())

	q.flush()
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Current())

	// notifications after the sign-out apply again
	p.Emit(verified)
	q.flush()
	assert.True(t, s.IsAuthenticated())
}

func TestState_SignOutFailureKeepsState(t *testing.T) {
	p := providertest.New()
	s := newState(t, p, dispatch.Inline{})
	p.Emit(&models.Identity{UID: "u1", Email: "a@b.co", EmailVerified: true})

	p.SignOutErr = provider.NewError(provider.CodeKeychainError, "")
	err := s.SignOut(context.Background())
	assert.True(t, provider.HasCode(err, provider.CodeKeychainError))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "u1", s.Current().UID)
}

func TestState_CloseDetachesOnce(t *testing.T) {
	p := providertest.New()
	s := New(p, gateway.New(p, logging.Nop()), dispatch.Inline{}, logging.Nop())
	require.Equal(t, 1, p.ListenerCount())

	s.Close()
	s.Close()
	assert.Equal(t, 0, p.ListenerCount())
}

func TestState_IgnoresQueuedUpdatesAfterClose(t *testing.T) {
	p := providertest.New()
	q := &queue{}
	s := New(p, gateway.New(p, logging.Nop()), q, logging.Nop())

	p.Emit(&models.Identity{UID: "u1", EmailVerified: true})
	s.Close()
	q.flush()
	assert.False(t, s.IsAuthenticated())
}

func TestState_SubscribeAndSigningUp(t *testing.T) {
	p := providertest.New()
	s := newState(t, p, dispatch.Inline{})

	var got []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	s.SetSigningUp(true)
	s.SetSigningUp(true)
	assert.True(t, s.SigningUp())
	p.Emit(&models.Identity{UID: "u1", EmailVerified: true})

	require.Len(t, got, 2)
	assert.Equal(t, Snapshot{SigningUp: true}, got[0])
	assert.True(t, got[1].Authenticated)
	assert.Equal(t, "u1", got[1].Current.UID)

	cancel()
	s.SetSigningUp(false)
	assert.Len(t, got, 2)
	assert.False(t, s.SigningUp())
}

func TestState_SignOutIsDeliveredAfterEarlierUpdates(t *testing.T) {
	for range 20 {
		p := providertest.New()
		q := &queue{}
		s := newState(t, p, q)

		p.Emit(&models.Identity{UID: "u1", Email: "a@b.co", EmailVerified: true})

		entered := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		s.Subscribe(func(snap Snapshot) {
			if snap.Authenticated {
				once.Do(func() {
					close(entered)
					<-release
				})
			}
		})

		var mu sync.Mutex
		var last Snapshot
		s.Subscribe(func(snap Snapshot) {
			mu.Lock()
			last = snap
			mu.Unlock()
		})

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			q.flush()
		}()
		<-entered

		var signOutErr error
		go func() {
			defer wg.Done()
			signOutErr = s.SignOut(context.Background())
		}()
		time.Sleep(time.Millisecond)
		close(release)
		wg.Wait()

		require.NoError(t, signOutErr)
		mu.Lock()
		assert.False(t, last.Authenticated)
		assert.Nil(t, last.Current)
		mu.Unlock()
		assert.False(t, s.IsAuthenticated())
	}
}
