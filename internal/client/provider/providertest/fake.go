// Package providertest provides an in-memory provider.Provider for tests.
package providertest

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/dmitrijs2005/mynote/internal/client/provider"
	"github.com/google/uuid"
)

type account struct {
	identity models.Identity
	password string
}

// Fake keeps accounts in memory. Set the *Err fields to make the next calls
// of an operation fail; they stay set until cleared.
type Fake struct {
	mu        sync.Mutex
	accounts  map[string]*account
	current   *models.Identity
	listeners provider.Listeners

	CreateErr     error
	SignInErr     error
	VerifyErr     error
	SignOutErr    error
	VerifyStarted chan struct{}

	createCalls  int
	signInCalls  int
	verifyCalls  int
	signOutCalls int
	verified     []string
}

var _ provider.Provider = (*Fake)(nil)

func New() *Fake {
	return &Fake{accounts: map[string]*account{}}
}

// AddAccount registers an account directly and returns its identity.
func (f *Fake) AddAccount(email, password string, verified bool) *models.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()

	a := &account{
		identity: models.Identity{UID: uuid.NewString(), Email: email, EmailVerified: verified},
		password: password,
	}
	f.accounts[email] = a
	return a.identity.Clone()
}

// SetVerified flips the verified flag of an account, as clicking the link would.
func (f *Fake) SetVerified(email string, verified bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[email]; ok {
		a.identity.EmailVerified = verified
	}
}

func (f *Fake) CreateAccount(_ context.Context, email, password string) (*models.Identity, error) {
	f.mu.Lock()
	f.createCalls++
	if err := f.CreateErr; err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if _, ok := f.accounts[email]; ok {
		f.mu.Unlock()
		return nil, provider.NewError(provider.CodeEmailAlreadyInUse, "")
	}
	a := &account{
		identity: models.Identity{UID: uuid.NewString(), Email: email},
		password: password,
	}
	f.accounts[email] = a
	f.mu.Unlock()

	id := a.identity.Clone()
	f.setCurrent(id)
	return id, nil
}

func (f *Fake) SignIn(_ context.Context, email, password string) (*models.Identity, error) {
	f.mu.Lock()
	f.signInCalls++
	if err := f.SignInErr; err != nil {
		f.mu.Unlock()
		return nil, err
	}
	a, ok := f.accounts[email]
	if !ok || a.password != password {
		f.mu.Unlock()
		return nil, provider.NewError(provider.CodeInternalError, provider.ReasonInvalidLoginCredentials)
	}
	id := a.identity.Clone()
	f.mu.Unlock()

	f.setCurrent(id)
	return id, nil
}

func (f *Fake) SendEmailVerification(_ context.Context, id *models.Identity) error {
	f.mu.Lock()
	f.verifyCalls++
	started := f.VerifyStarted
	err := f.VerifyErr
	if err == nil && id != nil {
		f.verified = append(f.verified, id.UID)
	}
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	return err
}

func (f *Fake) CurrentIdentity() *models.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Clone()
}

func (f *Fake) SignOut(context.Context) error {
	f.mu.Lock()
	f.signOutCalls++
	err := f.SignOutErr
	f.mu.Unlock()

	if err != nil {
		return err
	}
	f.setCurrent(nil)
	return nil
}

func (f *Fake) OnAuthStateChanged(fn provider.StateListener) provider.ListenerHandle {
	h := f.listeners.Add(fn)
	fn(f.CurrentIdentity())
	return h
}

func (f *Fake) RemoveAuthStateListener(h provider.ListenerHandle) {
	f.listeners.Remove(h)
}

// Emit delivers an arbitrary auth-state notification without changing the
// current identity.
func (f *Fake) Emit(id *models.Identity) {
	f.listeners.Notify(id)
}

// ListenerCount returns the number of attached state listeners.
func (f *Fake) ListenerCount() int {
	return f.listeners.Len()
}

// Calls reports how many times each operation was invoked.
func (f *Fake) Calls() (create, signIn, verify, signOut int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.signInCalls, f.verifyCalls, f.signOutCalls
}

// VerificationsSent lists the UIDs a verification email was sent to.
func (f *Fake) VerificationsSent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.verified...)
}

func (f *Fake) setCurrent(id *models.Identity) {
	f.mu.Lock()
	f.current = id.Clone()
	f.mu.Unlock()
	f.listeners.Notify(id)
}
