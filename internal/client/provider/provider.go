// Package provider describes the identity provider the mynote client
// delegates authentication to.
//
// The Provider interface mirrors the provider SDK surface: account creation,
// password sign-in, verification email, the current identity, sign-out and an
// auth-state notification stream. Errors crossing this boundary are always
// *Error values, decoded once by the implementation so callers never inspect
// raw provider payloads.
//
// Implementations:
//   - identitytoolkit.Client talks to the REST API (or its emulator).
//   - providertest.Fake is an in-memory provider for tests.
package provider

import (
	"context"

	"github.com/dmitrijs2005/mynote/internal/client/models"
)

// StateListener receives the provider's current identity, or nil when
// signed out. It is called on the goroutine that caused the change.
type StateListener func(id *models.Identity)

// Provider is the identity provider contract.
type Provider interface {
	// CreateAccount registers a new account. The new account becomes the
	// provider's current identity.
	CreateAccount(ctx context.Context, email, password string) (*models.Identity, error)

	// SignIn checks the credentials and makes the account current.
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)

	// SendEmailVerification asks the provider to mail a verification link to id.
	SendEmailVerification(ctx context.Context, id *models.Identity) error

	// CurrentIdentity returns the identity signed in at the provider, or nil.
	CurrentIdentity() *models.Identity

	// SignOut forgets the current identity.
	SignOut(ctx context.Context) error

	// OnAuthStateChanged registers fn. fn is called once right away with the
	// current identity and then after every sign-in or sign-out.
	OnAuthStateChanged(fn StateListener) ListenerHandle

	// RemoveAuthStateListener detaches a listener. Unknown handles are ignored.
	RemoveAuthStateListener(h ListenerHandle)
}
