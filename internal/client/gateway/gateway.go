// Package gateway is the single entry point from the application into the
// identity provider.
package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mynote/internal/client/autherr"
	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/dmitrijs2005/mynote/internal/client/provider"
	"github.com/dmitrijs2005/mynote/internal/logging"
)

// Gateway defines the auth operations used by the use cases.
//
// Contract:
//   - Register: create an account; on success a verification email is sent in
//     the background and its outcome never changes the result.
//   - SignIn: authenticate with email and password.
//   - SendVerification / ResendVerification: mail the verification link to the
//     given identity or to the provider's current one.
//   - SignOut: end the provider session.
//   - Wait: block until background verification sends have finished.
type Gateway interface {
	Register(ctx context.Context, email, password string) (*models.Identity, error)
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	SendVerification(ctx context.Context, id *models.Identity) error
	ResendVerification(ctx context.Context) error
	SignOut(ctx context.Context) error
	Wait()
}

type authGateway struct {
	provider provider.Provider
	log      logging.Logger
	bg       sync.WaitGroup
}

// New returns a Gateway over p.
func New(p provider.Provider, log logging.Logger) Gateway {
	return &authGateway{provider: p, log: log.With("component", "gateway")}
}

func (g *authGateway) Register(ctx context.Context, email, password string) (*models.Identity, error) {
	id, err := g.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}

	// the send outlives the caller's context so a screen that stops waiting
	// does not cancel it
	bgCtx := context.WithoutCancel(ctx)
	sent := id.Clone()
	g.bg.Add(1)
	go func() {
		defer g.bg.Done()
		if err := g.SendVerification(bgCtx, sent); err != nil {
			g.log.Warn(bgCtx, "verification email after sign-up failed", "uid", sent.UID, "error", err)
			return
		}
		g.log.Info(bgCtx, "verification email sent", "uid", sent.UID)
	}()

	return id, nil
}

func (g *authGateway) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	return g.provider.SignIn(ctx, email, password)
}

func (g *authGateway) SendVerification(ctx context.Context, id *models.Identity) error {
	return g.provider.SendEmailVerification(ctx, id)
}

func (g *authGateway) ResendVerification(ctx context.Context) error {
	id := g.provider.CurrentIdentity()
	if id == nil {
		return fmt.Errorf("resend verification: %w", autherr.ErrNoCurrentUser)
	}
	return g.SendVerification(ctx, id)
}

func (g *authGateway) SignOut(ctx context.Context) error {
	return g.provider.SignOut(ctx)
}

func (g *authGateway) Wait() {
	g.bg.Wait()
}
