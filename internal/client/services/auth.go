// Package services contains the auth use cases of the mynote client: sign-up
// with a verification email, and login gated on a verified address.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mynote/internal/client/gateway"
	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/dmitrijs2005/mynote/internal/logging"
)

// ErrEmailNotVerified is returned by LoginUseCase when the credentials were
// accepted but the address has not been verified yet. The caller must sign
// the provider session out again.
var ErrEmailNotVerified = errors.New("email not verified")

// SignUpUseCase registers accounts. It never authenticates: the new account
// stays unverified until the user follows the emailed link and logs in.
type SignUpUseCase interface {
	Execute(ctx context.Context, email, password string) (*models.Identity, error)
	ResendVerification(ctx context.Context) error
}

// LoginUseCase signs users in.
//
// Execute returns the identity and a nil error for a verified account,
// the identity together with ErrEmailNotVerified for an unverified one, and
// the provider error unchanged on failure.
type LoginUseCase interface {
	Execute(ctx context.Context, email, password string) (*models.Identity, error)
}

type signUpUseCase struct {
	gw  gateway.Gateway
	log logging.Logger
}

// NewSignUpUseCase constructs a SignUpUseCase over gw.
func NewSignUpUseCase(gw gateway.Gateway, log logging.Logger) SignUpUseCase {
	return &signUpUseCase{gw: gw, log: log.With("usecase", "signup")}
}

func (s *signUpUseCase) Execute(ctx context.Context, email, password string) (*models.Identity, error) {
	id, err := s.gw.Register(ctx, email, password)
	if err != nil {
		s.log.Debug(ctx, "sign-up failed", "error", err)
		return nil, err
	}
	s.log.Info(ctx, "account created", "uid", id.UID)
	return id, nil
}

func (s *signUpUseCase) ResendVerification(ctx context.Context) error {
	return s.gw.ResendVerification(ctx)
}

type loginUseCase struct {
	gw  gateway.Gateway
	log logging.Logger
}

// NewLoginUseCase constructs a LoginUseCase over gw.
func NewLoginUseCase(gw gateway.Gateway, log logging.Logger) LoginUseCase {
	return &loginUseCase{gw: gw, log: log.With("usecase", "login")}
}

func (l *loginUseCase) Execute(ctx context.Context, email, password string) (*models.Identity, error) {
	id, err := l.gw.SignIn(ctx, email, password)
	if err != nil {
		l.log.Debug(ctx, "login failed", "error", err)
		return nil, err
	}
	if !id.EmailVerified {
		l.log.Info(ctx, "login refused, email not verified", "uid", id.UID)
		return id, ErrEmailNotVerified
	}
	l.log.Info(ctx, "logged in", "uid", id.UID)
	return id, nil
}
