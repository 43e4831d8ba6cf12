// Package controller holds the per-screen form state of the auth screens and
// drives the sign-up and login use cases from it.
//
// Submissions validate synchronously; a validation error is written to the
// form and never reaches the provider. Valid submissions run on their own
// goroutine and their results are posted back through the dispatcher. Only
// the latest submission may update the form: once a newer one is made, even
// one rejected by validation, the older one's result is dropped on arrival.
// So is the result of a Request the caller ignored.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/mynote/internal/client/autherr"
	"github.com/dmitrijs2005/mynote/internal/client/dispatch"
	"github.com/dmitrijs2005/mynote/internal/client/models"
	"github.com/dmitrijs2005/mynote/internal/client/services"
	"github.com/dmitrijs2005/mynote/internal/client/validate"
	"github.com/dmitrijs2005/mynote/internal/logging"
)

const (
	msgVerifyBeforeLogin = "Please verify your email before logging in."
	msgVerificationSent  = "Verification email has been sent. Please check your inbox."
)

// FormState is what an auth screen renders.
type FormState struct {
	Email           string
	Password        string
	ConfirmPassword string
	ErrorMessage    string
	SuccessMessage  string
	Loading         bool
}

// Session is the part of the session the controller drives.
type Session interface {
	SignOut(ctx context.Context) error
	SetSigningUp(v bool)
}

// Controller is safe for concurrent use. Form mutations made by completions
// run on the dispatcher.
type Controller struct {
	signUp  services.SignUpUseCase
	login   services.LoginUseCase
	session Session
	disp    dispatch.Dispatcher
	log     logging.Logger

	mu   sync.Mutex
	form FormState
	gen  uint64
}

// New creates a Controller with an empty form.
func New(signUp services.SignUpUseCase, login services.LoginUseCase, session Session, disp dispatch.Dispatcher, log logging.Logger) *Controller {
	return &Controller{
		signUp:  signUp,
		login:   login,
		session: session,
		disp:    disp,
		log:     log.With("component", "controller"),
	}
}

// State returns a copy of the form.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) SetEmail(v string) {
	c.mu.Lock()
	c.form.Email = v
	c.mu.Unlock()
}

func (c *Controller) SetPassword(v string) {
	c.mu.Lock()
	c.form.Password = v
	c.mu.Unlock()
}

func (c *Controller) SetConfirmPassword(v string) {
	c.mu.Lock()
	c.form.ConfirmPassword = v
	c.mu.Unlock()
}

// ClearMessages resets the error and success messages.
func (c *Controller) ClearMessages() {
	c.mu.Lock()
	c.form.ErrorMessage = ""
	c.form.SuccessMessage = ""
	c.mu.Unlock()
}

// SignUp registers the account in the form. On success the success message
// names the address the verification email went to and the session is put
// into sign-up mode.
func (c *Controller) SignUp(ctx context.Context) *Request {
	form, req, ok := c.begin(func(f FormState) error {
		return validate.SignUpCredentials(f.Email, f.Password, f.ConfirmPassword)
	})
	if !ok {
		return req
	}

	go func() {
		id, err := c.signUp.Execute(ctx, form.Email, form.Password)
		c.complete(req, id, err, func(f *FormState) {
			if err != nil {
				f.ErrorMessage = autherr.Message(err)
				return
			}
			f.SuccessMessage = signUpMessage(id)
		}, func() {
			if err == nil {
				c.session.SetSigningUp(true)
			}
		})
	}()
	return req
}

// Login signs the form's account in. An unverified account is signed out
// again right away.
func (c *Controller) Login(ctx context.Context) *Request {
	form, req, ok := c.begin(func(f FormState) error {
		return validate.Credentials(f.Email, f.Password)
	})
	if !ok {
		return req
	}

	go func() {
		id, err := c.login.Execute(ctx, form.Email, form.Password)
		if errors.Is(err, services.ErrEmailNotVerified) {
			// the provider session must not survive even if the result is
			// dropped
			if serr := c.session.SignOut(ctx); serr != nil {
				c.log.Warn(ctx, "forced sign-out of unverified account failed", "error", serr)
			}
		}
		c.complete(req, id, err, func(f *FormState) {
			switch {
			case errors.Is(err, services.ErrEmailNotVerified):
				f.ErrorMessage = msgVerifyBeforeLogin
			case err != nil:
				f.ErrorMessage = autherr.Message(err)
			}
		}, nil)
	}()
	return req
}

// ResendVerification mails the verification link to the provider's current
// identity again.
func (c *Controller) ResendVerification(ctx context.Context) *Request {
	_, req, _ := c.begin(nil)

	go func() {
		err := c.signUp.ResendVerification(ctx)
		c.complete(req, nil, err, func(f *FormState) {
			if err != nil {
				f.ErrorMessage = autherr.Message(err)
				return
			}
			f.SuccessMessage = msgVerificationSent
		}, nil)
	}()
	return req
}

// begin starts a new submission that supersedes any running one, and
// validates the form. An invalid form is reported right away.
func (c *Controller) begin(check func(FormState) error) (FormState, *Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.form.ErrorMessage = ""
	c.form.SuccessMessage = ""

	if check != nil {
		if err := check(c.form); err != nil {
			c.form.ErrorMessage = validate.Message(err)
			c.form.Loading = false
			return c.form, finishedRequest(err), false
		}
	}

	c.form.Loading = true
	return c.form, newRequest(c.gen), true
}

// complete posts the result of req to the dispatcher. apply, and then
// onApplied outside the form lock, run only if req is still the latest
// submission and was not ignored.
func (c *Controller) complete(req *Request, id *models.Identity, err error, apply func(*FormState), onApplied func()) {
	postErr := c.disp.Post(func() {
		c.mu.Lock()
		if req.ignored.Load() || req.gen != c.gen {
			c.mu.Unlock()
			req.finish(id, err, false)
			return
		}
		c.form.Loading = false
		apply(&c.form)
		c.mu.Unlock()
		if onApplied != nil {
			onApplied()
		}
		req.finish(id, err, true)
	})
	if postErr != nil {
		c.log.Warn(context.Background(), "completion dropped", "error", postErr)
		req.finish(id, err, false)
	}
}

func signUpMessage(id *models.Identity) string {
	email := "your email address"
	if id != nil && id.Email != "" {
		email = id.Email
	}
	return fmt.Sprintf("Verification email sent to %s. Please verify to log in.", email)
}
