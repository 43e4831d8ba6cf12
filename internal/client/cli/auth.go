package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mynote/internal/client/autherr"
	"github.com/dmitrijs2005/mynote/internal/client/controller"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and a password twice and signs the account
// up. The sign-up form prints either the validation/provider message or the
// verification notice.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer clear(password)
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer clear(confirm)

	form := a.signUpForm
	form.SetEmail(email)
	form.SetPassword(string(password))
	form.SetConfirmPassword(string(confirm))
	defer form.SetPassword("")
	defer form.SetConfirmPassword("")

	return a.submit(ctx, form, form.SignUp(ctx))
}

// Login prompts for credentials and signs in. Unverified accounts are
// refused and signed out again by the login form.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	form := a.loginForm
	form.SetEmail(email)
	form.SetPassword(string(password))
	defer form.SetPassword("")

	if err := a.submit(ctx, form, form.Login(ctx)); err != nil {
		return err
	}

	a.session.SetSigningUp(false)
	printlnFn("Logged in as", email)
	return nil
}

// Resend sends the verification email to the account that signed up last.
func (a *App) Resend(ctx context.Context) error {
	return a.submit(ctx, a.signUpForm, a.signUpForm.ResendVerification(ctx))
}

// Logout ends the session. On failure the session is left as it was.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		printlnFn(autherr.Message(err))
		return err
	}
	a.session.SetSigningUp(false)
	printlnFn("Logged out.")
	return nil
}

// Status prints the session state.
func (a *App) Status(context.Context) error {
	snap := a.session.Snapshot()
	switch {
	case snap.Authenticated:
		printlnFn(fmt.Sprintf("Signed in as %s (uid %s).", snap.Current.Email, snap.Current.UID))
	case snap.SigningUp:
		printlnFn("Signed up. Verify your email, then log in.")
	default:
		printlnFn("Not signed in.")
	}
	return nil
}

// submit waits for req and prints the form's message.
func (a *App) submit(ctx context.Context, form *controller.Controller, req *controller.Request) error {
	if err := req.Wait(ctx); err != nil {
		return err
	}

	st := form.State()
	if st.ErrorMessage != "" {
		printlnFn(st.ErrorMessage)
	}
	if st.SuccessMessage != "" {
		printlnFn(st.SuccessMessage)
	}
	return req.Err()
}
