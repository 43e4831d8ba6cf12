package provider

import (
	"errors"
	"fmt"
)

// Code is the provider's coarse, numeric error code.
type Code int

const (
	CodeInvalidCredential   Code = 17004
	CodeUserDisabled        Code = 17005
	CodeOperationNotAllowed Code = 17006
	CodeEmailAlreadyInUse   Code = 17007
	CodeInvalidEmail        Code = 17008
	CodeWrongPassword       Code = 17009
	CodeTooManyRequests     Code = 17010
	CodeUserNotFound        Code = 17011
	CodeInvalidUserToken    Code = 17017
	CodeNetworkError        Code = 17020
	CodeUserTokenExpired    Code = 17021
	CodeInvalidAPIKey       Code = 17023
	CodeUserMismatch        Code = 17024
	CodeWeakPassword        Code = 17026
	CodeKeychainError       Code = 17995
	CodeInternalError       Code = 17999
)

// Reason is the machine-readable diagnostic some failures carry in addition
// to their Code, e.g. the provider's INVALID_LOGIN_CREDENTIALS answer that the
// SDK has no dedicated code for.
type Reason string

const (
	ReasonInvalidLoginCredentials Reason = "INVALID_LOGIN_CREDENTIALS"
	ReasonEmailNotVerified        Reason = "EMAIL_NOT_VERIFIED"
	ReasonUserDisabled            Reason = "USER_DISABLED"
)

var descriptions = map[Code]string{
	CodeInvalidCredential:   "The supplied auth credential is malformed or has expired.",
	CodeUserDisabled:        "The user account has been disabled by an administrator.",
	CodeOperationNotAllowed: "The given sign-in provider is disabled for this project.",
	CodeEmailAlreadyInUse:   "The email address is already in use by another account.",
	CodeInvalidEmail:        "The email address is badly formatted.",
	CodeWrongPassword:       "The password is invalid or the user does not have a password.",
	CodeTooManyRequests:     "We have blocked all requests from this device due to unusual activity. Try again later.",
	CodeUserNotFound:        "There is no user record corresponding to this identifier. The user may have been deleted.",
	CodeInvalidUserToken:    "This user's credential isn't valid for this project. This can happen if the user's token has been tampered with, or if the user doesn't belong to the project associated with the API key used in your request.",
	CodeNetworkError:        "Network error (such as timeout, interrupted connection or unreachable host) has occurred.",
	CodeUserTokenExpired:    "The user's credential is no longer valid. The user must sign in again.",
	CodeInvalidAPIKey:       "An invalid API Key was supplied in the request.",
	CodeUserMismatch:        "The supplied credentials do not correspond to the current user.",
	CodeWeakPassword:        "The password must be 6 characters long or more.",
	CodeKeychainError:       "An error occurred when accessing the local credential store.",
	CodeInternalError:       "An internal error has occurred, print and inspect the error details for more information.",
}

// Error is a failure reported by the identity provider.
type Error struct {
	Code Code

	// Reason is empty when the provider sent no embedded diagnostic.
	Reason Reason

	// Description is the provider's human-readable text.
	Description string

	// Err is the underlying cause, e.g. a transport error.
	Err error
}

// NewError builds an Error with the standard description for code.
func NewError(code Code, reason Reason) *Error {
	return &Error{Code: code, Reason: reason, Description: Describe(code)}
}

// Describe returns the standard description for code, or "" if unknown.
func Describe(code Code) string {
	return descriptions[code]
}

func (e *Error) Error() string {
	msg := e.Description
	if msg == "" {
		msg = "identity provider error"
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("provider error %d: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same Code and Reason, so callers can
// write errors.Is(err, provider.NewError(provider.CodeWeakPassword, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason
}

// AsError unwraps err to a provider *Error.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// HasCode reports whether err is a provider error with the given code.
func HasCode(err error, code Code) bool {
	pe, ok := AsError(err)
	return ok && pe.Code == code
}
