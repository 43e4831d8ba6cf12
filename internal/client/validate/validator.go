// Package validate holds the local, synchronous checks applied to
// credentials before anything is sent to the identity provider.
package validate

import (
	"errors"
	"regexp"
	"unicode/utf16"
)

// MinPasswordLength is counted in UTF-16 code units, matching what the
// identity provider measures.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

var messages = map[error]string{
	ErrEmailRequired:    "Email is required.",
	ErrPasswordRequired: "Password is required.",
	ErrInvalidEmail:     "Invalid email address.",
	ErrPasswordTooShort: "Password must be at least 6 characters.",
	ErrPasswordMismatch: "Passwords do not match.",
}

// Message returns the sentence shown to the user for a validation error.
// Errors that are not validation errors yield err.Error().
func Message(err error) string {
	for sentinel, msg := range messages {
		if errors.Is(err, sentinel) {
			return msg
		}
	}
	return err.Error()
}

// IsValidEmail reports whether s is a whole-string match for
// local-part@domain.tld with a 2–64 letter top-level label.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPassword reports whether s is at least MinPasswordLength long.
func IsValidPassword(s string) bool {
	return len(utf16.Encode([]rune(s))) >= MinPasswordLength
}

// Credentials returns the first problem with a login form, or nil.
func Credentials(email, password string) error {
	switch {
	case email == "":
		return ErrEmailRequired
	case password == "":
		return ErrPasswordRequired
	case !IsValidEmail(email):
		return ErrInvalidEmail
	case !IsValidPassword(password):
		return ErrPasswordTooShort
	}
	return nil
}

// SignUpCredentials is Credentials plus the confirmation check.
func SignUpCredentials(email, password, confirm string) error {
	if err := Credentials(email, password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
