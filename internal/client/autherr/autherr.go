// Package autherr turns identity-provider failures into a closed set of
// categories with user-facing messages.
//
// Classification is two-tier: a diagnostic reason carried by the provider
// error wins over its numeric code, because the provider reports several
// distinct failures (bad credentials, unverified email) under one generic
// internal-error code.
package autherr

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mynote/internal/client/provider"
)

// ErrNoCurrentUser is returned when an operation needs a signed-in identity
// and the provider has none.
var ErrNoCurrentUser = errors.New("no current user")

// Kind enumerates the categories.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindIncorrectCredentials
	KindEmailNotVerified
	KindAccountDisabled
	KindUnexpected
	KindInvalidEmail
	KindEmailAlreadyInUse
	KindUserNotFound
	KindNetworkError
	KindUserDisabled
	KindWeakPassword
	KindNoCurrentUser
)

var kindNames = map[Kind]string{
	KindUnrecognized:         "unrecognized",
	KindIncorrectCredentials: "incorrect_credentials",
	KindEmailNotVerified:     "email_not_verified",
	KindAccountDisabled:      "account_disabled",
	KindUnexpected:           "unexpected",
	KindInvalidEmail:         "invalid_email",
	KindEmailAlreadyInUse:    "email_already_in_use",
	KindUserNotFound:         "user_not_found",
	KindNetworkError:         "network_error",
	KindUserDisabled:         "user_disabled",
	KindWeakPassword:         "weak_password",
	KindNoCurrentUser:        "no_current_user",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Category is a classified failure. Detail holds the unrecognized reason for
// KindUnexpected and the fallback description for KindUnrecognized.
type Category struct {
	Kind   Kind
	Detail string
}

const unknownMessage = "An unknown error occurred. Please try again."

var messages = map[Kind]string{
	KindIncorrectCredentials: "The email or password you entered is incorrect. Please try again.",
	KindEmailNotVerified:     "Your email is not verified. Please check your inbox and verify your email.",
	KindAccountDisabled:      "Your account has been disabled. Please contact support for assistance.",
	KindInvalidEmail:         "The email address is badly formatted.",
	KindEmailAlreadyInUse:    "The email address is already in use by another account.",
	KindUserNotFound:         "There is no user record corresponding to this identifier.",
	KindNetworkError:         "A network error occurred. Please check your connection.",
	KindUserDisabled:         "The user account has been disabled by an administrator.",
	KindWeakPassword:         "The password must be 6 characters long or more.",
	KindNoCurrentUser:        "No user is currently logged in.",
}

// Message returns the text shown to the user. It is never empty.
func (c Category) Message() string {
	switch c.Kind {
	case KindUnexpected:
		return "An unexpected error occurred: " + c.Detail
	case KindUnrecognized:
		if c.Detail == "" {
			return unknownMessage
		}
		return c.Detail
	}
	if m, ok := messages[c.Kind]; ok {
		return m
	}
	return unknownMessage
}

func (c Category) String() string {
	if c.Detail == "" {
		return c.Kind.String()
	}
	return c.Kind.String() + "(" + c.Detail + ")"
}

var reasonKinds = map[provider.Reason]Kind{
	provider.ReasonInvalidLoginCredentials: KindIncorrectCredentials,
	provider.ReasonEmailNotVerified:        KindEmailNotVerified,
	provider.ReasonUserDisabled:            KindAccountDisabled,
}

var codeKinds = map[provider.Code]Kind{
	provider.CodeInvalidEmail:      KindInvalidEmail,
	provider.CodeEmailAlreadyInUse: KindEmailAlreadyInUse,
	provider.CodeUserNotFound:      KindUserNotFound,
	provider.CodeNetworkError:      KindNetworkError,
	provider.CodeUserDisabled:      KindUserDisabled,
	provider.CodeWeakPassword:      KindWeakPassword,
}

// Classify maps err to a Category. It accepts any error, including nil.
func Classify(err error) Category {
	if err == nil {
		return Category{Kind: KindUnrecognized}
	}
	if errors.Is(err, ErrNoCurrentUser) {
		return Category{Kind: KindNoCurrentUser}
	}

	pe, ok := provider.AsError(err)
	if !ok {
		return Category{Kind: KindUnrecognized, Detail: err.Error()}
	}
	return classifyProvider(pe)
}

// Message is shorthand for Classify(err).Message().
func Message(err error) string {
	return Classify(err).Message()
}

func classifyProvider(pe *provider.Error) Category {
	if pe.Reason != "" {
		if k, ok := reasonKinds[pe.Reason]; ok {
			return Category{Kind: k}
		}
		return Category{Kind: KindUnexpected, Detail: string(pe.Reason)}
	}
	if k, ok := codeKinds[pe.Code]; ok {
		return Category{Kind: k}
	}

	desc := pe.Description
	if desc == "" {
		desc = provider.Describe(pe.Code)
	}
	return Category{Kind: KindUnrecognized, Detail: desc}
}
