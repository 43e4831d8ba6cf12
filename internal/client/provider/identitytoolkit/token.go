package identitytoolkit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// idTokenClaims are the facts the provider puts in its ID tokens.
type idTokenClaims struct {
	jwt.RegisteredClaims
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// parseIDToken reads the claims of an ID token without checking its
// signature. The client only consumes tokens it just received from the
// provider over TLS; verification is the backend's job.
func parseIDToken(token string) (*idTokenClaims, error) {
	claims := &idTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *idTokenClaims) uid() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// expiresBefore reports whether the token is no longer valid at t. Tokens
// without an exp claim never expire.
func (c *idTokenClaims) expiresBefore(t time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.Time.After(t)
}
