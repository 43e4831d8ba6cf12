package identitytoolkit

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/mynote/internal/client/provider"
	"github.com/stretchr/testify/assert"
)

func TestDecodeError(t *testing.T) {
	body := func(msg string) []byte {
		return []byte(`{"error":{"code":400,"message":"` + msg + `"}}`)
	}

	tests := []struct {
		name   string
		status int
		body   []byte
		code   provider.Code
		reason provider.Reason
	}{
		{"email exists", 400, body("EMAIL_EXISTS"), provider.CodeEmailAlreadyInUse, ""},
		{"invalid email", 400, body("INVALID_EMAIL"), provider.CodeInvalidEmail, ""},
		{"email not found", 400, body("EMAIL_NOT_FOUND"), provider.CodeUserNotFound, ""},
		{"user disabled", 400, body("USER_DISABLED"), provider.CodeUserDisabled, ""},
		{"weak password with detail", 400, body("WEAK_PASSWORD : Password should be at least 6 characters"), provider.CodeWeakPassword, ""},
		{"wrong password", 400, body("INVALID_PASSWORD"), provider.CodeWrongPassword, ""},
		{"too many attempts", 400, body("TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled"), provider.CodeTooManyRequests, ""},
		{"expired token", 400, body("TOKEN_EXPIRED"), provider.CodeUserTokenExpired, ""},
		{"api key", 400, body("API key not valid. Please pass a valid API key."), provider.CodeInvalidAPIKey, ""},
		{"login credentials", 400, body("INVALID_LOGIN_CREDENTIALS"), provider.CodeInternalError, provider.ReasonInvalidLoginCredentials},
		{"not verified", 400, body("EMAIL_NOT_VERIFIED"), provider.CodeInternalError, provider.ReasonEmailNotVerified},
		{"unknown message", 400, body("QUOTA_EXCEEDED"), provider.CodeInternalError, "QUOTA_EXCEEDED"},
		{"empty body", 502, nil, provider.CodeInternalError, ""},
		{"html body", 500, []byte("<html>oops</html>"), provider.CodeInternalError, ""},
		{"empty message", 400, []byte(`{"error":{"code":400}}`), provider.CodeInternalError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := decodeError(tt.status, tt.body)
			assert.Equal(t, tt.code, pe.Code)
			assert.Equal(t, tt.reason, pe.Reason)
			assert.NotEmpty(t, pe.Description)
		})
	}
}

func TestDecodeError_UnparseableKeepsStatus(t *testing.T) {
	pe := decodeError(503, []byte("Service Unavailable"))
	assert.ErrorContains(t, pe, "unexpected response status 503")
}

func TestNetworkError_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	pe := networkError(cause)
	assert.Equal(t, provider.CodeNetworkError, pe.Code)
	assert.ErrorIs(t, pe, cause)
}
