package identitytoolkit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mynote/internal/client/provider"
)

// errorBody is the JSON envelope of a failed API call:
//
//	{"error": {"code": 400, "message": "EMAIL_EXISTS", "errors": [...]}}
type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// knownMessages are the API answers that have a dedicated SDK code. Anything
// else is reported as an internal error carrying the message as Reason.
var knownMessages = map[string]provider.Code{
	"EMAIL_EXISTS":                provider.CodeEmailAlreadyInUse,
	"INVALID_EMAIL":               provider.CodeInvalidEmail,
	"MISSING_EMAIL":               provider.CodeInvalidEmail,
	"EMAIL_NOT_FOUND":             provider.CodeUserNotFound,
	"USER_NOT_FOUND":              provider.CodeUserNotFound,
	"USER_DISABLED":               provider.CodeUserDisabled,
	"WEAK_PASSWORD":               provider.CodeWeakPassword,
	"INVALID_PASSWORD":            provider.CodeWrongPassword,
	"TOO_MANY_ATTEMPTS_TRY_LATER": provider.CodeTooManyRequests,
	"OPERATION_NOT_ALLOWED":       provider.CodeOperationNotAllowed,
	"PASSWORD_LOGIN_DISABLED":     provider.CodeOperationNotAllowed,
	"INVALID_ID_TOKEN":            provider.CodeInvalidUserToken,
	"TOKEN_EXPIRED":               provider.CodeUserTokenExpired,
	"USER_MISMATCH":               provider.CodeUserMismatch,
}

const apiKeyPrefix = "API key not valid"

// decodeError turns an error response into a *provider.Error. It is the only
// place raw provider payloads are inspected.
func decodeError(status int, body []byte) *provider.Error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Error.Message == "" {
		pe := provider.NewError(provider.CodeInternalError, "")
		pe.Err = fmt.Errorf("unexpected response status %d", status)
		return pe
	}

	msg := strings.TrimSpace(eb.Error.Message)
	if strings.HasPrefix(msg, apiKeyPrefix) {
		return provider.NewError(provider.CodeInvalidAPIKey, "")
	}

	// Some messages carry details after the name: "WEAK_PASSWORD : Password should be at least 6 characters".
	name, _, _ := strings.Cut(msg, " : ")
	name = strings.TrimSpace(name)

	if code, ok := knownMessages[name]; ok {
		return provider.NewError(code, "")
	}
	return provider.NewError(provider.CodeInternalError, provider.Reason(name))
}

// networkError wraps a transport failure.
func networkError(err error) *provider.Error {
	pe := provider.NewError(provider.CodeNetworkError, "")
	pe.Err = err
	return pe
}
