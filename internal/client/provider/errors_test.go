package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError_UsesStandardDescription(t *testing.T) {
	err := NewError(CodeWeakPassword, "")
	assert.Equal(t, CodeWeakPassword, err.Code)
	assert.Equal(t, "The password must be 6 characters long or more.", err.Description)
	assert.Empty(t, err.Reason)
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "code only",
			err:  NewError(CodeInvalidEmail, ""),
			want: "provider error 17008: The email address is badly formatted.",
		},
		{
			name: "with reason",
			err:  NewError(CodeInternalError, ReasonInvalidLoginCredentials),
			want: "provider error 17999: An internal error has occurred, print and inspect the error details for more information. (INVALID_LOGIN_CREDENTIALS)",
		},
		{
			name: "with cause",
			err:  &Error{Code: CodeNetworkError, Description: "offline", Err: errors.New("dial tcp: refused")},
			want: "provider error 17020: offline: dial tcp: refused",
		},
		{
			name: "unknown code",
			err:  &Error{Code: 42},
			want: "provider error 42: identity provider error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_IsAndAs(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("sign in: %w", &Error{Code: CodeNetworkError, Err: cause})

	assert.True(t, errors.Is(err, NewError(CodeNetworkError, "")))
	assert.False(t, errors.Is(err, NewError(CodeInternalError, "")))
	assert.True(t, errors.Is(err, cause), "cause must stay reachable")

	pe, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNetworkError, pe.Code)

	assert.True(t, HasCode(err, CodeNetworkError))
	assert.False(t, HasCode(errors.New("plain"), CodeNetworkError))
}

func TestDescribe_Unknown(t *testing.T) {
	assert.Empty(t, Describe(Code(1)))
}
