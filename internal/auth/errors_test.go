package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthError(t *testing.T) {
	t.Parallel()

	err := newAuthError(ErrSchemeNotAllowed, "calvin", "cookie")
	assert.Equal(t, "auth is not allowed: cookie", err.Error())
	assert.ErrorIs(t, err, ErrSchemeNotAllowed)
	assert.Equal(t, "calvin", err.Login)

	bare := &AuthError{Err: ErrNoAuthentication}
	assert.Equal(t, "no authentication", bare.Error())

	wrapped := fmt.Errorf("request failed: %w", err)
	assert.True(t, IsAuthError(wrapped))
	assert.False(t, IsAuthError(errors.New("other")))
}

func TestConfigurationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ConfigurationError
		want string
	}{
		{
			name: "field",
			err:  NewConfigurationError("allow", "bad"),
			want: "auth config error at allow: bad",
		},
		{
			name: "field with cause",
			err:  NewConfigurationErrorWithCause("allow", "bad", errors.New("boom")),
			want: "auth config error at allow: bad: boom",
		},
		{
			name: "no field",
			err:  NewConfigurationError("", "bad"),
			want: "auth config error: bad",
		},
		{
			name: "no field with cause",
			err:  NewConfigurationErrorWithCause("", "bad", errors.New("boom")),
			want: "auth config error: bad: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrConfiguration)
			assert.False(t, IsAuthError(tt.err))

			var target *ConfigurationError
			assert.ErrorAs(t, tt.err, &target)
		})
	}

	cause := errors.New("root")
	assert.ErrorIs(t, NewConfigurationErrorWithCause("f", "m", cause), cause)
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{newAuthError(ErrUnexpectedScheme, "", "x"), "unexpected_scheme"},
		{newAuthError(ErrSchemeNotAllowed, "a", "x"), "scheme_not_allowed"},
		{newAuthError(ErrNoTokenCarrier, "a", "x"), "no_token_carrier"},
		{newAuthError(ErrNoPasswordCarrier, "a", "x"), "no_password_carrier"},
		{newAuthError(ErrNoAuthentication, "a", "x"), "no_authentication"},
		{errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, errorKind(tt.err))
	}
}
