package client

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/authtester/internal/auth"
)

func TestRequestOptions(t *testing.T) {
	t.Parallel()

	json := map[string]any{"a": 1}
	cfg := newRequestConfig([]RequestOption{
		WithLogin("calvin"),
		WithHeader("X-A", "1"),
		WithHeaders(map[string]string{"X-B": "2"}),
		WithJSON(json),
		WithJSON(map[string]any{"b": 2}),
		WithForm(map[string]any{"c": 3}),
		WithCookies(map[string]string{"lang": "en"}),
		WithQuery(url.Values{"q": {"1"}}),
		WithQuery(url.Values{"q": {"2"}}),
		WithExtra(ExtraHost, "h"),
		ExpectStatus(201),
		ExpectContent("x"),
		WithScheme(auth.SchemeBasic),
	})

	assert.Equal(t, loginSet, cfg.loginMode)
	assert.Equal(t, "calvin", cfg.login)
	assert.Equal(t, map[string]string{"X-A": "1", "X-B": "2"}, cfg.headers)
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, cfg.json)
	assert.Equal(t, map[string]any{"a": 1}, json)
	assert.Equal(t, map[string]any{"c": 3}, cfg.form)
	assert.Equal(t, map[string]string{"lang": "en"}, cfg.cookies)
	assert.Equal(t, url.Values{"q": {"1", "2"}}, cfg.query)
	assert.Equal(t, map[string]any{ExtraHost: "h"}, cfg.extra)
	assert.Equal(t, 201, cfg.status)
	require.NotNil(t, cfg.content)
	assert.Equal(t, "x", *cfg.content)

	scheme, err := cfg.resolveScheme()
	require.NoError(t, err)
	assert.Equal(t, auth.SchemeBasic, scheme)
}

func TestRequestOptions_Login(t *testing.T) {
	t.Parallel()

	assert.Equal(t, loginDefault, newRequestConfig(nil).loginMode)
	assert.Equal(t, loginNone, newRequestConfig([]RequestOption{WithLogin("a"), WithoutLogin()}).loginMode)
	assert.Equal(t, loginSet, newRequestConfig([]RequestOption{WithoutLogin(), WithLogin("a")}).loginMode)
}

func TestRequestOptions_SchemeName(t *testing.T) {
	t.Parallel()

	scheme, err := newRequestConfig([]RequestOption{WithSchemeName("param")}).resolveScheme()
	require.NoError(t, err)
	assert.Equal(t, auth.SchemeParam, scheme)

	scheme, err = newRequestConfig([]RequestOption{WithSchemeName("param"), WithScheme(auth.SchemeBearer)}).resolveScheme()
	require.NoError(t, err)
	assert.Equal(t, auth.SchemeBearer, scheme)

	_, err = newRequestConfig([]RequestOption{WithSchemeName("foobla")}).resolveScheme()
	assert.ErrorIs(t, err, auth.ErrUnexpectedScheme)

	scheme, err = newRequestConfig([]RequestOption{WithSchemeName("")}).resolveScheme()
	require.NoError(t, err)
	assert.Equal(t, auth.SchemeUnset, scheme)
}
