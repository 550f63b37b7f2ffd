package client

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRaw struct {
	body    string
	json    func() (any, error)
	cookies map[string]string
}

func (s stubRaw) StatusCode() int            { return http.StatusOK }
func (s stubRaw) Body() []byte               { return []byte(s.body) }
func (s stubRaw) Header() http.Header        { return http.Header{"Server": {"test/0.1"}} }
func (s stubRaw) Cookies() map[string]string { return s.cookies }
func (s stubRaw) JSON() (any, error)         { return s.json() }

func TestNewResponse(t *testing.T) {
	t.Parallel()

	t.Run("json body", func(t *testing.T) {
		t.Parallel()

		res := NewResponse(stubRaw{
			body: `{"hello":"world!"}`,
			json: func() (any, error) { return map[string]any{"hello": "world!"}, nil },
		})
		assert.True(t, res.IsJSON)
		assert.Equal(t, map[string]any{"hello": "world!"}, res.JSON)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "test/0.1", res.Headers.Get("Server"))
	})

	t.Run("decode error", func(t *testing.T) {
		t.Parallel()

		res := NewResponse(stubRaw{
			body: "hello world!",
			json: func() (any, error) { return nil, errors.New("not json!") },
		})
		assert.False(t, res.IsJSON)
		assert.Nil(t, res.JSON)
		assert.Equal(t, "hello world!", res.Text)
		assert.Equal(t, []byte("hello world!"), res.Data)
	})

	t.Run("decoder panic", func(t *testing.T) {
		t.Parallel()

		var res *Response
		require.NotPanics(t, func() {
			res = NewResponse(stubRaw{
				body: "boom",
				json: func() (any, error) { panic("decoder failure") },
			})
		})
		assert.False(t, res.IsJSON)
		assert.Nil(t, res.JSON)
	})
}

func TestHTTPResponse(t *testing.T) {
	t.Parallel()

	header := http.Header{}
	header.Add("Set-Cookie", "a=1; Path=/")
	header.Add("Set-Cookie", "b=2")

	raw := newHTTPResponse(http.StatusCreated, header, []byte(`[1, 2]`))
	res := NewResponse(raw)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, res.Cookies)
	assert.True(t, res.IsJSON)
	assert.Equal(t, []any{1.0, 2.0}, res.JSON)

	res = NewResponse(newHTTPResponse(http.StatusOK, nil, []byte(`{"a":1} trailing`)))
	assert.False(t, res.IsJSON)
	assert.NotNil(t, res.Headers)
	assert.Empty(t, res.Cookies)

	res = NewResponse(newHTTPResponse(http.StatusOK, nil, nil))
	assert.False(t, res.IsJSON)

	long := strings.Repeat("x", 600)
	res = NewResponse(newHTTPResponse(http.StatusTeapot, nil, []byte(long)))
	assert.Equal(t, "418 "+long[:512], res.String())
}
