package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vyrodovalexey/authtester/internal/auth"
	"github.com/vyrodovalexey/authtester/internal/exampleapp"
	"github.com/vyrodovalexey/authtester/internal/observability"
)

// echoHandler returns what it received as JSON.
func echoHandler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	cookies := make(map[string]string)
	for _, c := range r.Cookies() {
		cookies[c.Name] = c.Value
	}
	user, pass, _ := r.BasicAuth()

	w.Header().Set("Content-Type", "application/json")
	http.SetCookie(w, &http.Cookie{Name: "server", Value: "set"})
	_ = json.NewEncoder(w).Encode(map[string]any{
		"method":      r.Method,
		"path":        r.URL.Path,
		"query":       r.URL.RawQuery,
		"contentType": r.Header.Get("Content-Type"),
		"header":      r.Header.Get("X-Test"),
		"host":        r.Host,
		"body":        string(body),
		"cookies":     cookies,
		"user":        user,
		"pass":        pass,
	})
}

func TestNetworkTransport_Do(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(echoHandler))
	t.Cleanup(srv.Close)

	tr := NewNetworkTransport(srv.URL + "/")
	assert.Equal(t, "network", tr.Name())
	assert.Equal(t, srv.URL, tr.BaseURL())

	ctx := context.Background()

	raw, err := tr.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/echo",
		Params: &auth.Params{
			Headers:   map[string]string{"X-Test": "yes"},
			JSON:      map[string]any{"a": 1.0},
			BasicAuth: &auth.BasicAuth{Username: "calvin", Password: "pw"},
			Query:     map[string][]string{"q": {"1"}},
			Extra:     map[string]any{ExtraTimeout: 5 * time.Second},
		},
		Cookies: map[string]string{"lang": "en"},
	})
	require.NoError(t, err)

	res := NewResponse(raw)
	require.True(t, res.IsJSON)
	body := res.JSON.(map[string]any)
	assert.Equal(t, "POST", body["method"])
	assert.Equal(t, "/echo", body["path"])
	assert.Equal(t, "q=1", body["query"])
	assert.Equal(t, "yes", body["header"])
	assert.Equal(t, "application/json", body["contentType"])
	assert.JSONEq(t, `{"a":1}`, body["body"].(string))
	assert.Equal(t, map[string]any{"lang": "en"}, body["cookies"])
	assert.Equal(t, "calvin", body["user"])
	assert.Equal(t, "pw", body["pass"])
	assert.Equal(t, "set", res.Cookies["server"])

	// the server cookie is not sent back
	raw, err = tr.Do(ctx, &Request{Method: http.MethodGet, Path: "/again", Params: &auth.Params{}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, NewResponse(raw).JSON.(map[string]any)["cookies"])
}

func TestNetworkTransport_Forms(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(echoHandler))
	t.Cleanup(srv.Close)
	tr := NewNetworkTransport(srv.URL)
	ctx := context.Background()

	t.Run("form on get", func(t *testing.T) {
		t.Parallel()

		raw, err := tr.Do(ctx, &Request{
			Method: http.MethodGet,
			Path:   "/form",
			Params: &auth.Params{Form: map[string]any{"USER": "calvin"}},
		})
		require.NoError(t, err)
		body := NewResponse(raw).JSON.(map[string]any)
		assert.Equal(t, "application/x-www-form-urlencoded", body["contentType"])
		assert.Equal(t, "USER=calvin", body["body"])
	})

	t.Run("files move to multipart", func(t *testing.T) {
		t.Parallel()

		raw, err := tr.Do(ctx, &Request{
			Method: http.MethodPost,
			Path:   "/upload",
			Params: &auth.Params{Form: map[string]any{
				"hello": "world!",
				"file":  File{Reader: strings.NewReader("hello world"), Name: "hello.txt", ContentType: "text/plain"},
			}},
		})
		require.NoError(t, err)
		body := NewResponse(raw).JSON.(map[string]any)
		assert.True(t, strings.HasPrefix(body["contentType"].(string), "multipart/form-data"))
		assert.Contains(t, body["body"], `filename="hello.txt"`)
		assert.Contains(t, body["body"], "world!")
	})

	t.Run("files with json", func(t *testing.T) {
		t.Parallel()

		_, err := tr.Do(ctx, &Request{
			Method: http.MethodPost,
			Path:   "/upload",
			Params: &auth.Params{
				JSON: map[string]any{},
				Form: map[string]any{"f": strings.NewReader("x")},
			},
		})
		assert.ErrorIs(t, err, ErrFilesWithJSON)
	})
}

func TestNetworkTransport_Upload(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, exampleapp.Config{})
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	policy, err := auth.NewPolicy(auth.PolicyConfig{})
	require.NoError(t, err)
	c, err := New(policy, NewNetworkTransport(srv.URL), WithAssertErrors())
	require.NoError(t, err)

	res, err := c.Post(context.Background(), "/upload", ExpectStatus(http.StatusOK), WithForm(map[string]any{
		"hello": "world!",
		"file":  strings.NewReader("hello world"),
	}))
	require.NoError(t, err)

	files := jsonField(t, res, "files").(map[string]any)
	file := files["file"].(map[string]any)
	assert.Equal(t, "hello world", file["content"])
	assert.Equal(t, map[string]any{"hello": "world!"}, jsonField(t, res, "fields"))
}

func TestNetworkTransport_Errors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(echoHandler))
	url := srv.URL
	srv.Close()

	tr := NewNetworkTransport(url, WithRestyClient(resty.New()), WithHTTPClient(&http.Client{Timeout: time.Second}))
	_, err := tr.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/", Params: &auth.Params{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewNetworkTransport(url).Do(ctx, &Request{Method: http.MethodGet, Path: "/"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNetworkTransport_Logger(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(echoHandler))
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewNetworkTransport(srv.URL, WithNetworkLogger(observability.NewZapLogger(zap.New(core))))

	_, err := tr.Do(context.Background(), &Request{
		Method: http.MethodGet,
		Path:   "/",
		Params: &auth.Params{BasicAuth: &auth.BasicAuth{Username: "calvin", Password: "clv-pass"}},
	})
	require.NoError(t, err)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).FilterMessageSnippet("Basic Auth").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "resty", warnings[0].ContextMap()["component"])
}
