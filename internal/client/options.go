package client

import (
	"maps"
	"net/url"

	"github.com/vyrodovalexey/authtester/internal/auth"
)

type loginMode uint8

const (
	loginDefault loginMode = iota
	loginNone
	loginSet
)

// requestConfig holds the per-call options.
type requestConfig struct {
	loginMode loginMode
	login     string

	scheme     auth.Scheme
	schemeName *string

	status  int
	content *string

	headers map[string]string
	json    map[string]any
	form    map[string]any
	cookies map[string]string
	query   url.Values
	extra   map[string]any
}

// RequestOption is a functional option for a single request.
type RequestOption func(*requestConfig)

func newRequestConfig(opts []RequestOption) *requestConfig {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// resolveScheme returns the requested scheme. A scheme name is parsed here
// so that an unknown name fails the request, not the option.
func (c *requestConfig) resolveScheme() (auth.Scheme, error) {
	if c.schemeName != nil {
		return auth.ParseScheme(*c.schemeName)
	}
	return c.scheme, nil
}

// WithLogin issues the request for login.
func WithLogin(login string) RequestOption {
	return func(c *requestConfig) {
		c.loginMode = loginSet
		c.login = login
	}
}

// WithoutLogin issues an unauthenticated request, ignoring the default login.
func WithoutLogin() RequestOption {
	return func(c *requestConfig) {
		c.loginMode = loginNone
		c.login = ""
	}
}

// WithScheme requests an explicit authentication scheme.
func WithScheme(scheme auth.Scheme) RequestOption {
	return func(c *requestConfig) {
		c.scheme = scheme
		c.schemeName = nil
	}
}

// WithSchemeName requests an explicit authentication scheme by name.
func WithSchemeName(name string) RequestOption {
	return func(c *requestConfig) {
		c.schemeName = &name
	}
}

// ExpectStatus checks the response status code.
func ExpectStatus(code int) RequestOption {
	return func(c *requestConfig) {
		c.status = code
	}
}

// ExpectContent checks that the response body matches the regular
// expression pattern. The dot matches newlines.
func ExpectContent(pattern string) RequestOption {
	return func(c *requestConfig) {
		c.content = &pattern
	}
}

// WithHeaders adds request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		maps.Copy(c.headers, headers)
	}
}

// WithHeader adds one request header.
func WithHeader(name, value string) RequestOption {
	return WithHeaders(map[string]string{name: value})
}

// WithJSON sends fields as a JSON object body. The map is copied.
func WithJSON(fields map[string]any) RequestOption {
	return func(c *requestConfig) {
		if c.json == nil {
			c.json = make(map[string]any, len(fields))
		}
		maps.Copy(c.json, fields)
	}
}

// WithForm sends fields as a form body. File and io.Reader values are
// uploaded as multipart files. The map is copied.
func WithForm(fields map[string]any) RequestOption {
	return func(c *requestConfig) {
		if c.form == nil {
			c.form = make(map[string]any, len(fields))
		}
		maps.Copy(c.form, fields)
	}
}

// WithCookies adds request cookies.
func WithCookies(cookies map[string]string) RequestOption {
	return func(c *requestConfig) {
		if c.cookies == nil {
			c.cookies = make(map[string]string, len(cookies))
		}
		maps.Copy(c.cookies, cookies)
	}
}

// WithQuery adds URL query parameters.
func WithQuery(query url.Values) RequestOption {
	return func(c *requestConfig) {
		if c.query == nil {
			c.query = url.Values{}
		}
		for k, vs := range query {
			c.query[k] = append(c.query[k], vs...)
		}
	}
}

// WithExtra passes transport specific options, see ExtraHost and
// ExtraTimeout.
func WithExtra(key string, value any) RequestOption {
	return func(c *requestConfig) {
		if c.extra == nil {
			c.extra = make(map[string]any)
		}
		c.extra[key] = value
	}
}
