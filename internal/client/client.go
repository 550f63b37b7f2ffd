package client

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/authtester/internal/auth"
	"github.com/vyrodovalexey/authtester/internal/observability"
)

// ErrNilPolicy indicates a client built without policy.
var ErrNilPolicy = errors.New("policy is required")

// Reporter receives expectation failures. *testing.T satisfies it.
type Reporter interface {
	Errorf(format string, args ...any)
	FailNow()
}

// ClientHook is notified after every successful password update, with the
// client so that it can fetch a token right away.
type ClientHook func(c *Client, login string, password *string)

// Client issues requests on behalf of logical logins. It is not safe for
// concurrent use.
type Client struct {
	policy    *auth.Policy
	transport Transport

	defaultLogin *string
	reporter     Reporter
	assertErrors bool

	logger  observability.Logger
	metrics *Metrics
	tracer  *observability.Tracer
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer *observability.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithDefaultLogin sets the login used by requests without login option.
func WithDefaultLogin(login string) Option {
	return func(c *Client) {
		c.defaultLogin = &login
	}
}

// WithReporter reports expectation failures to r, which fails the test.
func WithReporter(r Reporter) Option {
	return func(c *Client) {
		c.reporter = r
	}
}

// WithAssertErrors returns expectation failures as *AssertError instead of
// reporting them.
func WithAssertErrors() Option {
	return func(c *Client) {
		c.assertErrors = true
	}
}

// New creates a client.
func New(policy *auth.Policy, transport Transport, opts ...Option) (*Client, error) {
	if policy == nil {
		return nil, ErrNilPolicy
	}
	if transport == nil {
		return nil, ErrNilTransport
	}

	c := &Client{
		policy:    policy,
		transport: transport,
		logger:    observability.NopLogger(),
		metrics:   NopMetrics(),
		tracer:    observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Policy returns the authentication policy.
func (c *Client) Policy() *auth.Policy {
	return c.policy
}

// Transport returns the transport.
func (c *Client) Transport() Transport {
	return c.transport
}

// SetDefaultLogin sets the default login, nil for none.
func (c *Client) SetDefaultLogin(login *string) {
	if login == nil {
		c.defaultLogin = nil
		return
	}
	l := *login
	c.defaultLogin = &l
}

// SetHook installs a password hook that receives the client.
func (c *Client) SetHook(hook ClientHook) {
	if hook == nil {
		c.policy.SetHook(nil)
		return
	}
	c.policy.SetHook(auth.PasswordHookFunc(func(login string, password *string) {
		hook(c, login, password)
	}))
}

// SetPassword associates a password to login, nil to remove it.
func (c *Client) SetPassword(login string, password *string) error {
	if password == nil {
		return c.policy.RemovePassword(login)
	}
	return c.policy.SetPassword(login, *password)
}

// SetToken associates a token to login, nil to remove it.
func (c *Client) SetToken(login string, token *string) error {
	if token == nil {
		return c.policy.RemoveToken(login)
	}
	return c.policy.SetToken(login, *token)
}

// SetCookie associates a cookie to login, nil to remove it.
func (c *Client) SetCookie(login, name string, value *string) {
	if value == nil {
		c.policy.RemoveCookie(login, name)
		return
	}
	c.policy.SetCookie(login, name, *value)
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, opts...)
}

// Post issues a POST request.
func (c *Client) Post(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, opts...)
}

// Put issues a PUT request.
func (c *Client) Put(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, opts...)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, opts...)
}

// Request issues a possibly authenticated request and checks the expected
// status and content. When an expectation fails the response is returned
// along with an *AssertError, unless a Reporter is set and assertion errors
// are not requested, in which case the Reporter fails the test.
func (c *Client) Request(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	cfg := newRequestConfig(opts)
	id := c.identity(cfg)

	ctx = observability.ContextWithRequestID(ctx, uuid.NewString())
	ctx, span := c.tracer.StartSpan(ctx, "authtester.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("authtester.login", id.String()),
			attribute.String("authtester.transport", c.transport.Name()),
		),
	)
	defer span.End()

	logger := c.logger.WithContext(ctx)

	start := time.Now()
	resp, err := c.do(ctx, method, path, id, cfg)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.metrics.RecordRequest(method, c.transport.Name(), status, duration)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debug("request failed",
			observability.String("method", method),
			observability.String("path", path),
			observability.String("login", id.String()),
			observability.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	logger.Debug("request done",
		observability.String("method", method),
		observability.String("path", path),
		observability.String("login", id.String()),
		observability.Int("status", resp.StatusCode),
		observability.Duration("duration", duration),
	)

	if err := c.check(cfg, resp, logger); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	return resp, nil
}

func (c *Client) identity(cfg *requestConfig) auth.Identity {
	switch cfg.loginMode {
	case loginSet:
		return auth.As(cfg.login)
	case loginNone:
		return auth.Anonymous
	default:
		if c.defaultLogin != nil {
			return auth.As(*c.defaultLogin)
		}
		return auth.Anonymous
	}
}

func (c *Client) do(ctx context.Context, method, path string, id auth.Identity, cfg *requestConfig) (*Response, error) {
	var scheme auth.Scheme
	if !id.IsAnonymous() {
		var err error
		if scheme, err = cfg.resolveScheme(); err != nil {
			return nil, err
		}
	}

	cookies := make(map[string]string, len(cfg.cookies))
	maps.Copy(cookies, cfg.cookies)

	params := &auth.Params{
		Headers: maps.Clone(cfg.headers),
		JSON:    cfg.json,
		Form:    cfg.form,
		Query:   cfg.query,
		Extra:   cfg.extra,
	}

	if params.JSON != nil && params.Form != nil {
		maps.Copy(params.Form, params.JSON)
		params.JSON = nil
	}
	if params.JSON != nil {
		if err := normalizeJSON(params.JSON); err != nil {
			return nil, err
		}
	}
	if params.Form != nil {
		if err := normalizeForm(params.Form); err != nil {
			return nil, err
		}
	}

	if err := c.policy.Apply(ctx, id, params, cookies, scheme); err != nil {
		return nil, err
	}

	raw, err := c.transport.Do(ctx, &Request{
		Method:  method,
		Path:    path,
		Params:  params,
		Cookies: cookies,
	})
	if err != nil {
		return nil, err
	}

	return NewResponse(raw), nil
}

func (c *Client) check(cfg *requestConfig, resp *Response, logger observability.Logger) error {
	if cfg.status != 0 {
		if msg, ok := checkStatus(cfg.status, resp); !ok {
			return c.fail(ExpectKindStatus, msg, logger)
		}
	}
	if cfg.content != nil {
		if msg, ok := checkContent(*cfg.content, resp); !ok {
			return c.fail(ExpectKindContent, msg, logger)
		}
	}
	return nil
}

func (c *Client) fail(kind, msg string, logger observability.Logger) error {
	c.metrics.RecordExpectationFailure(kind)
	logger.Error(msg, observability.String("kind", kind))

	if c.assertErrors || c.reporter == nil {
		return &AssertError{Kind: kind, Message: msg}
	}

	if h, ok := c.reporter.(interface{ Helper() }); ok {
		h.Helper()
	}
	c.reporter.Errorf("%s", msg)
	c.reporter.FailNow()
	return nil
}
