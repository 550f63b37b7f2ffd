package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/vyrodovalexey/authtester/internal/auth"
	"github.com/vyrodovalexey/authtester/internal/observability"
)

// NetworkTransport sends requests to a running server through one
// persistent resty client. The client keeps no cookie jar: the cookies of
// each call are exactly those computed for it.
type NetworkTransport struct {
	baseURL string
	client  *resty.Client
	logger  observability.Logger
}

// NetworkOption is a functional option for configuring a NetworkTransport.
type NetworkOption func(*NetworkTransport)

// WithRestyClient replaces the underlying resty client. Its base URL and
// cookie jar are overridden.
func WithRestyClient(c *resty.Client) NetworkOption {
	return func(t *NetworkTransport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithNetworkLogger routes resty diagnostics to logger.
func WithNetworkLogger(logger observability.Logger) NetworkOption {
	return func(t *NetworkTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithHTTPClient builds the resty client on top of an existing http.Client.
func WithHTTPClient(c *http.Client) NetworkOption {
	return func(t *NetworkTransport) {
		if c != nil {
			t.client = resty.NewWithClient(c)
		}
	}
}

// NewNetworkTransport creates a transport targeting baseURL.
func NewNetworkTransport(baseURL string, opts ...NetworkOption) *NetworkTransport {
	t := &NetworkTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  resty.New(),
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.client.
		SetBaseURL(t.baseURL).
		SetCookieJar(nil).
		SetAllowGetMethodPayload(true).
		SetLogger(restyLogger{logger: t.logger.With(observability.String("component", "resty"))})

	return t
}

// restyLogger adapts Logger to resty.Logger.
type restyLogger struct {
	logger observability.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

var _ resty.Logger = restyLogger{}

// Name returns "network".
func (t *NetworkTransport) Name() string {
	return "network"
}

// BaseURL returns the target server URL.
func (t *NetworkTransport) BaseURL() string {
	return t.baseURL
}

// Do sends the request over the network.
func (t *NetworkTransport) Do(ctx context.Context, req *Request) (RawResponse, error) {
	params := req.Params
	if params == nil {
		params = &auth.Params{}
	}

	values, files := splitForm(params.Form)
	if len(files) > 0 && params.JSON != nil {
		return nil, ErrFilesWithJSON
	}
	if params.JSON != nil && params.Form != nil {
		return nil, ErrJSONWithForm
	}

	if d, ok := extraTimeout(params.Extra); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	r := t.client.R().SetContext(ctx)

	for k, v := range params.Headers {
		r.SetHeader(k, v)
	}
	if host := extraHost(params.Extra); host != "" {
		r.SetHeader("Host", host)
	}
	if params.BasicAuth != nil {
		r.SetBasicAuth(params.BasicAuth.Username, params.BasicAuth.Password)
	}
	if len(params.Query) > 0 {
		r.SetQueryParamsFromValues(params.Query)
	}
	for name, value := range req.Cookies {
		r.SetCookie(&http.Cookie{Name: name, Value: value})
	}

	switch {
	case params.JSON != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(params.JSON)
	case len(files) > 0:
		r.SetFormDataFromValues(values)
		for name, f := range files {
			fileName := f.Name
			if fileName == "" {
				fileName = name
			}
			r.SetMultipartField(name, fileName, f.ContentType, f.Reader)
		}
	case params.Form != nil:
		r.SetFormDataFromValues(values)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	return newHTTPResponse(resp.StatusCode(), resp.Header(), resp.Body()), nil
}

var _ Transport = (*NetworkTransport)(nil)
