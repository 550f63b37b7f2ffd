package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Harness is an embedded application driven without network I/O. It keeps
// a cookie jar across calls, like a framework test client.
type Harness interface {
	Open(req *http.Request) (RawResponse, error)
	SetCookie(name, value string)
	DeleteCookie(name string)
}

// HandlerHarness is a Harness over any http.Handler. Cookies set by the
// handler are kept for the following calls.
type HandlerHarness struct {
	handler http.Handler

	mu      sync.Mutex
	cookies map[string]string
}

// NewHandlerHarness creates a harness serving handler.
func NewHandlerHarness(handler http.Handler) *HandlerHarness {
	return &HandlerHarness{
		handler: handler,
		cookies: make(map[string]string),
	}
}

// SetCookie sets a cookie sent with the following calls.
func (h *HandlerHarness) SetCookie(name, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cookies[name] = value
}

// DeleteCookie removes a cookie from the jar.
func (h *HandlerHarness) DeleteCookie(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.cookies, name)
}

// Cookies returns a copy of the jar.
func (h *HandlerHarness) Cookies() map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	jar := make(map[string]string, len(h.cookies))
	for k, v := range h.cookies {
		jar[k] = v
	}
	return jar
}

// Open serves req with the jar cookies and records the response.
func (h *HandlerHarness) Open(req *http.Request) (RawResponse, error) {
	h.mu.Lock()
	for name, value := range h.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	h.mu.Unlock()

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	h.absorb(res.Cookies())
	return newHTTPResponse(res.StatusCode, res.Header, body), nil
}

func (h *HandlerHarness) absorb(cookies []*http.Cookie) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			delete(h.cookies, c.Name)
			continue
		}
		h.cookies[c.Name] = c.Value
	}
}

// InProcessTransport drives a Harness. Before each call it clears every
// cookie it ever set or received, then sets the cookies of the call.
type InProcessTransport struct {
	harness Harness

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewInProcessTransport creates a transport over harness.
func NewInProcessTransport(harness Harness) *InProcessTransport {
	return &InProcessTransport{
		harness: harness,
		seen:    make(map[string]struct{}),
	}
}

// NewHandlerTransport creates a transport serving handler in process.
func NewHandlerTransport(handler http.Handler) *InProcessTransport {
	return NewInProcessTransport(NewHandlerHarness(handler))
}

// Name returns "inprocess".
func (t *InProcessTransport) Name() string {
	return "inprocess"
}

// Harness returns the underlying harness.
func (t *InProcessTransport) Harness() Harness {
	return t.harness
}

// Do runs the request against the harness.
func (t *InProcessTransport) Do(ctx context.Context, req *Request) (RawResponse, error) {
	if d, ok := extraTimeout(req.extra()); ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	httpReq, err := buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for name := range t.seen {
		t.harness.DeleteCookie(name)
	}
	for name, value := range req.Cookies {
		t.seen[name] = struct{}{}
		t.harness.SetCookie(name, value)
	}

	res, err := t.harness.Open(httpReq)
	if err != nil {
		return nil, err
	}
	for name := range res.Cookies() {
		t.seen[name] = struct{}{}
	}
	return res, nil
}

var _ Transport = (*InProcessTransport)(nil)
