package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// RawResponse is what a transport returns before adaptation.
type RawResponse interface {
	StatusCode() int
	Body() []byte
	Header() http.Header
	Cookies() map[string]string
	JSON() (any, error)
}

// Response is the transport independent view of an HTTP response. It is
// never modified once built.
type Response struct {
	StatusCode int
	Data       []byte
	Text       string
	Headers    http.Header
	Cookies    map[string]string

	// JSON is the decoded body, nil when the body is not JSON.
	JSON   any
	IsJSON bool
}

// NewResponse adapts a raw response. A body that fails to decode as JSON,
// including a decoder panic, yields JSON nil and IsJSON false.
func NewResponse(raw RawResponse) *Response {
	data := raw.Body()
	r := &Response{
		StatusCode: raw.StatusCode(),
		Data:       data,
		Text:       string(data),
		Headers:    raw.Header(),
		Cookies:    raw.Cookies(),
	}
	r.JSON, r.IsJSON = decodeJSON(raw)
	return r
}

func decodeJSON(raw RawResponse) (v any, ok bool) {
	defer func() {
		if recover() != nil {
			v, ok = nil, false
		}
	}()

	v, err := raw.JSON()
	if err != nil {
		return nil, false
	}
	return v, true
}

// String summarizes the response for logs and failure messages.
func (r *Response) String() string {
	return fmt.Sprintf("%d %s", r.StatusCode, truncate(r.Text, maxShownBody))
}

// httpResponse is the RawResponse of both transports, built once the body
// has been read.
type httpResponse struct {
	status  int
	body    []byte
	header  http.Header
	cookies []*http.Cookie
}

func newHTTPResponse(status int, header http.Header, body []byte) *httpResponse {
	if header == nil {
		header = http.Header{}
	}
	return &httpResponse{
		status:  status,
		body:    body,
		header:  header,
		cookies: (&http.Response{Header: header}).Cookies(),
	}
}

func (r *httpResponse) StatusCode() int {
	return r.status
}

func (r *httpResponse) Body() []byte {
	return r.body
}

func (r *httpResponse) Header() http.Header {
	return r.header
}

func (r *httpResponse) Cookies() map[string]string {
	cookies := make(map[string]string, len(r.cookies))
	for _, c := range r.cookies {
		cookies[c.Name] = c.Value
	}
	return cookies
}

func (r *httpResponse) JSON() (any, error) {
	var v any
	if err := json.Unmarshal(r.body, &v); err != nil {
		return nil, err
	}
	return v, nil
}
