package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/vyrodovalexey/authtester/internal/auth"
)

// Extra keys understood by the transports. Other keys are ignored.
const (
	// ExtraHost overrides the Host of the request.
	ExtraHost = "host"

	// ExtraTimeout bounds the request duration, as a time.Duration.
	ExtraTimeout = "timeout"
)

// ErrJSONWithForm indicates a request carrying both a JSON and a form body.
var ErrJSONWithForm = errors.New("json and form bodies are exclusive")

// Request is a fully prepared request handed to a Transport.
type Request struct {
	Method  string
	Path    string
	Params  *auth.Params
	Cookies map[string]string
}

func (r *Request) extra() map[string]any {
	if r.Params == nil {
		return nil
	}
	return r.Params.Extra
}

// Transport sends a prepared request and returns the raw response.
type Transport interface {
	Do(ctx context.Context, req *Request) (RawResponse, error)

	// Name identifies the transport in logs and metrics.
	Name() string
}

// File is a form value uploaded as a multipart file.
type File struct {
	Reader      io.Reader
	Name        string
	ContentType string
}

// splitForm separates plain form values from uploads. Readers that are not
// File values are uploaded under the field name.
func splitForm(form map[string]any) (url.Values, map[string]File) {
	values := url.Values{}
	var files map[string]File
	for name, v := range form {
		var f File
		switch fv := v.(type) {
		case File:
			f = fv
		case *File:
			f = *fv
		case io.Reader:
			f = File{Reader: fv, Name: name}
		default:
			values.Set(name, formString(v))
			continue
		}
		if files == nil {
			files = make(map[string]File)
		}
		files[name] = f
	}
	return values, files
}

func formString(v any) string {
	switch sv := v.(type) {
	case string:
		return sv
	case []byte:
		return string(sv)
	default:
		return fmt.Sprint(v)
	}
}

func extraTimeout(extra map[string]any) (time.Duration, bool) {
	d, ok := extra[ExtraTimeout].(time.Duration)
	return d, ok && d > 0
}

func extraHost(extra map[string]any) string {
	host, _ := extra[ExtraHost].(string)
	return host
}

// buildHTTPRequest turns a prepared request into an *http.Request for a
// handler. Cookies are left to the harness.
func buildHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	params := req.Params
	if params == nil {
		params = &auth.Params{}
	}

	body, contentType, err := encodeBody(params)
	if err != nil {
		return nil, err
	}

	target, err := url.Parse(req.Path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", req.Path, err)
	}
	if len(params.Query) > 0 {
		q := target.Query()
		for k, vs := range params.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	if !strings.HasPrefix(target.Path, "/") {
		target.Path = "/" + target.Path
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, "http://localhost"+target.RequestURI(), body)
	if err != nil {
		return nil, err
	}
	httpReq.RemoteAddr = "192.0.2.1:1234"
	httpReq.RequestURI = target.RequestURI()

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range params.Headers {
		httpReq.Header.Set(k, v)
	}
	if params.BasicAuth != nil {
		httpReq.SetBasicAuth(params.BasicAuth.Username, params.BasicAuth.Password)
	}
	if host := extraHost(params.Extra); host != "" {
		httpReq.Host = host
	}

	return httpReq, nil
}

func encodeBody(params *auth.Params) (io.Reader, string, error) {
	values, files := splitForm(params.Form)

	switch {
	case params.JSON != nil && len(files) > 0:
		return nil, "", ErrFilesWithJSON
	case params.JSON != nil && params.Form != nil:
		return nil, "", ErrJSONWithForm
	case params.JSON != nil:
		data, err := json.Marshal(params.JSON)
		if err != nil {
			return nil, "", &SerializationError{Body: "json", Cause: err}
		}
		return bytes.NewReader(data), "application/json", nil
	case len(files) > 0:
		return encodeMultipart(values, files)
	case params.Form != nil:
		return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil
	default:
		return http.NoBody, "", nil
	}
}

func encodeMultipart(values url.Values, files map[string]File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, vs := range values {
		for _, v := range vs {
			if err := w.WriteField(name, v); err != nil {
				return nil, "", err
			}
		}
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f := files[name]
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, f.Name))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if f.Reader != nil {
			if _, err := io.Copy(part, f.Reader); err != nil {
				return nil, "", fmt.Errorf("reading upload %q: %w", name, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
