package auth

import (
	"net/url"
)

// ParamType selects the body a new request parameter goes into when the
// request has no body yet.
type ParamType string

// Parameter types.
const (
	ParamTypeData ParamType = "data"
	ParamTypeJSON ParamType = "json"
)

// IsValid reports whether t is a known parameter type.
func (t ParamType) IsValid() bool {
	return t == ParamTypeData || t == ParamTypeJSON
}

// BasicAuth is the credential pair for HTTP Basic authentication. It is kept
// apart from headers so the transport performs the actual encoding.
type BasicAuth struct {
	Username string
	Password string
}

// Params is the request being prepared. A nil map means the part is absent;
// an empty map is present.
type Params struct {
	// Headers are request headers.
	Headers map[string]string

	// JSON is the JSON object body.
	JSON map[string]any

	// Form is the form body. Values may be File or io.Reader for uploads.
	Form map[string]any

	// BasicAuth is set by the basic scheme.
	BasicAuth *BasicAuth

	// Query holds URL query parameters.
	Query url.Values

	// Extra carries transport specific options untouched.
	Extra map[string]any
}

// SetParam adds a body parameter: into the JSON body if present, else into
// the form body if present, else into a new body of type ptype.
func (p *Params) SetParam(ptype ParamType, key string, val any) {
	switch {
	case p.JSON != nil:
		p.JSON[key] = val
	case p.Form != nil:
		p.Form[key] = val
	case ptype == ParamTypeJSON:
		p.JSON = map[string]any{key: val}
	default:
		p.Form = map[string]any{key: val}
	}
}
