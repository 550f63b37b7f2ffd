package auth

import (
	"strings"
)

// Scheme identifies one way of proving identity on a request.
type Scheme uint8

// Supported schemes. SchemeUnset means the caller did not request a scheme
// explicitly and the policy picks one.
const (
	SchemeUnset Scheme = iota
	// SchemeBasic sends the password with HTTP Basic authentication.
	SchemeBasic
	// SchemeParam sends login and password as request parameters.
	SchemeParam
	// SchemeBearer sends the token in an "Authorization: Bearer" header.
	SchemeBearer
	// SchemeHeader sends the raw token in a dedicated header.
	SchemeHeader
	// SchemeCookie sends the token in a cookie.
	SchemeCookie
	// SchemeTParam sends the token as a request parameter.
	SchemeTParam
	// SchemeFake passes the login directly as a request parameter.
	SchemeFake
	// SchemeNone sends no credential, only the login cookies.
	SchemeNone
)

var schemeNames = [...]string{
	SchemeUnset:  "",
	SchemeBasic:  "basic",
	SchemeParam:  "param",
	SchemeBearer: "bearer",
	SchemeHeader: "header",
	SchemeCookie: "cookie",
	SchemeTParam: "tparam",
	SchemeFake:   "fake",
	SchemeNone:   "none",
}

// DefaultAllow is the allowed scheme set used when none is configured.
var DefaultAllow = []Scheme{SchemeBearer, SchemeBasic, SchemeParam, SchemeNone}

// AllSchemes returns every supported scheme.
func AllSchemes() []Scheme {
	return []Scheme{
		SchemeBasic, SchemeParam,
		SchemeBearer, SchemeHeader, SchemeCookie, SchemeTParam,
		SchemeFake, SchemeNone,
	}
}

// String returns the scheme name.
func (s Scheme) String() string {
	if int(s) < len(schemeNames) {
		if s == SchemeUnset {
			return "<unset>"
		}
		return schemeNames[s]
	}
	return "<invalid>"
}

// IsValid reports whether s is one of the eight supported schemes.
func (s Scheme) IsValid() bool {
	return s > SchemeUnset && int(s) < len(schemeNames)
}

// IsToken reports whether s carries a token.
func (s Scheme) IsToken() bool {
	switch s {
	case SchemeBearer, SchemeHeader, SchemeCookie, SchemeTParam:
		return true
	default:
		return false
	}
}

// IsPassword reports whether s carries a password.
func (s Scheme) IsPassword() bool {
	return s == SchemeBasic || s == SchemeParam
}

// ParseScheme converts a scheme name. The empty string maps to SchemeUnset.
func ParseScheme(name string) (Scheme, error) {
	if name == "" {
		return SchemeUnset, nil
	}
	for i, n := range schemeNames {
		if i > 0 && n == name {
			return Scheme(i), nil
		}
	}
	return SchemeUnset, newAuthError(ErrUnexpectedScheme, "", name)
}

// ParseSchemes parses a space separated list of scheme names.
func ParseSchemes(list string) ([]Scheme, error) {
	fields := strings.Fields(list)
	schemes := make([]Scheme, 0, len(fields))
	for _, name := range fields {
		s, err := ParseScheme(name)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, s)
	}
	return schemes, nil
}

func formatSchemes(schemes []Scheme) string {
	names := make([]string, len(schemes))
	for i, s := range schemes {
		names[i] = s.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}
