package auth

import (
	"context"
	"maps"
	"strings"

	"github.com/vyrodovalexey/authtester/internal/observability"
)

// Default carrier names, consistent with common server side conventions.
const (
	DefaultUserParam  = "USER"
	DefaultPassParam  = "PASS"
	DefaultLoginParam = "LOGIN"
	DefaultBearer     = "Bearer"
	DefaultHeader     = "Auth"
	DefaultCookie     = "auth"
	DefaultTokenParam = "AUTH"
)

// PolicyConfig configures a Policy. Empty fields take their defaults.
type PolicyConfig struct {
	// Allow is the allowed scheme set, DefaultAllow when empty.
	Allow []Scheme

	// User is the login parameter for the param scheme.
	User string

	// Pass is the password parameter for the param scheme.
	Pass string

	// Login is the login parameter for the fake scheme.
	Login string

	// Bearer is the Authorization prefix for the bearer scheme.
	Bearer string

	// Header is the header holding the token for the header scheme.
	Header string

	// Cookie is the cookie holding the token for the cookie scheme.
	Cookie string

	// TParam is the parameter holding the token for the tparam scheme.
	TParam string

	// ParamType is the body created when a parameter is added to a request
	// without body.
	ParamType ParamType
}

// DefaultPolicyConfig returns the default configuration.
func DefaultPolicyConfig() PolicyConfig {
	cfg := PolicyConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *PolicyConfig) applyDefaults() {
	if len(c.Allow) == 0 {
		c.Allow = DefaultAllow
	}
	c.Allow = append([]Scheme(nil), c.Allow...)
	c.User = withDefault(c.User, DefaultUserParam)
	c.Pass = withDefault(c.Pass, DefaultPassParam)
	c.Login = withDefault(c.Login, DefaultLoginParam)
	c.Bearer = withDefault(c.Bearer, DefaultBearer)
	c.Header = withDefault(c.Header, DefaultHeader)
	c.Cookie = withDefault(c.Cookie, DefaultCookie)
	c.TParam = withDefault(c.TParam, DefaultTokenParam)
	if c.ParamType == "" {
		c.ParamType = ParamTypeData
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Policy decides which credential and which carrier to attach to a request
// for a login. It owns the credential Store. A Policy is not safe for
// concurrent use.
type Policy struct {
	config      PolicyConfig
	allowed     map[Scheme]bool
	hasPassword bool
	hasToken    bool

	store   *Store
	hook    PasswordHook
	logger  observability.Logger
	metrics *Metrics
}

// PolicyOption is a functional option for configuring a Policy.
type PolicyOption func(*Policy)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) PolicyOption {
	return func(p *Policy) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics.
func WithMetrics(metrics *Metrics) PolicyOption {
	return func(p *Policy) {
		p.metrics = metrics
	}
}

// WithHook sets the password hook.
func WithHook(hook PasswordHook) PolicyOption {
	return func(p *Policy) {
		p.hook = hook
	}
}

// NewPolicy creates a policy. It fails on unknown schemes or parameter type.
func NewPolicy(cfg PolicyConfig, opts ...PolicyOption) (*Policy, error) {
	cfg.applyDefaults()

	if !cfg.ParamType.IsValid() {
		return nil, NewConfigurationError("ptype", "unexpected parameter type "+string(cfg.ParamType))
	}

	p := &Policy{
		config:  cfg,
		allowed: make(map[Scheme]bool, len(cfg.Allow)),
		store:   NewStore(),
		hook:    NopHook{},
		logger:  observability.NopLogger(),
		metrics: NopMetrics(),
	}

	for _, s := range cfg.Allow {
		if !s.IsValid() {
			return nil, NewConfigurationError("allow", "unexpected scheme "+s.String())
		}
		p.allowed[s] = true
		p.hasToken = p.hasToken || s.IsToken()
		p.hasPassword = p.hasPassword || s.IsPassword()
	}

	for _, opt := range opts {
		opt(p)
	}
	if p.hook == nil {
		p.hook = NopHook{}
	}

	return p, nil
}

// Config returns a copy of the policy configuration.
func (p *Policy) Config() PolicyConfig {
	cfg := p.config
	cfg.Allow = append([]Scheme(nil), p.config.Allow...)
	return cfg
}

// Store returns the credential store.
func (p *Policy) Store() *Store {
	return p.store
}

// Allows reports whether s is in the allowed set.
func (p *Policy) Allows(s Scheme) bool {
	return p.allowed[s]
}

// SetHook replaces the password hook; nil restores the no-op hook.
func (p *Policy) SetHook(hook PasswordHook) {
	if hook == nil {
		hook = NopHook{}
	}
	p.hook = hook
}

// SetPassword associates a password to login.
func (p *Policy) SetPassword(login, password string) error {
	return p.setPassword(login, &password)
}

// RemovePassword removes the password of login.
func (p *Policy) RemovePassword(login string) error {
	return p.setPassword(login, nil)
}

func (p *Policy) setPassword(login string, password *string) error {
	if !p.hasPassword {
		return NewConfigurationError("allow", "cannot set password, no password scheme allowed")
	}
	p.store.SetPassword(login, password)
	p.metrics.RecordCredential("password", opName(password))
	p.hook.OnPassword(login, password)
	return nil
}

// SetPasswords associates passwords from "login:password" entries. The
// password is everything after the first colon.
func (p *Policy) SetPasswords(entries []string) error {
	for _, entry := range entries {
		login, password, ok := strings.Cut(entry, ":")
		if !ok {
			return NewConfigurationError("auth", "expecting login:password, got "+login)
		}
		if err := p.SetPassword(login, password); err != nil {
			return err
		}
	}
	return nil
}

// SetToken associates a token to login.
func (p *Policy) SetToken(login, token string) error {
	return p.setToken(login, &token)
}

// RemoveToken removes the token of login.
func (p *Policy) RemoveToken(login string) error {
	return p.setToken(login, nil)
}

func (p *Policy) setToken(login string, token *string) error {
	if !p.hasToken {
		return NewConfigurationError("allow", "cannot set token, no token scheme allowed")
	}
	p.store.SetToken(login, token)
	p.metrics.RecordCredential("token", opName(token))
	return nil
}

// SetCookie associates a cookie to login.
func (p *Policy) SetCookie(login, name, value string) {
	p.store.SetCookie(login, name, &value)
	p.metrics.RecordCredential("cookie", "set")
}

// RemoveCookie removes a cookie of login.
func (p *Policy) RemoveCookie(login, name string) {
	p.store.SetCookie(login, name, nil)
	p.metrics.RecordCredential("cookie", "delete")
}

func opName(v *string) string {
	if v == nil {
		return "delete"
	}
	return "set"
}

// try reports whether candidate may be used under the requested scheme.
func (p *Policy) try(requested, candidate Scheme) bool {
	return (requested == SchemeUnset || requested == candidate) && p.allowed[candidate]
}

// Apply attaches the credentials of id to the request. Stored cookies of the
// login are merged into cookies whatever the scheme. A nil params or cookies
// is replaced by an empty one, whose updates the caller does not see.
// Without an explicit scheme a token is preferred over a password, and a
// password over the fake and none schemes.
func (p *Policy) Apply(ctx context.Context, id Identity, params *Params, cookies map[string]string, scheme Scheme) error {
	login, ok := id.Login()
	if !ok {
		return nil
	}
	if params == nil {
		params = &Params{}
	}
	if cookies == nil {
		cookies = make(map[string]string)
	}

	logger := p.logger.WithContext(ctx)
	logger.Debug("applying authentication",
		observability.String("login", login),
		observability.String("scheme", scheme.String()),
		observability.String("allow", formatSchemes(p.config.Allow)),
	)

	used, err := p.apply(login, params, cookies, scheme)
	if err != nil {
		p.metrics.RecordError(err)
		logger.Debug("authentication not applied",
			observability.String("login", login),
			observability.Error(err),
		)
		return err
	}

	p.metrics.RecordApply(used)
	return nil
}

func (p *Policy) apply(login string, params *Params, cookies map[string]string, scheme Scheme) (Scheme, error) {
	maps.Copy(cookies, p.store.cookies[login])

	if scheme != SchemeUnset {
		if !scheme.IsValid() {
			return scheme, newAuthError(ErrUnexpectedScheme, login, scheme.String())
		}
		if !p.allowed[scheme] {
			return scheme, newAuthError(ErrSchemeNotAllowed, login, scheme.String())
		}
	}

	headers := maps.Clone(params.Headers)
	if headers == nil {
		headers = make(map[string]string)
	}

	used, err := p.selectCarrier(login, params, headers, cookies, scheme)
	if err != nil {
		return used, err
	}

	if len(headers) > 0 {
		params.Headers = headers
	}
	return used, nil
}

func (p *Policy) selectCarrier(
	login string,
	params *Params,
	headers, cookies map[string]string,
	scheme Scheme,
) (Scheme, error) {
	token, hasToken := p.store.Token(login)
	password, hasPassword := p.store.Password(login)

	switch {
	case hasToken && (scheme == SchemeUnset || scheme.IsToken()):
		switch {
		case p.try(scheme, SchemeBearer):
			headers["Authorization"] = p.config.Bearer + " " + token
			return SchemeBearer, nil
		case p.try(scheme, SchemeHeader):
			headers[p.config.Header] = token
			return SchemeHeader, nil
		case p.try(scheme, SchemeTParam):
			params.SetParam(p.config.ParamType, p.config.TParam, token)
			return SchemeTParam, nil
		case p.try(scheme, SchemeCookie):
			cookies[p.config.Cookie] = token
			return SchemeCookie, nil
		default:
			return scheme, newAuthError(ErrNoTokenCarrier, login, p.describe(login, scheme))
		}

	case hasPassword && (scheme == SchemeUnset || scheme.IsPassword()):
		switch {
		case p.try(scheme, SchemeBasic):
			params.BasicAuth = &BasicAuth{Username: login, Password: password}
			return SchemeBasic, nil
		case p.try(scheme, SchemeParam):
			params.SetParam(p.config.ParamType, p.config.User, login)
			params.SetParam(p.config.ParamType, p.config.Pass, password)
			return SchemeParam, nil
		default:
			return scheme, newAuthError(ErrNoPasswordCarrier, login, p.describe(login, scheme))
		}

	case p.try(scheme, SchemeFake):
		params.SetParam(p.config.ParamType, p.config.Login, login)
		return SchemeFake, nil

	case p.try(scheme, SchemeNone):
		return SchemeNone, nil

	default:
		return scheme, newAuthError(ErrNoAuthentication, login, p.describe(login, scheme))
	}
}

func (p *Policy) describe(login string, scheme Scheme) string {
	return "login=" + login + " auth=" + scheme.String() + " allow=" + formatSchemes(p.config.Allow)
}
