package config

import (
	"strings"

	"github.com/vyrodovalexey/authtester/internal/auth"
	"github.com/vyrodovalexey/authtester/internal/observability"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "AUTHTESTER_"

// Default values.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
	DefaultAllow     = "bearer basic param none"
	DefaultApp       = "app"
	DefaultPType     = string(auth.ParamTypeData)
	DefaultVaultKV   = "secret"
)

// Config is the complete authtester configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`

	// LogFormat is console or json.
	LogFormat string `yaml:"logFormat"`

	// Allow is the space separated list of allowed schemes.
	Allow string `yaml:"allow"`

	User   string `yaml:"user"`
	Pass   string `yaml:"pass"`
	Login  string `yaml:"login"`
	Bearer string `yaml:"bearer"`
	Header string `yaml:"header"`
	Cookie string `yaml:"cookie"`
	TParam string `yaml:"tparam"`
	PType  string `yaml:"ptype"`

	// Auth lists initial login:password entries.
	Auth []string `yaml:"auth"`

	// App is a registered application name or an http(s) URL.
	App string `yaml:"app"`

	// DefaultLogin is the login of requests without one, none when nil.
	DefaultLogin *string `yaml:"defaultLogin"`

	// Testing returns expectation failures as errors.
	Testing bool `yaml:"testing"`

	Vault   VaultConfig   `yaml:"vault"`
	Tracing TracingConfig `yaml:"tracing"`
}

// VaultConfig locates passwords to seed from a Vault KV v2 secret. Each key
// of the secret is a login and its value the password.
type VaultConfig struct {
	Address string `yaml:"address"`
	Token   string `yaml:"token"`
	Mount   string `yaml:"mount"`
	Path    string `yaml:"path"`
}

// Enabled reports whether passwords are seeded from Vault.
func (v VaultConfig) Enabled() bool {
	return v.Address != "" && v.Path != ""
}

// TracingConfig configures request tracing.
type TracingConfig struct {
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// DefaultConfig returns the configuration with every default applied.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Allow:     DefaultAllow,
		User:      auth.DefaultUserParam,
		Pass:      auth.DefaultPassParam,
		Login:     auth.DefaultLoginParam,
		Bearer:    auth.DefaultBearer,
		Header:    auth.DefaultHeader,
		Cookie:    auth.DefaultCookie,
		TParam:    auth.DefaultTokenParam,
		PType:     DefaultPType,
		App:       DefaultApp,
		Vault: VaultConfig{
			Mount: DefaultVaultKV,
		},
		Tracing: TracingConfig{
			SamplingRate: 1.0,
		},
	}
}

// IsURL reports whether App designates a running server.
func (c *Config) IsURL() bool {
	return strings.HasPrefix(c.App, "http://") || strings.HasPrefix(c.App, "https://")
}

// PolicyConfig converts the settings to an auth.PolicyConfig.
func (c *Config) PolicyConfig() (auth.PolicyConfig, error) {
	allow, err := auth.ParseSchemes(c.Allow)
	if err != nil {
		return auth.PolicyConfig{}, auth.NewConfigurationErrorWithCause("allow", "invalid scheme list", err)
	}
	return auth.PolicyConfig{
		Allow:     allow,
		User:      c.User,
		Pass:      c.Pass,
		Login:     c.Login,
		Bearer:    c.Bearer,
		Header:    c.Header,
		Cookie:    c.Cookie,
		TParam:    c.TParam,
		ParamType: auth.ParamType(c.PType),
	}, nil
}

// LogConfig returns the logger settings.
func (c *Config) LogConfig() observability.LogConfig {
	cfg := observability.DefaultLogConfig()
	cfg.Level = c.LogLevel
	cfg.Format = c.LogFormat
	return cfg
}

// TracerConfig returns the tracer settings. Tracing is enabled when an
// endpoint is set.
func (c *Config) TracerConfig() observability.TracerConfig {
	return observability.TracerConfig{
		ServiceName:  "authtester",
		OTLPEndpoint: c.Tracing.Endpoint,
		SamplingRate: c.Tracing.SamplingRate,
		Enabled:      c.Tracing.Endpoint != "",
	}
}
