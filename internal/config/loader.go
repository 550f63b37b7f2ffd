package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// LookupFunc looks up an environment variable.
type LookupFunc func(key string) (string, bool)

// Loader handles configuration loading from files, readers and the
// environment.
type Loader struct {
	lookup LookupFunc
}

// LoaderOption is a functional option for configuring a Loader.
type LoaderOption func(*Loader)

// WithLookup replaces os.LookupEnv.
func WithLookup(lookup LookupFunc) LoaderOption {
	return func(l *Loader) {
		l.lookup = lookup
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load builds the configuration from defaults, the file at path when not
// empty, and the environment.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// FromEnv builds the configuration from defaults and the environment. When
// AUTHTESTER_CONFIG is set, that file is loaded before the environment.
func FromEnv() (*Config, error) {
	l := NewLoader()
	path, _ := l.lookup(EnvPrefix + "CONFIG")
	return l.Load(path)
}

// Load builds the configuration from defaults, the file at path when not
// empty, and the environment, then validates it.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		data, err := os.ReadFile(absPath) //nolint:gosec // path is provided by the operator
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := l.parseInto(data, cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	l.applyEnv(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader loads a YAML configuration over the defaults, without
// environment overrides.
func (l *Loader) LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := l.parseInto(data, cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) parseInto(data []byte, cfg *Config) error {
	content := l.substituteEnvVars(string(data))

	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// substituteEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment variable values.
func (l *Loader) substituteEnvVars(content string) string {
	content = strings.ReplaceAll(content, "$$", "\x00ESCAPED_DOLLAR\x00")

	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		defaultValue := ""
		if len(submatches) >= 3 {
			defaultValue = submatches[2]
		}

		if value, exists := l.lookup(varName); exists {
			return value
		}
		return defaultValue
	})

	return strings.ReplaceAll(result, "\x00ESCAPED_DOLLAR\x00", "$")
}

// applyEnv overrides cfg with the AUTHTESTER_* variables that are set.
func (l *Loader) applyEnv(cfg *Config) {
	strs := map[string]*string{
		"APP":           &cfg.App,
		"ALLOW":         &cfg.Allow,
		"USER":          &cfg.User,
		"PASS":          &cfg.Pass,
		"LOGIN":         &cfg.Login,
		"BEARER":        &cfg.Bearer,
		"HEADER":        &cfg.Header,
		"COOKIE":        &cfg.Cookie,
		"TPARAM":        &cfg.TParam,
		"PTYPE":         &cfg.PType,
		"LOG_LEVEL":     &cfg.LogLevel,
		"LOG_FORMAT":    &cfg.LogFormat,
		"VAULT_ADDR":    &cfg.Vault.Address,
		"VAULT_TOKEN":   &cfg.Vault.Token,
		"VAULT_MOUNT":   &cfg.Vault.Mount,
		"VAULT_PATH":    &cfg.Vault.Path,
		"OTLP_ENDPOINT": &cfg.Tracing.Endpoint,
	}
	for name, dst := range strs {
		if v, ok := l.lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := l.lookup(EnvPrefix + "AUTH"); ok {
		cfg.Auth = splitAuth(v)
	}
	if v, ok := l.lookup(EnvPrefix + "DEFAULT"); ok {
		login := v
		cfg.DefaultLogin = &login
	}
	if _, ok := l.lookup(EnvPrefix + "TESTING"); ok {
		cfg.Testing = true
	}
}

// splitAuth splits a comma separated list of login:password entries,
// ignoring empty ones.
func splitAuth(list string) []string {
	var entries []string
	for _, entry := range strings.Split(list, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}
