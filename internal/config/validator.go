package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vyrodovalexey/authtester/internal/auth"
	"github.com/vyrodovalexey/authtester/internal/observability"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates authtester configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: make(ValidationErrors, 0),
	}
}

// ValidateConfig validates a configuration.
func ValidateConfig(config *Config) error {
	return NewValidator().Validate(config)
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(config *Config) error {
	v.errors = make(ValidationErrors, 0)

	if config == nil {
		v.addError("", "configuration is nil")
		return v.errors
	}

	v.validateLogging(config)
	v.validateAuth(config)
	v.validateApp(config)
	v.validateVault(&config.Vault)
	v.validateTracing(&config.Tracing)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) validateLogging(config *Config) {
	if _, err := observability.ParseLevel(config.LogLevel); err != nil {
		v.addError("logLevel", err.Error())
	}
	switch config.LogFormat {
	case "console", "json":
	default:
		v.addError("logFormat", fmt.Sprintf("unexpected log format %q", config.LogFormat))
	}
}

func (v *Validator) validateAuth(config *Config) {
	if _, err := auth.ParseSchemes(config.Allow); err != nil {
		v.addError("allow", err.Error())
	}
	if !auth.ParamType(config.PType).IsValid() {
		v.addError("ptype", fmt.Sprintf("unexpected parameter type %q", config.PType))
	}
	for i, entry := range config.Auth {
		if !strings.Contains(entry, ":") {
			v.addError(fmt.Sprintf("auth[%d]", i), "expecting login:password")
		}
	}
	if config.DefaultLogin != nil && *config.DefaultLogin == "" {
		v.addError("defaultLogin", "must not be empty")
	}
}

func (v *Validator) validateApp(config *Config) {
	if config.App == "" {
		v.addError("app", "application name or URL is required")
		return
	}
	if config.IsURL() {
		u, err := url.Parse(config.App)
		if err != nil || u.Host == "" {
			v.addError("app", fmt.Sprintf("invalid URL %q", config.App))
		}
	}
}

func (v *Validator) validateVault(vault *VaultConfig) {
	if vault.Path == "" && vault.Address == "" {
		return
	}
	if vault.Address == "" {
		v.addError("vault.address", "required when vault.path is set")
	}
	if vault.Path == "" {
		v.addError("vault.path", "required when vault.address is set")
	}
	if vault.Mount == "" {
		v.addError("vault.mount", "must not be empty")
	}
}

func (v *Validator) validateTracing(tracing *TracingConfig) {
	if tracing.SamplingRate < 0 || tracing.SamplingRate > 1 {
		v.addError("tracing.samplingRate", "must be between 0 and 1")
	}
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}
