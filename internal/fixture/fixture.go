package fixture

import (
	"context"
	"fmt"

	"github.com/vyrodovalexey/authtester/internal/auth"
	"github.com/vyrodovalexey/authtester/internal/client"
	"github.com/vyrodovalexey/authtester/internal/config"
	"github.com/vyrodovalexey/authtester/internal/observability"
	"github.com/vyrodovalexey/authtester/internal/vault"
)

type options struct {
	logger        observability.Logger
	registry      *Registry
	kv            vault.KVReader
	reporter      client.Reporter
	authMetrics   *auth.Metrics
	clientMetrics *client.Metrics
	tracer        *observability.Tracer
	hook          client.ClientHook
}

// Option is a functional option for the fixture builders.
type Option func(*options)

// WithLogger sets the logger of every built component.
func WithLogger(logger observability.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry sets the application registry, DefaultRegistry otherwise.
func WithRegistry(registry *Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithKV sets the Vault reader used for password seeding. A client for the
// configured address is created otherwise.
func WithKV(kv vault.KVReader) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithReporter sets the reporter of expectation failures.
func WithReporter(r client.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithAuthMetrics sets the policy metrics.
func WithAuthMetrics(m *auth.Metrics) Option {
	return func(o *options) {
		o.authMetrics = m
	}
}

// WithClientMetrics sets the client metrics.
func WithClientMetrics(m *client.Metrics) Option {
	return func(o *options) {
		o.clientMetrics = m
	}
}

// WithTracer sets the client tracer.
func WithTracer(tracer *observability.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithHook installs a client password hook before the initial passwords are
// set, so that it sees them.
func WithHook(hook client.ClientHook) Option {
	return func(o *options) {
		o.hook = hook
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	return o
}

// NewPolicy creates a policy from cfg and seeds its passwords, first from
// cfg.Auth then from Vault.
func NewPolicy(ctx context.Context, cfg *config.Config, opts ...Option) (*auth.Policy, error) {
	o := newOptions(opts)
	policy, err := newPolicy(cfg, o)
	if err != nil {
		return nil, err
	}
	if err := seed(ctx, cfg, policy, o); err != nil {
		return nil, err
	}
	return policy, nil
}

func newPolicy(cfg *config.Config, o *options) (*auth.Policy, error) {
	pc, err := cfg.PolicyConfig()
	if err != nil {
		return nil, err
	}

	policyOpts := []auth.PolicyOption{auth.WithLogger(o.logger)}
	if o.authMetrics != nil {
		policyOpts = append(policyOpts, auth.WithMetrics(o.authMetrics))
	}
	return auth.NewPolicy(pc, policyOpts...)
}

func seed(ctx context.Context, cfg *config.Config, policy *auth.Policy, o *options) error {
	if len(cfg.Auth) > 0 {
		if err := policy.SetPasswords(cfg.Auth); err != nil {
			return err
		}
		o.logger.Debug("passwords seeded from configuration",
			observability.Int("count", len(cfg.Auth)),
		)
	}

	if !cfg.Vault.Enabled() {
		return nil
	}

	kv := o.kv
	if kv == nil {
		c, err := vault.New(vault.Config{
			Address: cfg.Vault.Address,
			Token:   cfg.Vault.Token,
		}, vault.WithLogger(o.logger))
		if err != nil {
			return err
		}
		kv = c
	}

	n, err := vault.SeedPasswords(ctx, kv, cfg.Vault.Mount, cfg.Vault.Path, policy)
	if err != nil {
		return fmt.Errorf("seeding passwords from vault: %w", err)
	}
	o.logger.Info("passwords seeded from vault",
		observability.String("path", cfg.Vault.Mount+"/"+cfg.Vault.Path),
		observability.Int("count", n),
	)
	return nil
}

// NewTransport creates the transport to the configured application.
func NewTransport(cfg *config.Config, opts ...Option) (client.Transport, error) {
	return newTransport(cfg, newOptions(opts))
}

func newTransport(cfg *config.Config, o *options) (client.Transport, error) {
	if cfg.IsURL() {
		return client.NewNetworkTransport(cfg.App, client.WithNetworkLogger(o.logger)), nil
	}

	factory, err := o.registry.Lookup(cfg.App)
	if err != nil {
		return nil, err
	}
	handler, err := factory(AppEnv{Logger: o.logger})
	if err != nil {
		return nil, fmt.Errorf("building application %q: %w", cfg.App, err)
	}
	return client.NewHandlerTransport(handler), nil
}

// NewClient creates a client for the configured application with a seeded
// policy. In testing mode expectation failures are returned as errors,
// otherwise they go to the reporter when one is set.
func NewClient(ctx context.Context, cfg *config.Config, opts ...Option) (*client.Client, error) {
	o := newOptions(opts)

	transport, err := newTransport(cfg, o)
	if err != nil {
		return nil, err
	}

	policy, err := newPolicy(cfg, o)
	if err != nil {
		return nil, err
	}

	clientOpts := []client.Option{client.WithLogger(o.logger)}
	if cfg.DefaultLogin != nil {
		clientOpts = append(clientOpts, client.WithDefaultLogin(*cfg.DefaultLogin))
	}
	if cfg.Testing {
		clientOpts = append(clientOpts, client.WithAssertErrors())
	} else if o.reporter != nil {
		clientOpts = append(clientOpts, client.WithReporter(o.reporter))
	}
	if o.clientMetrics != nil {
		clientOpts = append(clientOpts, client.WithMetrics(o.clientMetrics))
	}
	if o.tracer != nil {
		clientOpts = append(clientOpts, client.WithTracer(o.tracer))
	}

	c, err := client.New(policy, transport, clientOpts...)
	if err != nil {
		return nil, err
	}
	if o.hook != nil {
		c.SetHook(o.hook)
	}

	if err := seed(ctx, cfg, policy, o); err != nil {
		return nil, err
	}
	return c, nil
}
