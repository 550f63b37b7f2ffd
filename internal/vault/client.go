package vault

import (
	"context"
	"fmt"

	vaultapi "github.com/hashicorp/vault/api"

	"github.com/vyrodovalexey/authtester/internal/observability"
)

// KVReader reads KV v2 secrets.
type KVReader interface {
	// Read returns the data of the latest version of mount/path.
	Read(ctx context.Context, mount, path string) (map[string]any, error)
}

// Config contains the Vault connection settings.
type Config struct {
	Address string
	Token   string
}

// Client is a KVReader backed by the Vault HTTP API.
type Client struct {
	api    *vaultapi.Client
	logger observability.Logger
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Vault client. An empty token leaves the one found by the
// Vault library in the environment.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.Address == "" {
		return nil, NewVaultError("init", "", fmt.Errorf("%w: address is required", ErrInvalidConfig))
	}

	apiConfig := vaultapi.DefaultConfig()
	apiConfig.Address = cfg.Address

	api, err := vaultapi.NewClient(apiConfig)
	if err != nil {
		return nil, NewVaultError("init", "", err)
	}
	if cfg.Token != "" {
		api.SetToken(cfg.Token)
	}

	c := &Client{
		api:    api,
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(observability.String("component", "vault"))

	return c, nil
}

// Read reads a secret from a KV v2 mount.
func (c *Client) Read(ctx context.Context, mount, path string) (map[string]any, error) {
	if mount == "" || path == "" {
		return nil, NewVaultError("kv_read", path, fmt.Errorf("%w: mount and path are required", ErrInvalidConfig))
	}

	fullPath := fmt.Sprintf("%s/data/%s", mount, path)

	secret, err := c.api.Logical().ReadWithContext(ctx, fullPath)
	if err != nil {
		return nil, NewVaultError("kv_read", fullPath, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, NewVaultError("kv_read", fullPath, ErrSecretNotFound)
	}

	// deleted versions have data: null
	dataValue, hasData := secret.Data["data"]
	if hasData && dataValue == nil {
		return nil, NewVaultError("kv_read", fullPath, ErrSecretNotFound)
	}

	data, ok := dataValue.(map[string]any)
	if !ok {
		data = secret.Data
	}

	c.logger.Debug("secret read",
		observability.String("path", fullPath),
		observability.Int("keys", len(data)),
	)

	return data, nil
}

var _ KVReader = (*Client)(nil)
