package fixture

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/vyrodovalexey/authtester/internal/exampleapp"
	"github.com/vyrodovalexey/authtester/internal/observability"
)

// ErrAppNotFound indicates an application name that is not registered.
var ErrAppNotFound = errors.New("application not found")

// AppEnv carries what an application may use from its host.
type AppEnv struct {
	Logger observability.Logger

	// Metrics is nil unless the host exposes metrics.
	Metrics *observability.Metrics
}

// AppFactory builds the handler of an application.
type AppFactory func(env AppEnv) (http.Handler, error)

// Registry maps application names to factories. It is safe for concurrent
// use.
type Registry struct {
	mu   sync.RWMutex
	apps map[string]AppFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{apps: make(map[string]AppFactory)}
}

// DefaultRegistry returns a registry holding the example application under
// the name "app".
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("app", ExampleApp)
	return r
}

// ExampleApp builds the example application with the fake login enabled.
func ExampleApp(env AppEnv) (http.Handler, error) {
	app, err := exampleapp.New(exampleapp.Config{
		AllowFake: true,
		Logger:    env.Logger,
		Metrics:   env.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return app.Handler(), nil
}

// Register adds or replaces an application.
func (r *Registry) Register(name string, factory AppFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[name] = factory
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (AppFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.apps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAppNotFound, name)
	}
	return factory, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.apps))
	for name := range r.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
