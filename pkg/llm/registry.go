package llm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ErrFactoryNotFound indicates no factory is registered for the provider.
var ErrFactoryNotFound = errors.New("provider factory not found")

// ProviderConfig carries what a factory needs to build a provider.
type ProviderConfig struct {
	// APIKey authenticates against hosted providers.
	APIKey string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// Model is the default model for requests that leave Model empty.
	Model string

	// Timeout bounds each request. Zero leaves cancellation to the context.
	Timeout time.Duration
}

// ProviderFactory builds a provider from configuration.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]ProviderFactory{}
)

// RegisterFactory registers a provider factory under name. Registering the
// same name twice replaces the earlier factory.
func RegisterFactory(name string, factory ProviderFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// New builds the provider registered under name.
func New(name string, cfg ProviderConfig) (Provider, error) {
	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrFactoryNotFound, name, Factories())
	}
	return factory(cfg)
}

// Factories returns the sorted names of registered factories.
func Factories() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
