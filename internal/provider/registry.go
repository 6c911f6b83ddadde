package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages all available providers
type Registry struct {
	mu         sync.RWMutex
	providers  map[string]Provider
	priorities map[string]int
	configs    map[string]map[string]interface{}
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		providers:  make(map[string]Provider),
		priorities: make(map[string]int),
		configs:    make(map[string]map[string]interface{}),
	}
}

// Register adds a provider to the registry
func (r *Registry) Register(name string, provider Provider, priority int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = provider
	r.priorities[name] = priority

	return nil
}

// Get returns a provider by name
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	return provider, exists
}

// List returns all registered providers, highest priority first
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		if r.priorities[names[i]] != r.priorities[names[j]] {
			return r.priorities[names[i]] > r.priorities[names[j]]
		}
		return names[i] < names[j]
	})

	return names
}

// Enable checks that a provider can be used with its current configuration
func (r *Registry) Enable(name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return fmt.Errorf("provider %s not found", name)
	}

	// Validate configuration if required
	if provider.Capabilities().RequiresAuth {
		if config, hasConfig := r.configs[name]; !hasConfig || len(config) == 0 {
			return fmt.Errorf("provider %s requires configuration", name)
		}
	}

	return nil
}

// Configure validates and applies configuration for a provider
func (r *Registry) Configure(name string, config map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	provider, exists := r.providers[name]
	if !exists {
		return fmt.Errorf("provider %s not found", name)
	}

	if err := ValidateConfig(provider.ConfigSchema(), config); err != nil {
		return fmt.Errorf("failed to configure provider %s: %w", name, err)
	}
	if err := provider.Configure(config); err != nil {
		return fmt.Errorf("failed to configure provider %s: %w", name, err)
	}

	r.configs[name] = config
	return nil
}

// Activate configures and enables a provider in one step and returns it
func (r *Registry) Activate(name string, config map[string]interface{}) (Provider, error) {
	if err := r.Configure(name, config); err != nil {
		return nil, err
	}
	if err := r.Enable(name); err != nil {
		return nil, err
	}
	p, _ := r.Get(name)
	return p, nil
}
