package resolver

import (
	"fmt"
	"slices"
	"sync"

	"depmgr.software/dependency-manager/bindings/go/component"
)

// Registry maps provider types to the Provider serving them.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[component.ProviderType]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[component.ProviderType]Provider)}
}

// Register adds a provider for typ. A type can only be registered once.
func (r *Registry) Register(typ component.ProviderType, p Provider) error {
	if p == nil {
		return fmt.Errorf("cannot register nil provider for %s", typ)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[typ]; exists {
		return fmt.Errorf("provider for %s already registered", typ)
	}
	r.providers[typ] = p
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(typ component.ProviderType, p Provider) {
	if err := r.Register(typ, p); err != nil {
		panic(err)
	}
}

// Get returns the provider registered for typ.
func (r *Registry) Get(typ component.ProviderType) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[typ]
	if !ok {
		return nil, fmt.Errorf("%w for provider type %s", ErrNoProvider, typ)
	}
	return p, nil
}

// Types returns the registered provider types.
func (r *Registry) Types() []component.ProviderType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]component.ProviderType, 0, len(r.providers))
	for typ := range r.providers {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}
