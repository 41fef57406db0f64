package engine

import (
	"context"
	"fmt"
	"strings"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

// resolutionContext holds the state of a single BuildGraph call. It is never
// shared between calls.
type resolutionContext struct {
	settings  settings.Settings
	registry  *resolver.Registry
	nodes     map[string]*component.Component
	resolvers map[string]resolver.Resolver
	path      []*component.Component
}

func newResolutionContext(registry *resolver.Registry, s settings.Settings) *resolutionContext {
	return &resolutionContext{
		settings:  s,
		registry:  registry,
		nodes:     make(map[string]*component.Component),
		resolvers: make(map[string]resolver.Resolver),
	}
}

// lookup returns the node already resolved under the reuse key of c.
func (rc *resolutionContext) lookup(c *component.Component) (*component.Component, bool) {
	existing, ok := rc.nodes[c.ReuseKey().String()]
	return existing, ok
}

func (rc *resolutionContext) add(c *component.Component) {
	rc.nodes[c.ReuseKey().String()] = c
}

func (rc *resolutionContext) push(c *component.Component) {
	rc.path = append(rc.path, c)
}

func (rc *resolutionContext) pop() {
	rc.path = rc.path[:len(rc.path)-1]
}

// chain renders the components currently being resolved, root first.
func (rc *resolutionContext) chain() string {
	return component.FormatChain(rc.path)
}

// resolver returns a resolver for typ. Resolvers are reused within the run
// for equal connection settings.
func (rc *resolutionContext) resolver(ctx context.Context, typ component.ProviderType, effective component.Settings) (resolver.Resolver, error) {
	var sb strings.Builder
	sb.WriteString(typ.String())
	for _, key := range settings.RequiredFor(typ) {
		fmt.Fprintf(&sb, ";%s=%s", key, strings.ToLower(effective.Get(key.String())))
	}
	cacheKey := sb.String()
	if res, ok := rc.resolvers[cacheKey]; ok {
		return res, nil
	}

	provider, err := rc.registry.Get(typ)
	if err != nil {
		return nil, err
	}
	res, err := provider.GetResolver(ctx, effective)
	if err != nil {
		return nil, err
	}
	rc.resolvers[cacheKey] = res
	return res, nil
}
