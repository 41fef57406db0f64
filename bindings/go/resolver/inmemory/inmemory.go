// Package inmemory provides a map backed resolver.
package inmemory

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
	"depmgr.software/dependency-manager/bindings/go/resolver"
)

// Repository holds components in memory. Versions are reported in the order
// they were added, so they must be added oldest first.
// It implements resolver.ContentResolver and resolver.Provider and is safe
// for concurrent use.
type Repository struct {
	mu         sync.RWMutex
	components map[string][]*entry
	loads      map[string]int
}

type entry struct {
	version component.Version
	doc     *definition.Document
	content fs.FS
}

var (
	_ resolver.ContentResolver = (*Repository)(nil)
	_ resolver.Provider        = (*Repository)(nil)
)

func New() *Repository {
	return &Repository{
		components: make(map[string][]*entry),
		loads:      make(map[string]int),
	}
}

func nameKey(name component.Name) string {
	return strings.ToLower(name.String())
}

func versionKey(name component.Name, version component.Version) string {
	return nameKey(name) + "#" + strings.ToLower(version.String())
}

// Add stores a component version with its optional nested document and
// optional content.
func (r *Repository) Add(name component.Name, version component.Version, doc *definition.Document, content fs.FS) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := nameKey(name)
	r.components[key] = append(r.components[key], &entry{version: version, doc: doc, content: content})
}

// Loads returns how often LoadDefinition was called for a component version.
func (r *Repository) Loads(name component.Name, version component.Version) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loads[versionKey(name, version)]
}

// GetResolver returns the repository itself regardless of the settings.
func (r *Repository) GetResolver(context.Context, component.Settings) (resolver.Resolver, error) {
	return r, nil
}

func (r *Repository) ComponentExists(_ context.Context, name component.Name) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components[nameKey(name)]) > 0, nil
}

func (r *Repository) ComponentVersionExists(_ context.Context, name component.Name, version component.Version) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(name, version) != nil, nil
}

func (r *Repository) AvailableVersions(_ context.Context, name component.Name) ([]component.Version, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries, ok := r.components[nameKey(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, resolver.ErrNotFound)
	}
	versions := make([]component.Version, 0, len(entries))
	for _, e := range entries {
		versions = append(versions, e.version)
	}
	return versions, nil
}

func (r *Repository) LoadDefinition(_ context.Context, name component.Name, version component.Version) (*definition.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.lookup(name, version)
	if e == nil {
		return nil, fmt.Errorf("%s#%s: %w", name, version, resolver.ErrNotFound)
	}
	r.loads[versionKey(name, version)]++
	return e.doc, nil
}

func (r *Repository) Fetch(_ context.Context, name component.Name, version component.Version) (fs.FS, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e := r.lookup(name, version)
	if e == nil || e.content == nil {
		return nil, fmt.Errorf("content of %s#%s: %w", name, version, resolver.ErrNotFound)
	}
	return e.content, nil
}

// lookup compares versions by their string form, ignoring case, so that a
// build selector naming a build number finds the build.
func (r *Repository) lookup(name component.Name, version component.Version) *entry {
	for _, e := range r.components[nameKey(name)] {
		if strings.EqualFold(e.version.String(), version.String()) {
			return e
		}
	}
	return nil
}
