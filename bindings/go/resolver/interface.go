package resolver

import (
	"context"
	"errors"
	"io/fs"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
)

// ErrNotFound indicates that a requested component or component version does
// not exist. It is supposed to be joined with the backend specific error.
var ErrNotFound = errors.New("component not found")

// ErrInvalidProviderConfiguration is returned by a Provider that cannot
// connect to its backend with the given settings.
var ErrInvalidProviderConfiguration = errors.New("invalid provider configuration")

// ErrNoProvider is returned by a Registry without a Provider for a type.
var ErrNoProvider = errors.New("no resolver registered")

// Resolver answers queries about the components of a single backend.
type Resolver interface {
	// ComponentExists reports whether any version of the component exists.
	ComponentExists(ctx context.Context, name component.Name) (bool, error)

	// ComponentVersionExists reports whether the exact version exists.
	ComponentVersionExists(ctx context.Context, name component.Name, version component.Version) (bool, error)

	// AvailableVersions lists all versions of the component in ascending
	// order, oldest first. Build resolvers return component.Build values.
	AvailableVersions(ctx context.Context, name component.Name) ([]component.Version, error)

	// LoadDefinition loads the dependency definition document stored with a
	// component version. A version without a document yields nil and no
	// error.
	LoadDefinition(ctx context.Context, name component.Name, version component.Version) (*definition.Document, error)
}

// ContentResolver is implemented by resolvers that can expose the files of a
// component version for download.
type ContentResolver interface {
	Resolver

	// Fetch returns the files of a component version.
	Fetch(ctx context.Context, name component.Name, version component.Version) (fs.FS, error)
}

// Provider creates resolvers for a provider type.
type Provider interface {
	// GetResolver returns a resolver for the given settings. The settings
	// contain the declaration settings of a dependency together with the
	// service settings required by the provider type.
	// If the backend cannot be reached with the settings, the error wraps
	// ErrInvalidProviderConfiguration.
	GetResolver(ctx context.Context, settings component.Settings) (Resolver, error)
}

// ProviderFunc adapts a function to a Provider.
type ProviderFunc func(ctx context.Context, settings component.Settings) (Resolver, error)

func (f ProviderFunc) GetResolver(ctx context.Context, settings component.Settings) (Resolver, error) {
	return f(ctx, settings)
}
