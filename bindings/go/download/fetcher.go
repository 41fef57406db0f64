package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/resolver"
)

// ErrNotDownloadable is returned for components whose resolver cannot
// expose content.
var ErrNotDownloadable = errors.New("component content cannot be downloaded")

// Fetcher provides the files of a resolved component.
type Fetcher interface {
	Fetch(ctx context.Context, c *component.Component) (fs.FS, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context, c *component.Component) (fs.FS, error)

func (f FetcherFunc) Fetch(ctx context.Context, c *component.Component) (fs.FS, error) {
	return f(ctx, c)
}

// RegistryFetcher fetches content through the resolvers of a registry. The
// resolver is created from the settings of the component.
type RegistryFetcher struct {
	Registry *resolver.Registry
}

func (f *RegistryFetcher) Fetch(ctx context.Context, c *component.Component) (fs.FS, error) {
	provider, err := f.Registry.Get(c.Type)
	if err != nil {
		return nil, err
	}
	res, err := provider.GetResolver(ctx, c.Settings)
	if err != nil {
		return nil, err
	}
	content, ok := res.(resolver.ContentResolver)
	if !ok {
		return nil, fmt.Errorf("%w: %s resolver of %s", ErrNotDownloadable, c.Type, c)
	}
	return content.Fetch(ctx, c.Name, c.Version)
}
