// Package filesystem resolves file share components from a directory tree
// laid out as <root>/<component>/<version>/.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	slogcontext "github.com/veqryn/slog-context"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

// Provider creates a Resolver for the FileShareRootPath of the settings.
type Provider struct{}

var _ resolver.Provider = Provider{}

func (Provider) GetResolver(ctx context.Context, s component.Settings) (resolver.Resolver, error) {
	root := s.Get(settings.FileShareRootPath.String())
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: %s is not set", resolver.ErrInvalidProviderConfiguration, settings.FileShareRootPath)
	}
	var fileNames []string
	for _, name := range strings.Split(s.Get(settings.DependencyDefinitionFileNameList.String()), ";") {
		if name = strings.TrimSpace(name); name != "" {
			fileNames = append(fileNames, name)
		}
	}
	return New(ctx, root, fileNames...)
}

// Resolver resolves components below a root directory.
type Resolver struct {
	root      string
	fileNames []string
}

var _ resolver.ContentResolver = (*Resolver)(nil)

// New creates a resolver for root. fileNames are the names a nested
// dependency definition document may have, in order of preference.
func New(ctx context.Context, root string, fileNames ...string) (*Resolver, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: file share root %q: %w", resolver.ErrInvalidProviderConfiguration, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: file share root %q is not a directory", resolver.ErrInvalidProviderConfiguration, root)
	}
	slogcontext.FromCtx(ctx).DebugContext(ctx, "opened file share", slog.String("realm", "resolver"), slog.String("root", root))
	return &Resolver{root: root, fileNames: fileNames}, nil
}

func (r *Resolver) componentDir(name component.Name) (string, error) {
	simple, ok := name.(component.SimpleName)
	if !ok {
		return "", fmt.Errorf("%w: file share components need a simple name, got %T", component.ErrInvalidComponent, name)
	}
	if !filepath.IsLocal(simple.Name) {
		return "", fmt.Errorf("%w: component name %q escapes the file share root", component.ErrInvalidComponent, simple.Name)
	}
	return filepath.Join(r.root, simple.Name), nil
}

func (r *Resolver) versionDir(name component.Name, version component.Version) (string, error) {
	dir, err := r.componentDir(name)
	if err != nil {
		return "", err
	}
	if !filepath.IsLocal(version.String()) {
		return "", fmt.Errorf("%w: version %q escapes the component directory", component.ErrInvalidComponent, version)
	}
	return filepath.Join(dir, version.String()), nil
}

func (r *Resolver) ComponentExists(_ context.Context, name component.Name) (bool, error) {
	dir, err := r.componentDir(name)
	if err != nil {
		return false, err
	}
	return isDir(dir)
}

func (r *Resolver) ComponentVersionExists(_ context.Context, name component.Name, version component.Version) (bool, error) {
	dir, err := r.versionDir(name, version)
	if err != nil {
		return false, err
	}
	return isDir(dir)
}

// AvailableVersions lists the version directories of a component. Versions
// that parse as semantic versions are ordered by precedence and come before
// all other versions, which are ordered lexically.
func (r *Resolver) AvailableVersions(_ context.Context, name component.Name) ([]component.Version, error) {
	dir, err := r.componentDir(name)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(fmt.Errorf("%s: %w", name, resolver.ErrNotFound), err)
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	SortVersions(names)

	versions := make([]component.Version, 0, len(names))
	for _, v := range names {
		versions = append(versions, component.ExactVersion{Value: v})
	}
	return versions, nil
}

// SortVersions sorts versions in ascending order. Semantic versions come
// first, ordered by precedence; the rest is ordered lexically.
func SortVersions(versions []string) {
	parsed := make(map[string]*semver.Version, len(versions))
	for _, v := range versions {
		if sv, err := semver.NewVersion(v); err == nil {
			parsed[v] = sv
		}
	}
	slices.SortStableFunc(versions, func(a, b string) int {
		sa, sb := parsed[a], parsed[b]
		switch {
		case sa != nil && sb != nil:
			if c := sa.Compare(sb); c != 0 {
				return c
			}
			return strings.Compare(a, b)
		case sa != nil:
			return -1
		case sb != nil:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
}

// LoadDefinition loads the first document found in the version directory
// whose name is one of the configured file names.
func (r *Resolver) LoadDefinition(ctx context.Context, name component.Name, version component.Version) (*definition.Document, error) {
	dir, err := r.versionDir(name, version)
	if err != nil {
		return nil, err
	}
	for _, fileName := range r.fileNames {
		path := filepath.Join(dir, fileName)
		doc, err := definition.LoadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		slogcontext.FromCtx(ctx).DebugContext(ctx, "loaded nested dependency definition",
			slog.String("realm", "resolver"), slog.String("path", path))
		return doc, nil
	}
	return nil, nil
}

// Fetch exposes the version directory.
func (r *Resolver) Fetch(_ context.Context, name component.Name, version component.Version) (fs.FS, error) {
	dir, err := r.versionDir(name, version)
	if err != nil {
		return nil, err
	}
	ok, err := isDir(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s#%s: %w", name, version, resolver.ErrNotFound)
	}
	return os.DirFS(dir), nil
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
