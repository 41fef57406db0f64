package download_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
	"depmgr.software/dependency-manager/bindings/go/download"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/resolver/inmemory"
)

func newComponent(t *testing.T, name, version string, settings map[string]string) *component.Component {
	t.Helper()
	c, err := component.New(component.ProviderFileShare, component.SimpleName{Name: name}, component.ExactVersion{Value: version}, component.NewSettings(settings))
	require.NoError(t, err)
	return c
}

func newGraph(t *testing.T, deps ...*component.Component) *component.Graph {
	t.Helper()
	root, err := component.New(component.ProviderLocal, component.SimpleName{Name: "root"}, component.ExactVersion{Value: "local"}, component.Settings{})
	require.NoError(t, err)
	for _, c := range deps {
		d, err := component.NewDependency(root, c, c.Version)
		require.NoError(t, err)
		require.NoError(t, root.AddSuccessor(d))
		require.NoError(t, c.AddPredecessor(d))
	}
	g, err := component.NewGraph(root, "")
	require.NoError(t, err)
	return g
}

func TestFilter(t *testing.T) {
	f, err := download.NewFilter("*.dll; docs/**", "*.pdb;docs/internal/*")
	require.NoError(t, err)

	tests := map[string]bool{
		"lib.dll":            true,
		"bin/x64/lib.dll":    true,
		"bin/lib.pdb":        false,
		"docs/readme.md":     true,
		"docs/api/index.md":  true,
		"docs/internal/a.md": false,
		"readme.md":          false,
	}
	for name, want := range tests {
		assert.Equal(t, want, f.Match(name), name)
	}

	all, err := download.NewFilter("", "")
	require.NoError(t, err)
	assert.True(t, all.Match("any/file"))
}

func TestDownloadAndCleanup(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()

	contents := map[string]fstest.MapFS{
		"lib": {
			"bin/lib.dll": {Data: []byte("lib")},
			"bin/lib.pdb": {Data: []byte("symbols")},
		},
		"tools": {
			"tool.exe": {Data: []byte("tool")},
		},
	}
	fetcher := download.FetcherFunc(func(_ context.Context, c *component.Component) (fs.FS, error) {
		return contents[c.Name.String()], nil
	})

	lib := newComponent(t, "lib", "1.0", map[string]string{
		definition.SettingExcludeFilter:      "*.pdb",
		definition.SettingRelativeOutputPath: "deps/lib",
	})
	tools := newComponent(t, "tools", "2.0", nil)
	g := newGraph(t, lib, tools)

	target := t.TempDir()
	watermark, err := download.NewDownloader(fetcher, download.WithConcurrency(2)).Download(ctx, g, target)
	r.NoError(err)
	r.Equal([]download.Entry{
		{Path: "deps/lib/bin/lib.dll", Digest: digest.FromString("lib"), Component: "lib#1.0"},
		{Path: "tool.exe", Digest: digest.FromString("tool"), Component: "tools#2.0"},
	}, watermark.Entries)

	data, err := os.ReadFile(filepath.Join(target, "deps", "lib", "bin", "lib.dll"))
	r.NoError(err)
	r.Equal("lib", string(data))
	r.NoFileExists(filepath.Join(target, "deps", "lib", "bin", "lib.pdb"))

	loaded, err := download.LoadWatermark(target)
	r.NoError(err)
	r.Equal(watermark.Entries, loaded.Entries)

	r.NoError(os.WriteFile(filepath.Join(target, "tool.exe"), []byte("patched"), 0o644))

	result, err := download.NewCleaner().Cleanup(ctx, target)
	r.NoError(err)
	r.Equal([]string{"deps/lib/bin/lib.dll"}, result.Removed)
	r.Equal([]string{"tool.exe"}, result.Modified)
	r.Empty(result.Missing)
	r.NoDirExists(filepath.Join(target, "deps"))
	r.FileExists(filepath.Join(target, "tool.exe"))

	loaded, err = download.LoadWatermark(target)
	r.NoError(err)
	r.Len(loaded.Entries, 1)

	r.NoError(os.Remove(filepath.Join(target, "tool.exe")))
	result, err = download.NewCleaner().Cleanup(ctx, target)
	r.NoError(err)
	r.Equal([]string{"tool.exe"}, result.Missing)
	r.NoFileExists(filepath.Join(target, download.WatermarkFileName))
}

func TestDownloadConflictingFiles(t *testing.T) {
	fetcher := download.FetcherFunc(func(context.Context, *component.Component) (fs.FS, error) {
		return fstest.MapFS{"shared.txt": {Data: []byte("x")}}, nil
	})
	g := newGraph(t, newComponent(t, "a", "1", nil), newComponent(t, "b", "1", nil))

	_, err := download.NewDownloader(fetcher, download.WithConcurrency(1)).Download(t.Context(), g, t.TempDir())
	require.ErrorContains(t, err, "provided by both")
}

func TestDownloadConflictingFilesOfEqualNamesInOtherProviders(t *testing.T) {
	fetcher := download.FetcherFunc(func(context.Context, *component.Component) (fs.FS, error) {
		return fstest.MapFS{"lib.dll": {Data: []byte("lib")}}, nil
	})
	binary, err := component.New(component.ProviderBinaryRepository, component.SimpleName{Name: "lib"}, component.ExactVersion{Value: "1"}, component.Settings{})
	require.NoError(t, err)
	g := newGraph(t, newComponent(t, "lib", "1", nil), binary)

	_, err = download.NewDownloader(fetcher, download.WithConcurrency(1)).Download(t.Context(), g, t.TempDir())
	require.ErrorContains(t, err, "provided by both")
	require.ErrorContains(t, err, binary.Key())
}

func TestDownloadSkipsDependencyDefinitions(t *testing.T) {
	r := require.New(t)
	fetcher := download.FetcherFunc(func(context.Context, *component.Component) (fs.FS, error) {
		return fstest.MapFS{
			"Component.YAML":     {Data: []byte("dependencies: []")},
			"lib/component.yaml": {Data: []byte("nested content")},
		}, nil
	})
	settings := map[string]string{"DependencyDefinitionFileNameList": "component.targets; component.yaml"}
	g := newGraph(t, newComponent(t, "a", "1", settings))

	watermark, err := download.NewDownloader(fetcher).Download(t.Context(), g, t.TempDir())
	r.NoError(err)
	r.Len(watermark.Entries, 1)
	r.Equal("lib/component.yaml", watermark.Entries[0].Path, "only top level definitions are skipped")
}

func TestDownloadRejectsEscapingOutputPath(t *testing.T) {
	fetcher := download.FetcherFunc(func(context.Context, *component.Component) (fs.FS, error) {
		return fstest.MapFS{"a.txt": {Data: []byte("a")}}, nil
	})
	g := newGraph(t, newComponent(t, "a", "1", map[string]string{definition.SettingRelativeOutputPath: "../outside"}))

	_, err := download.NewDownloader(fetcher).Download(t.Context(), g, t.TempDir())
	require.ErrorContains(t, err, "must stay within the target directory")
}

func TestRegistryFetcher(t *testing.T) {
	r := require.New(t)
	repo := inmemory.New()
	repo.Add(component.SimpleName{Name: "lib"}, component.ExactVersion{Value: "1.0"}, nil, fstest.MapFS{"lib.dll": {Data: []byte("lib")}})

	registry := resolver.NewRegistry()
	registry.MustRegister(component.ProviderFileShare, repo)
	registry.MustRegister(component.ProviderBinaryRepository, resolver.ProviderFunc(func(context.Context, component.Settings) (resolver.Resolver, error) {
		return struct{ resolver.Resolver }{}, nil
	}))
	fetcher := &download.RegistryFetcher{Registry: registry}

	fsys, err := fetcher.Fetch(t.Context(), newComponent(t, "lib", "1.0", nil))
	r.NoError(err)
	data, err := fs.ReadFile(fsys, "lib.dll")
	r.NoError(err)
	r.Equal("lib", string(data))

	binary, err := component.New(component.ProviderBinaryRepository, component.SimpleName{Name: "lib"}, component.ExactVersion{Value: "1.0"}, component.Settings{})
	r.NoError(err)
	_, err = fetcher.Fetch(t.Context(), binary)
	r.ErrorIs(err, download.ErrNotDownloadable)
}

func TestCleanupWithoutWatermark(t *testing.T) {
	result, err := download.NewCleaner().Cleanup(t.Context(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result.Removed)
}

func TestCleanupGraphOnlyRemovesOwnFiles(t *testing.T) {
	r := require.New(t)
	fetcher := download.FetcherFunc(func(_ context.Context, c *component.Component) (fs.FS, error) {
		return fstest.MapFS{c.Name.String() + ".txt": {Data: []byte(c.Name.String())}}, nil
	})
	a := newComponent(t, "a", "1", nil)
	b := newComponent(t, "b", "1", nil)
	target := t.TempDir()

	_, err := download.NewDownloader(fetcher).Download(t.Context(), newGraph(t, a, b), target)
	r.NoError(err)

	result, err := download.NewCleaner().CleanupGraph(t.Context(), newGraph(t, newComponent(t, "a", "1", nil)), target)
	r.NoError(err)
	r.Equal([]string{"a.txt"}, result.Removed)
	r.FileExists(filepath.Join(target, "b.txt"))

	watermark, err := download.LoadWatermark(target)
	r.NoError(err)
	r.Len(watermark.Entries, 1)
	r.Equal("b.txt", watermark.Entries[0].Path)
}
