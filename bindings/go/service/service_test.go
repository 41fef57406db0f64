package service_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
	"depmgr.software/dependency-manager/bindings/go/engine"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/resolver/inmemory"
	"depmgr.software/dependency-manager/bindings/go/service"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

func setup(t *testing.T) (*service.Service, string) {
	t.Helper()
	repo := inmemory.New()
	repo.Add(component.SimpleName{Name: "lib"}, component.ExactVersion{Value: "1.0"}, nil, fstest.MapFS{
		"lib.dll": {Data: []byte("lib")},
	})
	registry := resolver.NewRegistry()
	registry.MustRegister(component.ProviderFileShare, repo)

	var buf bytes.Buffer
	require.NoError(t, definition.Encode(&buf, &definition.Document{Dependencies: []definition.Declaration{
		definition.NewPlaceholder(component.ProviderFileShare, map[string]string{
			definition.SettingComponentName: "lib",
			definition.SettingVersionNumber: "1.0",
		}),
	}}))
	path := filepath.Join(t.TempDir(), "component.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	svc := service.New(registry, settings.Settings{
		settings.DependencyDefinitionFileNameList: "component.yaml",
		settings.FileShareRootPath:                "/share",
		settings.DownloadConcurrency:              "2",
	})
	return svc, path
}

func TestServiceSync(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()
	svc, path := setup(t)

	g, err := svc.BuildGraph(ctx, path)
	r.NoError(err)
	r.Len(g.Root().Successors(), 1)

	target := t.TempDir()
	watermark, err := svc.DownloadGraph(ctx, g, target)
	r.NoError(err)
	r.Len(watermark.Entries, 1)
	r.FileExists(filepath.Join(target, "lib.dll"))

	result, err := svc.CleanupGraph(ctx, g, target)
	r.NoError(err)
	r.Equal([]string{"lib.dll"}, result.Removed)
	r.NoFileExists(filepath.Join(target, "lib.dll"))
}

func TestServiceCleanupDirectory(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()
	svc, path := setup(t)

	g, err := svc.BuildGraph(ctx, path)
	r.NoError(err)
	target := t.TempDir()
	_, err = svc.DownloadGraph(ctx, g, target)
	r.NoError(err)

	result, err := svc.Cleanup(ctx, target)
	r.NoError(err)
	r.Equal([]string{"lib.dll"}, result.Removed)
	r.NoFileExists(filepath.Join(target, "lib.dll"))
}

func TestServiceAsync(t *testing.T) {
	r := require.New(t)
	ctx := t.Context()
	svc, path := setup(t)

	g, err := svc.BuildGraphAsync(ctx, path).Wait(ctx)
	r.NoError(err)

	target := t.TempDir()
	download := svc.DownloadGraphAsync(ctx, g, target)
	<-download.Done()
	_, err = download.Wait(ctx)
	r.NoError(err)

	result, err := svc.CleanupGraphAsync(ctx, g, target).Wait(ctx)
	r.NoError(err)
	r.Len(result.Removed, 1)

	_, err = svc.BuildGraphAsync(ctx, filepath.Join(t.TempDir(), "missing.yaml")).Wait(ctx)
	r.True(engine.IsDependencyServiceError(err))
}

func TestFutureCancel(t *testing.T) {
	started := make(chan struct{})
	f := service.Go(t.Context(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})
	<-started
	f.Cancel()

	_, err := f.Wait(t.Context())
	require.ErrorIs(t, err, service.ErrCanceled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFutureWaitTimeout(t *testing.T) {
	release := make(chan struct{})
	f := service.Go(t.Context(), func(context.Context) (string, error) {
		<-release
		return "done", nil
	})

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	v, err := f.Wait(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "done", v)
}

func TestFuturePanic(t *testing.T) {
	f := service.Go(t.Context(), func(context.Context) (int, error) {
		panic("boom")
	})
	_, err := f.Wait(t.Context())
	require.ErrorContains(t, err, "operation panicked: boom")
}

func TestFutureError(t *testing.T) {
	want := errors.New("failed")
	f := service.Go(t.Context(), func(context.Context) (int, error) {
		return 0, want
	})
	_, err := f.Wait(t.Context())
	require.ErrorIs(t, err, want)
	require.NotErrorIs(t, err, service.ErrCanceled)
}
