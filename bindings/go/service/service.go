// Package service bundles graph resolution, download and cleanup behind a
// single entry point with synchronous and asynchronous variants.
package service

import (
	"context"
	"log/slog"
	"runtime"

	slogcontext "github.com/veqryn/slog-context"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/download"
	"depmgr.software/dependency-manager/bindings/go/engine"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

// Service resolves, downloads and cleans up dependency graphs with a fixed
// set of service settings. Every call resolves with its own state, so a
// Service can be used concurrently.
type Service struct {
	settings   settings.Settings
	engine     *engine.Engine
	downloader *download.Downloader
	cleaner    *download.Cleaner
}

type options struct {
	engineOptions []engine.Option
	fetcher       download.Fetcher
}

type Option func(*options)

// WithWorkspace is passed to the engine, see engine.WithWorkspace.
func WithWorkspace(w engine.Workspace) Option {
	return func(o *options) {
		o.engineOptions = append(o.engineOptions, engine.WithWorkspace(w))
	}
}

// WithFetcher replaces the fetcher used for downloads, which by default
// fetches through the resolvers of the registry.
func WithFetcher(f download.Fetcher) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

func New(registry *resolver.Registry, s settings.Settings, opts ...Option) *Service {
	o := &options{fetcher: &download.RegistryFetcher{Registry: registry}}
	for _, opt := range opts {
		opt(o)
	}
	concurrency := download.WithConcurrency(s.Concurrency(runtime.NumCPU()))
	return &Service{
		settings:   s.Clone(),
		engine:     engine.New(registry, o.engineOptions...),
		downloader: download.NewDownloader(o.fetcher, concurrency),
		cleaner:    download.NewCleaner(concurrency),
	}
}

// BuildGraph resolves the graph of the document at path.
func (s *Service) BuildGraph(ctx context.Context, path string) (*component.Graph, error) {
	return s.engine.BuildGraph(ctx, path, s.settings)
}

// DownloadGraph downloads all components of g into targetDir.
func (s *Service) DownloadGraph(ctx context.Context, g *component.Graph, targetDir string) (*download.Watermark, error) {
	slogcontext.FromCtx(ctx).InfoContext(ctx, "downloading graph",
		slog.String("realm", "service"),
		slog.String("root", g.Root().String()),
		slog.String("dir", targetDir),
	)
	return s.downloader.Download(ctx, g, targetDir)
}

// CleanupGraph removes the unmodified files of all components of g from
// targetDir.
func (s *Service) CleanupGraph(ctx context.Context, g *component.Graph, targetDir string) (*download.CleanupResult, error) {
	slogcontext.FromCtx(ctx).InfoContext(ctx, "cleaning up graph",
		slog.String("realm", "service"),
		slog.String("root", g.Root().String()),
		slog.String("dir", targetDir),
	)
	return s.cleaner.CleanupGraph(ctx, g, targetDir)
}

// Cleanup removes the unmodified files of every component recorded in the
// watermark of targetDir, independent of any graph.
func (s *Service) Cleanup(ctx context.Context, targetDir string) (*download.CleanupResult, error) {
	slogcontext.FromCtx(ctx).InfoContext(ctx, "cleaning up directory",
		slog.String("realm", "service"),
		slog.String("dir", targetDir),
	)
	return s.cleaner.Cleanup(ctx, targetDir)
}

func (s *Service) BuildGraphAsync(ctx context.Context, path string) *Future[*component.Graph] {
	return Go(ctx, func(ctx context.Context) (*component.Graph, error) {
		return s.BuildGraph(ctx, path)
	})
}

func (s *Service) DownloadGraphAsync(ctx context.Context, g *component.Graph, targetDir string) *Future[*download.Watermark] {
	return Go(ctx, func(ctx context.Context) (*download.Watermark, error) {
		return s.DownloadGraph(ctx, g, targetDir)
	})
}

func (s *Service) CleanupGraphAsync(ctx context.Context, g *component.Graph, targetDir string) *Future[*download.CleanupResult] {
	return Go(ctx, func(ctx context.Context) (*download.CleanupResult, error) {
		return s.CleanupGraph(ctx, g, targetDir)
	})
}
