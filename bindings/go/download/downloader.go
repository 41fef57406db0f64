package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/opencontainers/go-digest"
	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

// Options configure downloads and cleanups.
type Options struct {
	// Concurrency bounds the number of components or files processed in
	// parallel. Defaults to the number of CPUs.
	Concurrency int
}

type Option func(*Options)

func WithConcurrency(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

func newOptions(opts []Option) Options {
	o := Options{Concurrency: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Downloader copies the content of all components of a graph into a target
// directory.
type Downloader struct {
	fetcher Fetcher
	opts    Options
}

func NewDownloader(fetcher Fetcher, opts ...Option) *Downloader {
	return &Downloader{fetcher: fetcher, opts: newOptions(opts)}
}

// Download fetches every component reachable from the root, except the root
// itself, and copies the files accepted by the component's IncludeFilter and
// ExcludeFilter settings to targetDir joined with its RelativeOutputPath.
// The returned watermark, which is also stored in targetDir, lists every file
// written so far, including the ones of earlier downloads.
// Two components providing the same file is an error.
func (d *Downloader) Download(ctx context.Context, g *component.Graph, targetDir string) (*Watermark, error) {
	logger := slogcontext.FromCtx(ctx).With(slog.String("realm", "download"))

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}
	watermark, err := LoadWatermark(targetDir)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		claimed = make(map[string]string) // target path -> component key
		entries []Entry
	)
	claim := func(p string, c *component.Component) error {
		mu.Lock()
		defer mu.Unlock()
		owner := c.Key()
		if other, ok := claimed[p]; ok && other != owner {
			return fmt.Errorf("file %s is provided by both %s and %s", p, other, owner)
		}
		claimed[p] = owner
		return nil
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(d.opts.Concurrency)
	for _, c := range g.Flatten(component.FlattenOptions{Recursive: true}) {
		eg.Go(func() error {
			written, err := d.downloadComponent(egctx, c, targetDir, claim)
			mu.Lock()
			entries = append(entries, written...)
			mu.Unlock()
			if err != nil {
				return fmt.Errorf("downloading %s: %w", c, err)
			}
			logger.InfoContext(egctx, "downloaded component", slog.String("component", c.String()), slog.Int("files", len(written)))
			return nil
		})
	}
	err = eg.Wait()

	// files written before a failure are recorded so that cleanup finds them
	watermark.Merge(entries...)
	if serr := watermark.Save(targetDir); serr != nil {
		err = errors.Join(err, fmt.Errorf("failed to save watermark: %w", serr))
	}
	if err != nil {
		return nil, err
	}
	return watermark, nil
}

func (d *Downloader) downloadComponent(ctx context.Context, c *component.Component, targetDir string, claim func(p string, c *component.Component) error) ([]Entry, error) {
	filter, err := NewFilter(c.Settings.Get(definition.SettingIncludeFilter), c.Settings.Get(definition.SettingExcludeFilter))
	if err != nil {
		return nil, err
	}
	outDir := filepath.ToSlash(filepath.Clean(c.Settings.Get(definition.SettingRelativeOutputPath)))
	if outDir != "." && !filepath.IsLocal(outDir) {
		return nil, fmt.Errorf("relative output path %q must stay within the target directory", outDir)
	}

	definitions := make(map[string]bool)
	for _, name := range strings.Split(c.Settings.Get(settings.DependencyDefinitionFileNameList.String()), ";") {
		if name = strings.TrimSpace(name); name != "" {
			definitions[strings.ToLower(name)] = true
		}
	}

	fsys, err := d.fetcher.Fetch(ctx, c)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	err = fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		// nested dependency definitions are not content
		if entry.IsDir() || definitions[strings.ToLower(name)] || !filter.Match(name) {
			return nil
		}
		rel := path.Join(outDir, name)
		if err := claim(rel, c); err != nil {
			return err
		}
		dig, err := copyFile(fsys, name, filepath.Join(targetDir, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Path: rel, Digest: dig, Component: c.String()})
		return nil
	})
	return entries, err
}

// copyFile copies name from fsys to dst and returns the digest of the
// content.
func copyFile(fsys fs.FS, name, dst string) (_ digest.Digest, err error) {
	src, err := fsys.Open(name)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, src.Close())
	}()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	digester := digest.Canonical.Digester()
	if _, err := io.Copy(io.MultiWriter(out, digester.Hash()), src); err != nil {
		return "", fmt.Errorf("failed to copy %s: %w", name, err)
	}
	return digester.Digest(), nil
}
