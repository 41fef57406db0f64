package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/opencontainers/go-digest"
	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"depmgr.software/dependency-manager/bindings/go/component"
)

// CleanupResult reports what a cleanup did. All paths are slash separated
// and relative to the target directory.
type CleanupResult struct {
	// Removed files matched their recorded digest.
	Removed []string `json:"removed,omitempty"`
	// Modified files were changed after the download and were kept.
	Modified []string `json:"modified,omitempty"`
	// Missing files were already gone.
	Missing []string `json:"missing,omitempty"`
}

// Cleaner removes downloaded files.
type Cleaner struct {
	opts Options
}

func NewCleaner(opts ...Option) *Cleaner {
	return &Cleaner{opts: newOptions(opts)}
}

// Cleanup removes all files recorded in the watermark of targetDir whose
// content still matches the recorded digest, and directories that became
// empty. Modified files stay recorded in the watermark; the watermark is
// removed once no files remain.
func (c *Cleaner) Cleanup(ctx context.Context, targetDir string) (*CleanupResult, error) {
	return c.cleanup(ctx, targetDir, func(Entry) bool { return true })
}

// CleanupGraph is like Cleanup but only considers the files of components
// reachable from the root of g. Files of other components are left alone.
func (c *Cleaner) CleanupGraph(ctx context.Context, g *component.Graph, targetDir string) (*CleanupResult, error) {
	owned := make(map[string]bool)
	for _, comp := range g.Flatten(component.FlattenOptions{Recursive: true}) {
		owned[comp.String()] = true
	}
	return c.cleanup(ctx, targetDir, func(e Entry) bool { return owned[e.Component] })
}

func (c *Cleaner) cleanup(ctx context.Context, targetDir string, selected func(Entry) bool) (*CleanupResult, error) {
	logger := slogcontext.FromCtx(ctx).With(slog.String("realm", "download"))

	watermark, err := LoadWatermark(targetDir)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result CleanupResult
		kept   []Entry
	)
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(c.opts.Concurrency)
	for _, entry := range watermark.Entries {
		if !selected(entry) {
			mu.Lock()
			kept = append(kept, entry)
			mu.Unlock()
			continue
		}
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			if !filepath.IsLocal(filepath.FromSlash(entry.Path)) {
				return fmt.Errorf("watermark entry %q is outside of the target directory", entry.Path)
			}
			file := filepath.Join(targetDir, filepath.FromSlash(entry.Path))
			actual, err := fileDigest(file, entry.Digest.Algorithm())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, os.ErrNotExist):
				result.Missing = append(result.Missing, entry.Path)
				return nil
			case err != nil:
				kept = append(kept, entry)
				return err
			case actual != entry.Digest:
				logger.WarnContext(egctx, "keeping modified file", slog.String("path", entry.Path), slog.String("component", entry.Component))
				result.Modified = append(result.Modified, entry.Path)
				kept = append(kept, entry)
				return nil
			}
			if err := os.Remove(file); err != nil {
				kept = append(kept, entry)
				return err
			}
			result.Removed = append(result.Removed, entry.Path)
			return nil
		})
	}
	err = eg.Wait()

	removeEmptyDirs(targetDir, result.Removed)
	watermark.Entries = kept
	if serr := watermark.Save(targetDir); serr != nil {
		err = errors.Join(err, fmt.Errorf("failed to save watermark: %w", serr))
	}
	slices.Sort(result.Removed)
	slices.Sort(result.Modified)
	slices.Sort(result.Missing)
	logger.InfoContext(ctx, "cleaned up target directory",
		slog.String("dir", targetDir),
		slog.Int("removed", len(result.Removed)),
		slog.Int("modified", len(result.Modified)),
	)
	return &result, err
}

func fileDigest(file string, algorithm digest.Algorithm) (_ digest.Digest, err error) {
	if !algorithm.Available() {
		return "", fmt.Errorf("digest algorithm %s is not available", algorithm)
	}
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	digester := algorithm.Digester()
	if _, err := io.Copy(digester.Hash(), f); err != nil {
		return "", err
	}
	return digester.Digest(), nil
}

// removeEmptyDirs removes the parent directories of the removed files,
// deepest first, as long as they are empty.
func removeEmptyDirs(targetDir string, removed []string) {
	dirs := make(map[string]bool)
	for _, p := range removed {
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			dirs[dir] = true
		}
	}
	sorted := make([]string, 0, len(dirs))
	for dir := range dirs {
		sorted = append(sorted, dir)
	}
	slices.SortFunc(sorted, func(a, b string) int {
		if c := strings.Count(b, "/") - strings.Count(a, "/"); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	for _, dir := range sorted {
		// fails for directories that still have content
		_ = os.Remove(filepath.Join(targetDir, filepath.FromSlash(dir)))
	}
}
