package download

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/opencontainers/go-digest"
)

// WatermarkFileName is the name of the watermark file in a target directory.
const WatermarkFileName = ".depmgr-watermark.json"

// Watermark records the files a download placed into a target directory.
type Watermark struct {
	Entries []Entry `json:"entries"`
}

// Entry is a single downloaded file.
type Entry struct {
	// Path is the slash separated path relative to the target directory.
	Path string `json:"path"`
	// Digest is the digest of the file content as downloaded.
	Digest digest.Digest `json:"digest"`
	// Component is the component the file belongs to, as Name#Version.
	Component string `json:"component"`
}

// LoadWatermark reads the watermark of dir. A directory without a watermark
// yields an empty watermark.
func LoadWatermark(dir string) (*Watermark, error) {
	data, err := os.ReadFile(filepath.Join(dir, WatermarkFileName))
	if errors.Is(err, os.ErrNotExist) {
		return &Watermark{}, nil
	}
	if err != nil {
		return nil, err
	}
	var w Watermark
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode watermark in %s: %w", dir, err)
	}
	for _, e := range w.Entries {
		if err := e.Digest.Validate(); err != nil {
			return nil, fmt.Errorf("invalid digest for %s in watermark: %w", e.Path, err)
		}
	}
	return &w, nil
}

// Save writes the watermark into dir. An empty watermark removes the file.
func (w *Watermark) Save(dir string) error {
	path := filepath.Join(dir, WatermarkFileName)
	if len(w.Entries) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}
	w.sort()
	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Merge adds entries, replacing existing entries with the same path.
func (w *Watermark) Merge(entries ...Entry) {
	for _, e := range entries {
		if i := slices.IndexFunc(w.Entries, func(existing Entry) bool { return existing.Path == e.Path }); i >= 0 {
			w.Entries[i] = e
			continue
		}
		w.Entries = append(w.Entries, e)
	}
	w.sort()
}

func (w *Watermark) sort() {
	slices.SortFunc(w.Entries, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})
}
