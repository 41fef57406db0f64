package download

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// Filter selects the files of a component to download. Patterns are glob
// expressions separated by semicolons. A pattern without a slash is matched
// against the file name, all others against the slash separated path
// relative to the component root.
type Filter struct {
	include []pattern
	exclude []pattern
}

type pattern struct {
	glob     glob.Glob
	baseName bool
}

// NewFilter compiles include and exclude pattern lists. An empty include
// list includes every file.
func NewFilter(include, exclude string) (*Filter, error) {
	in, err := compilePatterns(include)
	if err != nil {
		return nil, fmt.Errorf("invalid include filter: %w", err)
	}
	ex, err := compilePatterns(exclude)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude filter: %w", err)
	}
	return &Filter{include: in, exclude: ex}, nil
}

func compilePatterns(list string) ([]pattern, error) {
	var patterns []pattern
	for _, p := range strings.Split(list, ";") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		patterns = append(patterns, pattern{glob: g, baseName: !strings.Contains(p, "/")})
	}
	return patterns, nil
}

func (p pattern) match(name string) bool {
	if p.baseName {
		return p.glob.Match(path.Base(name))
	}
	return p.glob.Match(name)
}

// Match reports whether the file at the slash separated relative path name
// is downloaded.
func (f *Filter) Match(name string) bool {
	for _, p := range f.exclude {
		if p.match(name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if p.match(name) {
			return true
		}
	}
	return false
}
