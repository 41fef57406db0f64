package component

import (
	"fmt"
	"slices"
	"strings"
)

// Version describes which exact revision, build or version of a component is
// meant, or for selectors, which versions are acceptable.
type Version interface {
	fmt.Stringer
	// Equal reports whether both versions are of the same variant and their
	// underlying representations match.
	Equal(Version) bool
	isVersion()
}

// ExactVersion is a plain version string, such as "1.2.0" or a subversion
// revision.
type ExactVersion struct {
	Value string `json:"value"`
}

// SourceControlVersion wraps a parsed version control specifier.
type SourceControlVersion struct {
	Spec VersionSpec `json:"spec"`
}

// BuildSelector is a filter used to pick a build among the available ones.
// All lists hold lower-cased entries.
type BuildSelector struct {
	BuildNumber string   `json:"buildNumber,omitempty"`
	Status      []string `json:"status,omitempty"`
	Quality     []string `json:"quality,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Build is a concrete build as reported by a build resolver.
type Build struct {
	Number  string   `json:"number"`
	Status  string   `json:"status,omitempty"`
	Quality string   `json:"quality,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func (ExactVersion) isVersion()         {}
func (SourceControlVersion) isVersion() {}
func (BuildSelector) isVersion()        {}
func (Build) isVersion()                {}

func (v ExactVersion) String() string         { return v.Value }
func (v SourceControlVersion) String() string { return v.Spec.String() }
func (v Build) String() string                { return v.Number }

func (v BuildSelector) String() string {
	if v.BuildNumber != "" {
		return v.BuildNumber
	}
	var parts []string
	for _, p := range []struct {
		key    string
		values []string
	}{
		{"status", v.Status},
		{"quality", v.Quality},
		{"tags", v.Tags},
	} {
		if len(p.values) > 0 {
			parts = append(parts, p.key+"="+strings.Join(p.values, ","))
		}
	}
	if len(parts) == 0 {
		return "latest"
	}
	return strings.Join(parts, ";")
}

func (v ExactVersion) Equal(o Version) bool {
	other, ok := o.(ExactVersion)
	return ok && v.Value == other.Value
}

func (v SourceControlVersion) Equal(o Version) bool {
	other, ok := o.(SourceControlVersion)
	return ok && v.Spec.Equal(other.Spec)
}

func (v BuildSelector) Equal(o Version) bool {
	other, ok := o.(BuildSelector)
	return ok &&
		strings.EqualFold(v.BuildNumber, other.BuildNumber) &&
		equalFoldSet(v.Status, other.Status) &&
		equalFoldSet(v.Quality, other.Quality) &&
		equalFoldSet(v.Tags, other.Tags)
}

func (v Build) Equal(o Version) bool {
	other, ok := o.(Build)
	return ok &&
		strings.EqualFold(v.Number, other.Number) &&
		strings.EqualFold(v.Status, other.Status) &&
		strings.EqualFold(v.Quality, other.Quality) &&
		equalFoldSet(v.Tags, other.Tags)
}

// IsUnfiltered reports whether the selector neither names a build number nor
// restricts status, quality or tags. Such a selector picks the latest build.
func (v BuildSelector) IsUnfiltered() bool {
	return v.BuildNumber == "" && len(v.Status) == 0 && len(v.Quality) == 0 && len(v.Tags) == 0
}

// HasAttributeFilter reports whether status, quality or tags are restricted.
func (v BuildSelector) HasAttributeFilter() bool {
	return len(v.Status) > 0 || len(v.Quality) > 0 || len(v.Tags) > 0
}

// Accepts reports whether the build satisfies the status, quality and tag
// filters of the selector. An empty filter list accepts every value.
func (v BuildSelector) Accepts(b Build) bool {
	if len(v.Status) > 0 && !slices.Contains(v.Status, strings.ToLower(b.Status)) {
		return false
	}
	if len(v.Quality) > 0 && !slices.Contains(v.Quality, strings.ToLower(b.Quality)) {
		return false
	}
	if len(v.Tags) > 0 && !slices.ContainsFunc(b.Tags, func(tag string) bool {
		return slices.Contains(v.Tags, strings.ToLower(tag))
	}) {
		return false
	}
	return true
}

// ParseBuildSelector creates a selector from the raw settings of a
// declaration. Status, quality and tags are comma separated lists; every
// entry is trimmed and lower-cased.
func ParseBuildSelector(buildNumber, status, quality, tags string) BuildSelector {
	return BuildSelector{
		BuildNumber: strings.TrimSpace(buildNumber),
		Status:      splitLower(status),
		Quality:     splitLower(quality),
		Tags:        splitLower(tags),
	}
}

// NewExactVersion validates and creates an ExactVersion.
func NewExactVersion(value string) (ExactVersion, error) {
	if strings.TrimSpace(value) == "" {
		return ExactVersion{}, fmt.Errorf("%w: version must not be empty", ErrInvalidComponent)
	}
	return ExactVersion{Value: strings.TrimSpace(value)}, nil
}

func splitLower(list string) []string {
	var out []string
	for _, entry := range strings.Split(list, ",") {
		if entry = strings.ToLower(strings.TrimSpace(entry)); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func equalFoldSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	norm := func(in []string) []string {
		out := make([]string, len(in))
		for i, s := range in {
			out[i] = strings.ToLower(s)
		}
		slices.Sort(out)
		return out
	}
	return slices.Equal(norm(a), norm(b))
}
