package component

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// VersionSpecKind is the kind of a version control specifier.
type VersionSpecKind byte

const (
	VersionSpecLatest    VersionSpecKind = 'T'
	VersionSpecChangeset VersionSpecKind = 'C'
	VersionSpecLabel     VersionSpecKind = 'L'
	VersionSpecDate      VersionSpecKind = 'D'
	VersionSpecWorkspace VersionSpecKind = 'W'
)

// VersionSpec is a parsed version control specifier.
//
//	T                    latest version
//	C1234                changeset 1234
//	Lrelease-1.0         label
//	D2024-05-01          date (RFC 3339 or YYYY-MM-DD)
//	Wworkspace;owner     workspace version
type VersionSpec struct {
	Kind  VersionSpecKind `json:"kind"`
	Value string          `json:"value,omitempty"`
	Owner string          `json:"owner,omitempty"`
}

func (s VersionSpec) String() string {
	switch s.Kind {
	case VersionSpecLatest:
		return "T"
	case VersionSpecWorkspace:
		return "W" + s.Value + ";" + s.Owner
	default:
		return string(s.Kind) + s.Value
	}
}

// Equal compares specifiers case-insensitively.
func (s VersionSpec) Equal(o VersionSpec) bool {
	return strings.EqualFold(s.String(), o.String())
}

// ParseVersionSpec parses a version control specifier. If spec is empty a
// workspace specifier is synthesized from workspace and owner, which allows
// resolving documents that were not committed yet.
func ParseVersionSpec(spec, workspace, owner string) (VersionSpec, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		if strings.TrimSpace(workspace) == "" || strings.TrimSpace(owner) == "" {
			return VersionSpec{}, fmt.Errorf("%w: empty version spec requires workspace name and owner", ErrInvalidComponent)
		}
		return VersionSpec{Kind: VersionSpecWorkspace, Value: strings.TrimSpace(workspace), Owner: strings.TrimSpace(owner)}, nil
	}

	kind := VersionSpecKind(strings.ToUpper(spec[:1])[0])
	value := spec[1:]
	switch kind {
	case VersionSpecLatest:
		if value != "" {
			return VersionSpec{}, fmt.Errorf("%w: latest version spec %q must not carry a value", ErrInvalidComponent, spec)
		}
		return VersionSpec{Kind: kind}, nil
	case VersionSpecChangeset:
		if n, err := strconv.Atoi(value); err != nil || n <= 0 {
			return VersionSpec{}, fmt.Errorf("%w: invalid changeset in version spec %q", ErrInvalidComponent, spec)
		}
	case VersionSpecLabel:
		if value == "" {
			return VersionSpec{}, fmt.Errorf("%w: label version spec %q requires a label", ErrInvalidComponent, spec)
		}
	case VersionSpecDate:
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			if _, err := time.Parse(time.DateOnly, value); err != nil {
				return VersionSpec{}, fmt.Errorf("%w: invalid date in version spec %q", ErrInvalidComponent, spec)
			}
		}
	case VersionSpecWorkspace:
		name, owner, ok := strings.Cut(value, ";")
		if !ok || name == "" || owner == "" {
			return VersionSpec{}, fmt.Errorf("%w: workspace version spec %q must have the form Wname;owner", ErrInvalidComponent, spec)
		}
		return VersionSpec{Kind: kind, Value: name, Owner: owner}, nil
	default:
		return VersionSpec{}, fmt.Errorf("%w: unknown version spec %q", ErrInvalidComponent, spec)
	}
	return VersionSpec{Kind: kind, Value: value}, nil
}
