package component

import (
	"fmt"
	"strings"
)

// ProviderType is the backend family a component is fetched from.
type ProviderType int

const (
	ProviderUnknown ProviderType = iota
	// ProviderLocal is only used for a root component whose dependency
	// definition document is not under version control.
	ProviderLocal
	ProviderSourceControl
	ProviderSourceControlCopy
	ProviderFileShare
	ProviderBuildResult
	ProviderVNextBuildResult
	ProviderBinaryRepository
	ProviderSubversion
)

var providerTypeNames = map[ProviderType]string{
	ProviderLocal:             "Local",
	ProviderSourceControl:     "SourceControl",
	ProviderSourceControlCopy: "SourceControlCopy",
	ProviderFileShare:         "FileShare",
	ProviderBuildResult:       "BuildResult",
	ProviderVNextBuildResult:  "VNextBuildResult",
	ProviderBinaryRepository:  "BinaryRepository",
	ProviderSubversion:        "Subversion",
}

// ProviderTypes returns all provider types that can be declared in a
// dependency definition document.
func ProviderTypes() []ProviderType {
	return []ProviderType{
		ProviderSourceControl,
		ProviderSourceControlCopy,
		ProviderFileShare,
		ProviderBuildResult,
		ProviderVNextBuildResult,
		ProviderBinaryRepository,
		ProviderSubversion,
	}
}

func (t ProviderType) String() string {
	if name, ok := providerTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// ParseProviderType parses a provider type tag case-insensitively.
// The Local type is reserved for root components and cannot be parsed.
func ParseProviderType(tag string) (ProviderType, error) {
	for _, t := range ProviderTypes() {
		if strings.EqualFold(providerTypeNames[t], strings.TrimSpace(tag)) {
			return t, nil
		}
	}
	return ProviderUnknown, fmt.Errorf("%w: unknown provider type %q", ErrInvalidComponent, tag)
}

// IsSourceControl reports whether the provider belongs to the source control
// family, whose components are identified by a server path and a version
// control specifier.
func (t ProviderType) IsSourceControl() bool {
	return t == ProviderSourceControl || t == ProviderSourceControlCopy
}

// IsBuildResult reports whether the provider belongs to the build result family.
func (t ProviderType) IsBuildResult() bool {
	return t == ProviderBuildResult || t == ProviderVNextBuildResult
}

func (t ProviderType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ProviderType) UnmarshalText(text []byte) error {
	if strings.EqualFold(string(text), providerTypeNames[ProviderLocal]) {
		*t = ProviderLocal
		return nil
	}
	parsed, err := ParseProviderType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
