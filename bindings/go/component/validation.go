package component

import (
	"fmt"
	"strings"
)

// ValidationKind classifies a ValidationError.
type ValidationKind int

const (
	ValidationCircularDependency ValidationKind = iota + 1
	ValidationSideBySide
)

func (k ValidationKind) String() string {
	switch k {
	case ValidationCircularDependency:
		return "CircularDependency"
	case ValidationSideBySide:
		return "SideBySide"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ValidationError describes a structural anomaly of a graph. Validation
// errors are data returned to the caller, not failures of an operation.
type ValidationError struct {
	Kind    ValidationKind
	Message string
	// Path is the chain of components closing a cycle. The first and the
	// last element are the same component.
	Path []*Component
	// Conflicts lists every version of a side-by-side component.
	Conflicts []Conflict
}

// Conflict is one version of a logical component that is reachable in more
// than one version.
type Conflict struct {
	Version    Version
	Components []*Component
	// Chains are the dependency chains from the root that introduced the
	// version, each starting at the root and ending at the component. There
	// is one chain per direct predecessor of the component.
	Chains [][]*Component
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FormatChain renders a chain of components as "A#1 -> B#2".
func FormatChain(chain []*Component) string {
	parts := make([]string, len(chain))
	for i, c := range chain {
		parts[i] = c.String()
	}
	return strings.Join(parts, " -> ")
}
