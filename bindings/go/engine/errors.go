package engine

import (
	"errors"
	"strings"

	"depmgr.software/dependency-manager/bindings/go/component"
)

// ErrMissingSettings is wrapped when a declaration lacks settings its provider
// type requires.
var ErrMissingSettings = errors.New("missing required settings")

// DependencyServiceError is the single error kind returned by BuildGraph for
// every resolution failure. It carries a human readable message with the
// provider context and wraps the underlying cause, so sentinel errors such
// as resolver.ErrNotFound or resolver.ErrInvalidProviderConfiguration can be
// checked with errors.Is.
type DependencyServiceError struct {
	Message string
	// Provider is the provider type of the failing declaration, if any.
	Provider component.ProviderType
	// Component is the failing component in Name#Version form, if known.
	Component string
	Err       error
}

func (e *DependencyServiceError) Error() string {
	var sb strings.Builder
	if e.Provider != component.ProviderUnknown {
		sb.WriteString(e.Provider.String())
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *DependencyServiceError) Unwrap() error {
	return e.Err
}

// IsDependencyServiceError reports whether err is or wraps a
// DependencyServiceError.
func IsDependencyServiceError(err error) bool {
	var dse *DependencyServiceError
	return errors.As(err, &dse)
}

// serviceError wraps err into a DependencyServiceError unless it already is
// one, in which case it is returned unchanged.
func serviceError(typ component.ProviderType, comp, message string, err error) error {
	var dse *DependencyServiceError
	if errors.As(err, &dse) {
		return err
	}
	return &DependencyServiceError{
		Message:   message,
		Provider:  typ,
		Component: comp,
		Err:       err,
	}
}
