package component

import "fmt"

// Dependency is an immutable directed edge from a source component to the
// target component it depends on. Version is the version that was requested
// by the declaration, which may differ from the resolved version of the
// target when a selector or wildcard was used.
type Dependency struct {
	source  *Component
	target  *Component
	version Version
}

// NewDependency creates an edge. Source, target and version are required.
func NewDependency(source, target *Component, version Version) (*Dependency, error) {
	switch {
	case source == nil:
		return nil, fmt.Errorf("%w: dependency source is required", ErrInvalidComponent)
	case target == nil:
		return nil, fmt.Errorf("%w: dependency target is required", ErrInvalidComponent)
	case version == nil:
		return nil, fmt.Errorf("%w: requested version of dependency %s -> %s is required", ErrInvalidComponent, source, target)
	}
	return &Dependency{source: source, target: target, version: version}, nil
}

func (d *Dependency) Source() *Component { return d.source }
func (d *Dependency) Target() *Component { return d.target }
func (d *Dependency) Version() Version   { return d.version }

func (d *Dependency) String() string {
	return fmt.Sprintf("%s -> %s (requested %s)", d.source, d.target, d.version)
}
