package component

import (
	"fmt"
	"slices"
	"strings"

	"depmgr.software/dependency-manager/bindings/go/runtime"
)

// Component is a node of a dependency graph. It is identified by its provider
// type, name and version and owns the edges to its successors (the
// components it depends on) and predecessors (the components depending on it).
//
// Components are created once per unique resolved identity while a graph is
// resolved. After the graph was constructed its edges can no longer be
// modified.
type Component struct {
	Type     ProviderType
	Name     Name
	Version  Version
	Settings Settings

	successors   []*Dependency
	predecessors []*Dependency
	frozen       bool
}

// New creates a component. Name and version are required.
func New(typ ProviderType, name Name, version Version, settings Settings) (*Component, error) {
	if name == nil {
		return nil, fmt.Errorf("%w: component name is required", ErrInvalidComponent)
	}
	if version == nil {
		return nil, fmt.Errorf("%w: component version is required for %s", ErrInvalidComponent, name)
	}
	return &Component{
		Type:     typ,
		Name:     name,
		Version:  version,
		Settings: settings,
	}, nil
}

// String returns Name#Version.
func (c *Component) String() string {
	return c.Name.String() + "#" + c.Version.String()
}

// Key is the hash key of the component. Two components with equal keys are
// Equal.
func (c *Component) Key() string {
	return c.Type.String() + ":" + strings.ToLower(c.String())
}

// Equal reports whether both components have the same provider type and the
// same String representation, ignoring case.
func (c *Component) Equal(o *Component) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.Type == o.Type && strings.EqualFold(c.String(), o.String())
}

// Successors returns the outgoing edges in the order they were added.
func (c *Component) Successors() []*Dependency {
	return slices.Clone(c.successors)
}

// Predecessors returns the incoming edges in the order they were added.
func (c *Component) Predecessors() []*Dependency {
	return slices.Clone(c.predecessors)
}

// AddSuccessor registers an outgoing edge. The edge must start at c.
func (c *Component) AddSuccessor(d *Dependency) error {
	if c.frozen {
		return fmt.Errorf("adding successor to %s: %w", c, ErrFrozen)
	}
	if d == nil || d.Source() != c {
		return fmt.Errorf("%w: successor of %s must start at it", ErrInvalidComponent, c)
	}
	c.successors = append(c.successors, d)
	return nil
}

// AddPredecessor registers an incoming edge. The edge must end at c.
func (c *Component) AddPredecessor(d *Dependency) error {
	if c.frozen {
		return fmt.Errorf("adding predecessor to %s: %w", c, ErrFrozen)
	}
	if d == nil || d.Target() != c {
		return fmt.Errorf("%w: predecessor of %s must end at it", ErrInvalidComponent, c)
	}
	c.predecessors = append(c.predecessors, d)
	return nil
}

// LogicalIdentity identifies the component independent of its version. It is
// used to group side-by-side versions of the same component.
func (c *Component) LogicalIdentity() runtime.Identity {
	return runtime.Identity{
		runtime.IdentityAttributeType: c.Type.String(),
		runtime.IdentityAttributeName: strings.ToLower(c.Name.String()),
	}
}

// ReuseKey returns the identity under which the resolver reuses an already
// resolved node instead of creating a new one. It is computed independently
// of Key and deliberately differs from it: file share components include
// their root path, build components only their build number.
func (c *Component) ReuseKey() runtime.Identity {
	id := runtime.Identity{runtime.IdentityAttributeType: c.Type.String()}
	switch name := c.Name.(type) {
	case BuildCoordinate:
		id["teamProject"] = strings.ToLower(name.TeamProject)
		id["buildDefinition"] = strings.ToLower(name.BuildDefinition)
		id["buildNumber"] = strings.ToLower(buildNumber(c.Version))
		return id
	case PathName:
		id[runtime.IdentityAttributePath] = strings.ToLower(name.ServerPath)
	case SimpleName:
		id[runtime.IdentityAttributePath] = strings.ToLower(joinPath(c.Settings.Get(rootSettingFor(c.Type)), name.Name))
	}
	id[runtime.IdentityAttributeVersion] = strings.ToLower(c.Version.String())
	return id
}

func buildNumber(v Version) string {
	switch v := v.(type) {
	case Build:
		return v.Number
	case BuildSelector:
		return v.BuildNumber
	default:
		return v.String()
	}
}

// RootSettingFileShare and RootSettingBinaryRepository name the settings
// holding the location a simple named component lives in.
const (
	RootSettingFileShare        = "FileShareRootPath"
	RootSettingBinaryRepository = "BinaryRepositoryTeamProject"
)

func rootSettingFor(t ProviderType) string {
	if t == ProviderBinaryRepository {
		return RootSettingBinaryRepository
	}
	return RootSettingFileShare
}

func joinPath(root, name string) string {
	if root == "" {
		return name
	}
	return strings.TrimRight(root, `/\`) + "/" + name
}
