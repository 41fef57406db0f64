package component

import (
	"fmt"
	"strings"
)

// Name identifies the logical component independent of its version.
type Name interface {
	fmt.Stringer
	// Equal reports whether both names are of the same variant and match
	// structurally.
	Equal(Name) bool
	isName()
}

// SimpleName identifies local, file share and binary repository components.
type SimpleName struct {
	Name string `json:"name"`
}

// PathName identifies source control and subversion components by their
// root path.
type PathName struct {
	ServerPath string `json:"serverPath"`
}

// BuildCoordinate identifies a build result component.
type BuildCoordinate struct {
	TeamProject     string `json:"teamProject"`
	BuildDefinition string `json:"buildDefinition"`
}

func (SimpleName) isName()      {}
func (PathName) isName()        {}
func (BuildCoordinate) isName() {}

func (n SimpleName) String() string { return n.Name }
func (n PathName) String() string   { return n.ServerPath }
func (n BuildCoordinate) String() string {
	return n.TeamProject + "/" + n.BuildDefinition
}

func (n SimpleName) Equal(o Name) bool {
	other, ok := o.(SimpleName)
	return ok && strings.EqualFold(n.Name, other.Name)
}

func (n PathName) Equal(o Name) bool {
	other, ok := o.(PathName)
	return ok && strings.EqualFold(n.ServerPath, other.ServerPath)
}

func (n BuildCoordinate) Equal(o Name) bool {
	other, ok := o.(BuildCoordinate)
	return ok &&
		strings.EqualFold(n.TeamProject, other.TeamProject) &&
		strings.EqualFold(n.BuildDefinition, other.BuildDefinition)
}

// NewSimpleName validates and creates a SimpleName.
func NewSimpleName(name string) (SimpleName, error) {
	if strings.TrimSpace(name) == "" {
		return SimpleName{}, fmt.Errorf("%w: component name must not be empty", ErrInvalidComponent)
	}
	return SimpleName{Name: strings.TrimSpace(name)}, nil
}

// NewPathName validates and creates a PathName.
func NewPathName(path string) (PathName, error) {
	if strings.TrimSpace(path) == "" {
		return PathName{}, fmt.Errorf("%w: component path must not be empty", ErrInvalidComponent)
	}
	return PathName{ServerPath: strings.TrimSpace(path)}, nil
}

// NewBuildCoordinate validates and creates a BuildCoordinate.
func NewBuildCoordinate(teamProject, buildDefinition string) (BuildCoordinate, error) {
	if strings.TrimSpace(teamProject) == "" || strings.TrimSpace(buildDefinition) == "" {
		return BuildCoordinate{}, fmt.Errorf("%w: team project and build definition must not be empty", ErrInvalidComponent)
	}
	return BuildCoordinate{
		TeamProject:     strings.TrimSpace(teamProject),
		BuildDefinition: strings.TrimSpace(buildDefinition),
	}, nil
}
