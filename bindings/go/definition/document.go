// Package definition reads and writes dependency definition documents.
//
// A document lists the direct dependencies of a component. Each declaration
// names the provider the dependency is fetched from and carries a flat map
// of settings describing the component and its version:
//
//	name: my-service
//	dependencies:
//	- type: FileShare
//	  settings:
//	    ComponentName: logging
//	    VersionNumber: "1.*"
//	- type: BuildResult
//	  settings:
//	    TeamProjectName: Platform
//	    BuildDefinition: Platform.Nightly
//	    BuildStatus: Succeeded
package definition

import (
	"fmt"

	"depmgr.software/dependency-manager/bindings/go/component"
)

// Document is a parsed dependency definition document.
type Document struct {
	// Name overrides the name of the root component.
	Name string `json:"name,omitempty"`
	// Version overrides the version of the root component.
	Version string `json:"version,omitempty"`
	// Dependencies are the direct dependencies in declaration order.
	Dependencies []Declaration `json:"dependencies,omitempty"`
}

// Declaration declares a single dependency.
type Declaration struct {
	// Type is the provider type tag, for example FileShare or BuildResult.
	Type string `json:"type" jsonschema:"minLength=1"`
	// Settings describe the component and the accepted versions.
	Settings map[string]string `json:"settings,omitempty"`
}

// Setting names understood in the settings of a declaration.
const (
	SettingComponentName      = "ComponentName"
	SettingVersionNumber      = "VersionNumber"
	SettingServerRootPath     = "ServerRootPath"
	SettingVersionSpec        = "VersionSpec"
	SettingTeamProjectName    = "TeamProjectName"
	SettingBuildDefinition    = "BuildDefinition"
	SettingBuildNumber        = "BuildNumber"
	SettingBuildStatus        = "BuildStatus"
	SettingBuildQuality       = "BuildQuality"
	SettingBuildTags          = "BuildTags"
	SettingSubversionPath     = "SubversionPath"
	SettingRelativeOutputPath = "RelativeOutputPath"
	SettingIncludeFilter      = "IncludeFilter"
	SettingExcludeFilter      = "ExcludeFilter"
)

// ProviderType parses the type tag of the declaration.
func (d Declaration) ProviderType() (component.ProviderType, error) {
	return component.ParseProviderType(d.Type)
}

// ComponentSettings returns the settings as case-insensitive component
// settings.
func (d Declaration) ComponentSettings() component.Settings {
	return component.NewSettings(d.Settings)
}

// NewPlaceholder creates a declaration of the given provider type. The
// settings are copied.
func NewPlaceholder(typ component.ProviderType, settings map[string]string) Declaration {
	d := Declaration{Type: typ.String()}
	if len(settings) > 0 {
		d.Settings = make(map[string]string, len(settings))
		for k, v := range settings {
			d.Settings[k] = v
		}
	}
	return d
}

// DeclarationFor creates a declaration that resolves exactly to the given
// component. Settings of the component that do not describe its identity,
// such as filters and output paths, are carried over.
func DeclarationFor(c *component.Component) (Declaration, error) {
	if c.Type == component.ProviderLocal || c.Type == component.ProviderUnknown {
		return Declaration{}, fmt.Errorf("%w: %s component %s cannot be declared as a dependency", component.ErrInvalidComponent, c.Type, c)
	}
	settings := make(map[string]string)
	for _, key := range []string{SettingRelativeOutputPath, SettingIncludeFilter, SettingExcludeFilter} {
		if v, ok := c.Settings.Lookup(key); ok {
			settings[key] = v
		}
	}

	switch name := c.Name.(type) {
	case component.SimpleName:
		settings[SettingComponentName] = name.Name
		settings[SettingVersionNumber] = c.Version.String()
		if c.Type == component.ProviderFileShare {
			if root, ok := c.Settings.Lookup(component.RootSettingFileShare); ok {
				settings[component.RootSettingFileShare] = root
			}
		}
	case component.PathName:
		if c.Type == component.ProviderSubversion {
			settings[SettingSubversionPath] = name.ServerPath
			settings[SettingVersionNumber] = c.Version.String()
		} else {
			settings[SettingServerRootPath] = name.ServerPath
			settings[SettingVersionSpec] = c.Version.String()
		}
	case component.BuildCoordinate:
		settings[SettingTeamProjectName] = name.TeamProject
		settings[SettingBuildDefinition] = name.BuildDefinition
		settings[SettingBuildNumber] = c.Version.String()
	default:
		return Declaration{}, fmt.Errorf("%w: unsupported name %T", component.ErrInvalidComponent, c.Name)
	}
	return NewPlaceholder(c.Type, settings), nil
}

// Pin returns a document declaring the direct dependencies of the graph root
// at the versions they were resolved to.
func Pin(g *component.Graph) (*Document, error) {
	doc := &Document{Name: g.Root().Name.String()}
	for _, c := range g.Flatten(component.FlattenOptions{}) {
		decl, err := DeclarationFor(c)
		if err != nil {
			return nil, err
		}
		doc.Dependencies = append(doc.Dependencies, decl)
	}
	return doc, nil
}
