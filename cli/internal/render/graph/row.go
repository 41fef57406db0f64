// Package graph converts components of a dependency graph into the rows the
// tree and list renderers print.
package graph

import (
	"depmgr.software/dependency-manager/bindings/go/component"
)

// Row is the serializable view of a resolved component.
type Row struct {
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Type     string            `json:"type"`
	Settings map[string]string `json:"settings,omitempty"`
}

func NewRow(c *component.Component) Row {
	row := Row{
		Name:    c.Name.String(),
		Version: c.Version.String(),
		Type:    c.Type.String(),
	}
	if c.Settings.Len() > 0 {
		row.Settings = c.Settings.Map()
	}
	return row
}

// Label renders a component as "name#version (Type)". If the edge leading to
// the component requested a different version, the request is appended.
func Label(c *component.Component, via *component.Dependency) string {
	label := c.String() + " (" + c.Type.String() + ")"
	if via != nil && via.Version().String() != c.Version.String() {
		label += " [requested " + via.Version().String() + "]"
	}
	return label
}
