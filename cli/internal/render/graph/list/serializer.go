// Package list serializes a flat list of components, for example a flattened
// or topologically ordered graph, in one of the render output formats.
package list

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"sigs.k8s.io/yaml"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/cli/internal/render"
	"depmgr.software/dependency-manager/cli/internal/render/graph"
)

// Serializer writes components in its OutputFormat.
type Serializer struct {
	// ComponentSerializer converts a component into a serializable object
	// for the JSON, NDJSON and YAML formats.
	ComponentSerializer ComponentSerializer
	// OutputFormat is one of JSON, NDJSON, YAML and Table.
	OutputFormat render.OutputFormat
}

type ComponentSerializer interface {
	Serialize(c *component.Component) (any, error)
}

type ComponentSerializerFunc func(c *component.Component) (any, error)

func (f ComponentSerializerFunc) Serialize(c *component.Component) (any, error) {
	return f(c)
}

func NewSerializer(opts ...SerializerOption) Serializer {
	serializer := Serializer{}
	for _, opt := range opts {
		opt(&serializer)
	}
	if serializer.ComponentSerializer == nil {
		serializer.ComponentSerializer = ComponentSerializerFunc(func(c *component.Component) (any, error) {
			return graph.NewRow(c), nil
		})
	}
	if serializer.OutputFormat == 0 {
		serializer.OutputFormat = render.OutputFormatJSON
	}
	return serializer
}

func (s Serializer) Serialize(writer io.Writer, components []*component.Component) error {
	if s.OutputFormat == render.OutputFormatTable {
		return serializeTable(writer, components)
	}

	list := make([]any, 0, len(components))
	for _, c := range components {
		obj, err := s.ComponentSerializer.Serialize(c)
		if err != nil {
			return fmt.Errorf("failed to serialize component %s: %w", c, err)
		}
		list = append(list, obj)
	}
	switch s.OutputFormat {
	case render.OutputFormatJSON:
		data, err := json.MarshalIndent(list, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling components to JSON failed: %w", err)
		}
		if _, err = writer.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing JSON data to writer failed: %w", err)
		}
	case render.OutputFormatNDJSON:
		encoder := json.NewEncoder(writer)
		for _, v := range list {
			if err := encoder.Encode(v); err != nil {
				return fmt.Errorf("encoding component failed: %w", err)
			}
		}
	case render.OutputFormatYAML:
		data, err := yaml.Marshal(list)
		if err != nil {
			return fmt.Errorf("marshalling components to YAML failed: %w", err)
		}
		if _, err = writer.Write(data); err != nil {
			return fmt.Errorf("writing YAML data to writer failed: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %q", s.OutputFormat)
	}
	return nil
}

func serializeTable(writer io.Writer, components []*component.Component) error {
	t := table.NewWriter()
	t.SetOutputMirror(writer)
	t.AppendHeader(table.Row{"Component", "Version", "Type"})
	for _, c := range components {
		row := graph.NewRow(c)
		t.AppendRow(table.Row{row.Name, row.Version, row.Type})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return nil
}
