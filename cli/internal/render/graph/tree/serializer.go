package tree

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/cli/internal/render"
	"depmgr.software/dependency-manager/cli/internal/render/graph"
)

// Node is the nested, serializable form of the tree a Renderer prints.
type Node struct {
	graph.Row
	// Requested is the version the edge to this node asked for, if it
	// differs from the resolved version.
	Requested    string  `json:"requested,omitempty"`
	Cycle        bool    `json:"cycle,omitempty"`
	Shared       bool    `json:"shared,omitempty"`
	Dependencies []*Node `json:"dependencies,omitempty"`
}

// NewNode builds the nested tree of g. Cycles and, unless expandShared is
// set, repeated components with dependencies are cut off and flagged.
func NewNode(ctx context.Context, g *component.Graph, expandShared bool) (*Node, error) {
	onPath := make(map[*component.Component]bool)
	seen := make(map[*component.Component]bool)

	var build func(c *component.Component, via *component.Dependency) (*Node, error)
	build = func(c *component.Component, via *component.Dependency) (*Node, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		node := &Node{Row: graph.NewRow(c)}
		if via != nil && via.Version().String() != c.Version.String() {
			node.Requested = via.Version().String()
		}
		successors := c.Successors()
		switch {
		case onPath[c]:
			node.Cycle = true
			return node, nil
		case seen[c] && !expandShared && len(successors) > 0:
			node.Shared = true
			return node, nil
		}
		seen[c] = true
		onPath[c] = true
		defer delete(onPath, c)
		for _, dep := range successors {
			child, err := build(dep.Target(), dep)
			if err != nil {
				return nil, err
			}
			node.Dependencies = append(node.Dependencies, child)
		}
		return node, nil
	}
	return build(g.Root(), nil)
}

// Serialize writes the nested tree of g as JSON or YAML.
func Serialize(ctx context.Context, writer io.Writer, g *component.Graph, format render.OutputFormat, expandShared bool) error {
	node, err := NewNode(ctx, g, expandShared)
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}
	var data []byte
	switch format {
	case render.OutputFormatJSON:
		if data, err = json.MarshalIndent(node, "", "  "); err == nil {
			data = append(data, '\n')
		}
	case render.OutputFormatYAML:
		data, err = yaml.Marshal(node)
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("marshalling tree to %s failed: %w", format, err)
	}
	_, err = writer.Write(data)
	return err
}
