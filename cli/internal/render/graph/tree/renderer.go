// Package tree renders a dependency graph as an indented tree.
package tree

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/cli/internal/render/graph"
)

const (
	// MarkerCycle is appended to a component that closes a cycle.
	MarkerCycle = " (cycle)"
	// MarkerShared is appended to a component with dependencies that was
	// already rendered further up, unless shared subtrees are expanded.
	MarkerShared = " (*)"
)

// Renderer renders a component.Graph starting at its root.
// The output looks like this:
//
//	── service#local (Local)
//	   ├─ logging#1.1 (FileShare) [requested 1.*]
//	   │  ╰─ base#2.0 (FileShare)
//	   ╰─ base#2.0 (FileShare)
//
// Successors are rendered in declaration order.
type Renderer struct {
	listWriter   list.Writer
	serializer   Serializer
	expandShared bool
	graph        *component.Graph
}

// Serializer renders a single component. via is the edge the component was
// reached through and nil for the root. It MUST NOT modify the component.
type Serializer interface {
	Serialize(c *component.Component, via *component.Dependency) (string, error)
}

type SerializerFunc func(c *component.Component, via *component.Dependency) (string, error)

func (f SerializerFunc) Serialize(c *component.Component, via *component.Dependency) (string, error) {
	return f(c, via)
}

// New creates a Renderer for g.
func New(g *component.Graph, opts ...RendererOption) *Renderer {
	options := &RendererOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Serializer == nil {
		options.Serializer = SerializerFunc(func(c *component.Component, via *component.Dependency) (string, error) {
			return graph.Label(c, via), nil
		})
	}
	return &Renderer{
		listWriter:   list.NewWriter(),
		serializer:   options.Serializer,
		expandShared: options.ExpandShared,
		graph:        g,
	}
}

// Render writes the tree to writer.
func (t *Renderer) Render(ctx context.Context, writer io.Writer) error {
	t.listWriter.SetStyle(list.StyleConnectedRounded)
	defer t.listWriter.Reset()

	onPath := make(map[*component.Component]bool)
	rendered := make(map[*component.Component]bool)
	if err := t.traverse(ctx, t.graph.Root(), nil, onPath, rendered); err != nil {
		return fmt.Errorf("failed to traverse graph: %w", err)
	}
	t.listWriter.SetOutputMirror(writer)
	t.listWriter.Render()
	return nil
}

func (t *Renderer) traverse(ctx context.Context, c *component.Component, via *component.Dependency, onPath, rendered map[*component.Component]bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	item, err := t.serializer.Serialize(c, via)
	if err != nil {
		return fmt.Errorf("failed to serialize component %s: %w", c, err)
	}

	successors := c.Successors()
	switch {
	case onPath[c]:
		t.listWriter.AppendItem(item + MarkerCycle)
		return nil
	case rendered[c] && !t.expandShared && len(successors) > 0:
		t.listWriter.AppendItem(item + MarkerShared)
		return nil
	}
	t.listWriter.AppendItem(item)

	rendered[c] = true
	onPath[c] = true
	defer delete(onPath, c)

	for _, dep := range successors {
		t.listWriter.Indent()
		if err := t.traverse(ctx, dep.Target(), dep, onPath, rendered); err != nil {
			return err
		}
		t.listWriter.UnIndent()
	}
	return nil
}
