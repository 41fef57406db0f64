package component

import (
	"errors"
	"fmt"
	"sync"

	"depmgr.software/dependency-manager/bindings/go/dag"
)

// attributeComponent is the dag vertex attribute holding the *Component.
const attributeComponent = "component"

// FlattenOptions controls which components Flatten returns.
type FlattenOptions struct {
	// IncludeRoot adds the root component to the result.
	IncludeRoot bool
	// Recursive returns every reachable component instead of only the
	// direct successors of the root.
	Recursive bool
}

// Graph is the resolved dependency graph of a root component. It is frozen
// on construction: the edges of reachable components can no longer be
// modified, so all derived views are computed at most once and are safe for
// concurrent readers.
type Graph struct {
	root *Component
	path string

	circular   func() []*ValidationError
	sideBySide func() []*ValidationError

	mu        sync.Mutex
	flattened map[FlattenOptions][]*Component
}

// NewGraph wraps the root component of a resolved graph and the path of the
// dependency definition document it was resolved from.
func NewGraph(root *Component, path string) (*Graph, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: graph root is required", ErrInvalidComponent)
	}
	if len(root.predecessors) > 0 {
		return nil, fmt.Errorf("%w: graph root %s must not have predecessors", ErrInvalidComponent, root)
	}
	g := &Graph{
		root:      root,
		path:      path,
		flattened: make(map[FlattenOptions][]*Component),
	}
	for _, c := range g.Flatten(FlattenOptions{IncludeRoot: true, Recursive: true}) {
		c.frozen = true
	}
	g.circular = sync.OnceValue(func() []*ValidationError {
		return DetectCycles(g)
	})
	g.sideBySide = sync.OnceValue(func() []*ValidationError {
		return DetectSideBySide(g)
	})
	return g, nil
}

func (g *Graph) Root() *Component { return g.root }

// Path is the location of the dependency definition document of the root.
func (g *Graph) Path() string { return g.path }

// CircularDependencies returns one validation error per cycle in the graph.
// The result is computed on first use and the same slice is returned on
// every later call.
func (g *Graph) CircularDependencies() []*ValidationError {
	return g.circular()
}

// SideBySideDependencies returns one validation error per logical component
// that is reachable in more than one version. The result is computed on
// first use and the same slice is returned on every later call.
func (g *Graph) SideBySideDependencies() []*ValidationError {
	return g.sideBySide()
}

// Flatten returns the distinct components reachable from the root in depth
// first order. Shared sub graphs and cycles are visited only once.
func (g *Graph) Flatten(opts FlattenOptions) []*Component {
	g.mu.Lock()
	defer g.mu.Unlock()
	if cached, ok := g.flattened[opts]; ok {
		return cached
	}

	visited := map[*Component]bool{g.root: true}
	result := []*Component{g.root}

	if opts.Recursive {
		var walk func(c *Component)
		walk = func(c *Component) {
			for _, d := range c.successors {
				if visited[d.target] {
					continue
				}
				visited[d.target] = true
				result = append(result, d.target)
				walk(d.target)
			}
		}
		walk(g.root)
	} else {
		for _, d := range g.root.successors {
			if !visited[d.target] {
				visited[d.target] = true
				result = append(result, d.target)
			}
		}
	}

	if !opts.IncludeRoot {
		result = result[1:]
	}
	g.flattened[opts] = result
	return result
}

// TopologicalOrder returns all reachable components so that every component
// comes after the components it depends on. It fails on cyclic graphs.
func (g *Graph) TopologicalOrder() ([]*Component, error) {
	d, err := g.directedGraph()
	if err != nil {
		return nil, err
	}
	order, err := d.TopologicalSort(0)
	if err != nil {
		var cerr *dag.CycleError
		if errors.As(err, &cerr) {
			return nil, fmt.Errorf("cannot order graph of %s: %w", g.root, err)
		}
		return nil, err
	}
	components := make([]*Component, 0, len(order))
	for _, id := range order {
		components = append(components, d.Vertices[id].Attributes[attributeComponent].(*Component))
	}
	return components, nil
}

// directedGraph converts the graph into a dag keyed by the position of each
// component in the recursive flattening. The root has ID 0.
func (g *Graph) directedGraph() (*dag.DirectedGraph[int], error) {
	components := g.Flatten(FlattenOptions{IncludeRoot: true, Recursive: true})
	ids := make(map[*Component]int, len(components))
	d := dag.NewDirectedGraph[int]()
	for i, c := range components {
		ids[c] = i
		if err := d.AddVertex(i, map[string]any{attributeComponent: c}); err != nil {
			return nil, err
		}
	}
	for _, c := range components {
		for _, dep := range c.successors {
			if err := d.AddEdge(ids[c], ids[dep.target]); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}
