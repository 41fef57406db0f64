package dag

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddVertex(t *testing.T) {
	r := require.New(t)
	d := NewDirectedGraph[string]()

	r.NoError(d.AddVertex("A", map[string]any{"key": "1"}))
	r.Error(d.AddVertex("A", map[string]any{"key": "2"}), "duplicate node ids are forbidden")

	r.Len(d.Vertices, 1)
	r.Equal("1", d.Vertices["A"].Attributes["key"])

	r.NoError(d.AddVertex("B"))
	r.Len(d.Vertices, 2)
}

func TestAddEdge(t *testing.T) {
	r := require.New(t)
	d := NewDirectedGraph[string]()
	for _, id := range []string{"A", "B", "C"} {
		r.NoError(d.AddVertex(id))
	}
	r.Error(d.AddEdge("A", "X"))
	r.Error(d.AddEdge("X", "A"))

	r.NoError(d.AddEdge("A", "C"))
	r.NoError(d.AddEdge("A", "B", map[string]any{"key": "1"}))
	r.NoError(d.AddEdge("A", "B", map[string]any{"other": "2"}))

	t.Run("degrees", func(t *testing.T) {
		r := require.New(t)
		r.Equal(2, d.Vertices["A"].OutDegree)
		r.Equal(0, d.Vertices["A"].InDegree)
		r.Equal(1, d.Vertices["B"].InDegree)
		r.Equal(1, d.Vertices["C"].InDegree)
	})

	t.Run("attributes are merged", func(t *testing.T) {
		r := require.New(t)
		r.Equal("1", d.Vertices["A"].Edges["B"]["key"])
		r.Equal("2", d.Vertices["A"].Edges["B"]["other"])
		r.Equal(1, d.Vertices["A"].Edges["B"][AttributeOrderIndex])
	})

	t.Run("neighbors keep insertion order", func(t *testing.T) {
		r := require.New(t)
		r.Equal([]string{"C", "B"}, d.Neighbors("A"))
		r.Empty(d.Neighbors("B"))
		r.Nil(d.Neighbors("X"))
	})
}

func TestCycles(t *testing.T) {
	grid := []struct {
		name  string
		nodes string
		edges string
		roots []string
		want  []string
	}{
		{name: "acyclic", nodes: "A,B,C", edges: "A->B,B->C,A->C"},
		{name: "diamond", nodes: "A,B,C,D", edges: "A->B,A->C,B->D,C->D"},
		{name: "triangle", nodes: "A,B,C", edges: "A->B,B->C,C->A", roots: []string{"A"}, want: []string{"A,B,C,A"}},
		{name: "self reference", nodes: "A,B", edges: "A->B,B->B", roots: []string{"A"}, want: []string{"B,B"}},
		{
			name:  "two back edges",
			nodes: "R,A,B,C",
			edges: "R->A,A->B,B->A,B->C,C->R",
			roots: []string{"R"},
			want:  []string{"A,B,A", "R,A,B,C,R"},
		},
		{name: "unreachable cycle", nodes: "R,X,Y", edges: "X->Y,Y->X", roots: []string{"R"}, want: []string{"X,Y,X"}},
	}

	for _, g := range grid {
		t.Run(g.name, func(t *testing.T) {
			r := require.New(t)
			d := build(t, g.nodes, g.edges)

			var got []string
			for _, cycle := range d.Cycles(g.roots...) {
				got = append(got, strings.Join(cycle, ","))
			}
			r.Equal(g.want, got)
		})
	}
}

func TestTopologicalSort(t *testing.T) {
	grid := []struct {
		Nodes string
		Edges string
		Want  string
	}{
		{Nodes: "A,B", Want: "A,B"},
		{Nodes: "A,B", Edges: "A->B", Want: "B,A"},
		{Nodes: "A,B", Edges: "B->A", Want: "A,B"},
		{Nodes: "A,B,C,D,E,F", Edges: "C->D", Want: "A,B,D,C,E,F"},
		{Nodes: "A,B,C,D,E,F", Edges: "F->A,F->B,B->A", Want: "A,B,C,D,E,F"},
		{Nodes: "A,B,C,D,E,F", Edges: "B->A,C->A,D->B,D->C,F->E,A->E", Want: "E,A,B,C,D,F"},
	}

	for i, g := range grid {
		t.Run(fmt.Sprintf("[%d] nodes=%s,edges=%s", i, g.Nodes, g.Edges), func(t *testing.T) {
			r := require.New(t)
			d := build(t, g.Nodes, g.Edges)

			order, err := d.TopologicalSort()
			r.NoError(err, "error sorting the graph")
			r.Equal(strings.Split(g.Want, ","), order)
		})
	}

	t.Run("roots first", func(t *testing.T) {
		r := require.New(t)
		d := build(t, "A,B,C", "C->B")
		order, err := d.TopologicalSort("C")
		r.NoError(err)
		r.Equal([]string{"B", "C", "A"}, order)
	})

	t.Run("cyclic", func(t *testing.T) {
		r := require.New(t)
		d := build(t, "A,B,C", "A->B,B->C,C->A")
		_, err := d.TopologicalSort()
		var cerr *CycleError
		r.True(errors.As(err, &cerr))
		r.Equal([]string{"A", "B", "C", "A"}, cerr.Cycle)
		r.ErrorContains(err, "A -> B -> C -> A")
	})
}

func build(t *testing.T, nodes, edges string) *DirectedGraph[string] {
	t.Helper()
	r := require.New(t)
	d := NewDirectedGraph[string]()
	for _, node := range strings.Split(nodes, ",") {
		r.NoError(d.AddVertex(node))
	}
	if edges != "" {
		for _, edge := range strings.Split(edges, ",") {
			tokens := strings.SplitN(edge, "->", 2)
			r.NoError(d.AddEdge(tokens[0], tokens[1]))
		}
	}
	return d
}
