// # Modified from https://github.com/kro-run/kro/blob/7e437f2fe159a1e1c59d8eefd2bfa55320df4489/pkg/graph/dag/dag.go under Apache 2.0 License
//
// Original License:
//
// Copyright 2025 The Kube Resource Orchestrator Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"). You may
// not use this file except in compliance with the License. A copy of the
// License is located at
//
//     http://aws.amazon.com/apache2.0/
//
// or in the "license" file accompanying this file. This file is distributed
// on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
// express or implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package dag provides a small directed graph used to analyse resolved
// dependency graphs. Unlike a strict DAG it accepts cyclic edges, because
// dependency graphs are only known to be acyclic after they were validated.
package dag

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// AttributeOrderIndex is the edge attribute holding the insertion order of an
// edge relative to its siblings.
const AttributeOrderIndex = "dag/order-index"

// Vertex represents a node/vertex in a directed graph.
type Vertex[T cmp.Ordered] struct {
	// ID is a unique identifier for the node
	ID T
	// Attributes stores the attributes of the node, such as the component
	// it was created for.
	Attributes map[string]any
	// Edges stores the IDs of the nodes that this node has an outgoing edge to.
	Edges map[T]map[string]any

	InDegree, OutDegree int
}

// DirectedGraph represents a directed graph that may contain cycles.
type DirectedGraph[T cmp.Ordered] struct {
	// Vertices stores the nodes in the graph
	Vertices map[T]*Vertex[T]
}

// NewDirectedGraph creates a new directed graph.
func NewDirectedGraph[T cmp.Ordered]() *DirectedGraph[T] {
	return &DirectedGraph[T]{
		Vertices: make(map[T]*Vertex[T]),
	}
}

// AddVertex adds a new node to the graph.
func (d *DirectedGraph[T]) AddVertex(id T, attributes ...map[string]any) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("node %v already exists", id)
	}
	d.Vertices[id] = &Vertex[T]{
		ID:         id,
		Attributes: make(map[string]any),
		Edges:      make(map[T]map[string]any),
	}

	for _, attributes := range attributes {
		maps.Copy(d.Vertices[id].Attributes, attributes)
	}
	return nil
}

type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("the graph contains a cycle: %s", formatCycle(e.Cycle))
}

func formatCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}

// AddEdge adds a directed edge from one node to another.
// Adding an edge that already exists only merges the attributes.
// Self references and cycles are accepted; use Cycles to detect them.
func (d *DirectedGraph[T]) AddEdge(from, to T, attributes ...map[string]any) error {
	fromNode, fromExists := d.Vertices[from]
	toNode, toExists := d.Vertices[to]
	if !fromExists {
		return fmt.Errorf("node %v does not exist", from)
	}
	if !toExists {
		return fmt.Errorf("node %v does not exist", to)
	}

	if _, exists := fromNode.Edges[to]; !exists {
		fromNode.Edges[to] = map[string]any{
			AttributeOrderIndex: fromNode.OutDegree,
		}
		fromNode.OutDegree++
		toNode.InDegree++
	}

	for _, attributes := range attributes {
		maps.Copy(fromNode.Edges[to], attributes)
	}

	return nil
}

// Neighbors returns the targets of all outgoing edges of id in insertion
// order. Edges without an order index are sorted after indexed ones by ID.
func (d *DirectedGraph[T]) Neighbors(id T) []T {
	node, ok := d.Vertices[id]
	if !ok {
		return nil
	}
	neighbors := slices.Collect(maps.Keys(node.Edges))
	slices.SortFunc(neighbors, func(a, b T) int {
		ia, aok := node.Edges[a][AttributeOrderIndex].(int)
		ib, bok := node.Edges[b][AttributeOrderIndex].(int)
		switch {
		case aok && bok:
			return cmp.Compare(ia, ib)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return cmp.Compare(a, b)
		}
	})
	return neighbors
}

// TopologicalSort orders the vertices so that every vertex comes after all
// vertices it has an edge to (leaves first). Traversal starts at the given
// roots in order, then continues with the remaining vertices sorted by ID.
func (d *DirectedGraph[T]) TopologicalSort(roots ...T) ([]T, error) {
	if cycles := d.Cycles(roots...); len(cycles) > 0 {
		return nil, &CycleError{
			Cycle: formatIDs(cycles[0]),
		}
	}

	visited := make(map[T]bool)
	var order []T

	var dfs func(T)
	dfs = func(node T) {
		visited[node] = true
		for _, neighbor := range d.Neighbors(node) {
			if !visited[neighbor] {
				dfs(neighbor)
			}
		}
		order = append(order, node)
	}

	for _, node := range append(slices.Clone(roots), d.GetVertices()...) {
		if _, ok := d.Vertices[node]; ok && !visited[node] {
			dfs(node)
		}
	}

	return order, nil
}

// GetVertices returns the nodes in the graph in sorted order.
func (d *DirectedGraph[T]) GetVertices() []T {
	return slices.Sorted(maps.Keys(d.Vertices))
}

// Cycles runs a three-color depth first search and returns one path per
// back-edge found. Each path starts and ends with the vertex the back-edge
// points to. The search starts at the given roots in order and afterwards
// visits all vertices that were not reached yet.
func (d *DirectedGraph[T]) Cycles(roots ...T) [][]T {
	const (
		white = iota
		gray
		black
	)
	color := make(map[T]int, len(d.Vertices))
	var stack []T
	var cycles [][]T

	var dfs func(T)
	dfs = func(node T) {
		color[node] = gray
		stack = append(stack, node)

		for _, neighbor := range d.Neighbors(node) {
			switch color[neighbor] {
			case white:
				dfs(neighbor)
			case gray:
				start := slices.Index(stack, neighbor)
				cycle := slices.Clone(stack[start:])
				cycles = append(cycles, append(cycle, neighbor))
			}
		}

		stack = stack[:len(stack)-1]
		color[node] = black
	}

	for _, node := range append(slices.Clone(roots), d.GetVertices()...) {
		if _, ok := d.Vertices[node]; ok && color[node] == white {
			dfs(node)
		}
	}

	return cycles
}

func formatIDs[T cmp.Ordered](ids []T) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, fmt.Sprintf("%v", id))
	}
	return out
}
