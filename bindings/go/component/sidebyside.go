package component

import (
	"fmt"
	"slices"
	"strings"
)

// DetectSideBySide groups all reachable components by their logical identity
// (provider type and name) and reports every group that contains more than
// one distinct version. Each conflicting component gets one chain per direct
// predecessor, leading along the first discovered path from the root to that
// predecessor.
func DetectSideBySide(g *Graph) []*ValidationError {
	type group struct {
		name      Name
		typ       ProviderType
		conflicts []Conflict
	}
	var order []string
	groups := make(map[string]*group)

	for _, c := range g.Flatten(FlattenOptions{IncludeRoot: true, Recursive: true}) {
		key := c.LogicalIdentity().String()
		grp, ok := groups[key]
		if !ok {
			grp = &group{name: c.Name, typ: c.Type}
			groups[key] = grp
			order = append(order, key)
		}
		idx := slices.IndexFunc(grp.conflicts, func(conflict Conflict) bool {
			return conflict.Version.Equal(c.Version)
		})
		if idx < 0 {
			grp.conflicts = append(grp.conflicts, Conflict{Version: c.Version})
			idx = len(grp.conflicts) - 1
		}
		grp.conflicts[idx].Components = append(grp.conflicts[idx].Components, c)
	}

	var parents map[*Component]*Component
	var result []*ValidationError
	for _, key := range order {
		grp := groups[key]
		if len(grp.conflicts) < 2 {
			continue
		}
		if parents == nil {
			parents = discoveryParents(g.root)
		}
		versions := make([]string, len(grp.conflicts))
		for i := range grp.conflicts {
			conflict := &grp.conflicts[i]
			versions[i] = conflict.Version.String()
			for _, c := range conflict.Components {
				conflict.Chains = append(conflict.Chains, chainsTo(parents, g.root, c)...)
			}
		}
		result = append(result, &ValidationError{
			Kind: ValidationSideBySide,
			Message: fmt.Sprintf("%s component %s is referenced in %d versions side by side: %s",
				grp.typ, grp.name, len(versions), strings.Join(versions, ", ")),
			Conflicts: grp.conflicts,
		})
	}
	return result
}

// discoveryParents runs a breadth first search from root and records for
// every reachable component the component it was first reached from.
func discoveryParents(root *Component) map[*Component]*Component {
	parents := map[*Component]*Component{root: nil}
	queue := []*Component{root}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range c.successors {
			if _, seen := parents[d.target]; !seen {
				parents[d.target] = c
				queue = append(queue, d.target)
			}
		}
	}
	return parents
}

// pathTo returns the chain from root to c along the discovery parents.
func pathTo(parents map[*Component]*Component, c *Component) []*Component {
	var chain []*Component
	for ; c != nil; c = parents[c] {
		chain = append(chain, c)
	}
	slices.Reverse(chain)
	return chain
}

// chainsTo returns one chain from root to target per distinct direct
// predecessor of target. Predecessors only reachable through target itself
// are skipped.
func chainsTo(parents map[*Component]*Component, root, target *Component) [][]*Component {
	if target == root {
		return [][]*Component{{root}}
	}
	var chains [][]*Component
	seen := make(map[*Component]bool)
	for _, d := range target.predecessors {
		if _, reachable := parents[d.source]; !reachable || seen[d.source] {
			continue
		}
		seen[d.source] = true
		chain := pathTo(parents, d.source)
		if slices.Contains(chain, target) {
			continue
		}
		chains = append(chains, append(chain, target))
	}
	return chains
}
