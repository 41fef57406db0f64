package component

// DetectCycles searches the graph for circular dependencies with a three
// color depth first search starting at the root. Every edge pointing back to
// a component that is still being visited yields one validation error
// carrying the chain that closes the cycle.
func DetectCycles(g *Graph) []*ValidationError {
	d, err := g.directedGraph()
	if err != nil {
		// vertex IDs are unique positions, so building the dag cannot fail
		panic(err)
	}

	var result []*ValidationError
	for _, cycle := range d.Cycles(0) {
		path := make([]*Component, 0, len(cycle))
		for _, id := range cycle {
			path = append(path, d.Vertices[id].Attributes[attributeComponent].(*Component))
		}
		result = append(result, &ValidationError{
			Kind:    ValidationCircularDependency,
			Message: "circular dependency detected: " + FormatChain(path),
			Path:    path,
		})
	}
	return result
}
