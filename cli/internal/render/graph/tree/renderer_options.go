package tree

import "depmgr.software/dependency-manager/bindings/go/component"

// RendererOptions defines the options for the tree Renderer.
type RendererOptions struct {
	// Serializer renders a component into a tree item.
	Serializer Serializer
	// ExpandShared renders the subtree of a component every time it is
	// reached instead of only the first time.
	ExpandShared bool
}

// RendererOption is a function that modifies the RendererOptions.
type RendererOption func(*RendererOptions)

// WithSerializer sets the Serializer for the Renderer.
func WithSerializer(serializer Serializer) RendererOption {
	return func(opts *RendererOptions) {
		opts.Serializer = serializer
	}
}

// WithSerializerFunc sets the Serializer based on a function.
func WithSerializerFunc(f func(c *component.Component, via *component.Dependency) (string, error)) RendererOption {
	return WithSerializer(SerializerFunc(f))
}

// WithExpandShared sets RendererOptions.ExpandShared.
func WithExpandShared(expand bool) RendererOption {
	return func(opts *RendererOptions) {
		opts.ExpandShared = expand
	}
}
