package list

import (
	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/cli/internal/render"
)

// SerializerOption is a function that modifies the Serializer.
type SerializerOption func(*Serializer)

// WithComponentSerializer sets the ComponentSerializer of the Serializer.
func WithComponentSerializer(serializer ComponentSerializer) SerializerOption {
	return func(s *Serializer) {
		s.ComponentSerializer = serializer
	}
}

// WithComponentSerializerFunc sets the ComponentSerializer based on a function.
func WithComponentSerializerFunc(f func(c *component.Component) (any, error)) SerializerOption {
	return WithComponentSerializer(ComponentSerializerFunc(f))
}

// WithOutputFormat sets the output format of the Serializer.
func WithOutputFormat(format render.OutputFormat) SerializerOption {
	return func(s *Serializer) {
		s.OutputFormat = format
	}
}
