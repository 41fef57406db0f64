package runtime

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// GenerateJSONSchemaForType takes an object and uses reflection to generate a
// JSON Schema representation for its type. The schema is anonymous (no $id)
// and the top level type is expanded in place instead of being referenced.
func GenerateJSONSchemaForType(obj any) ([]byte, error) {
	if obj == nil {
		return nil, fmt.Errorf("cannot generate JSON schema for nil object")
	}

	r := &jsonschema.Reflector{
		Anonymous:      true,
		ExpandedStruct: true,
	}

	schema, err := r.ReflectFromType(reflect.TypeOf(obj)).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to create json schema for object: %w", err)
	}

	return schema, nil
}
