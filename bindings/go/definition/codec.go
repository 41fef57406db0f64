package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"sigs.k8s.io/yaml"

	"depmgr.software/dependency-manager/bindings/go/runtime"
)

// ErrMalformedDocument is returned for documents that cannot be decoded or
// that do not conform to the document schema.
var ErrMalformedDocument = errors.New("malformed dependency definition document")

// Schema returns the JSON schema of a dependency definition document,
// generated from Document.
var Schema = sync.OnceValues(func() ([]byte, error) {
	return runtime.GenerateJSONSchemaForType(Document{})
})

// compiledSchema compiles the document schema once and caches it for reuse.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	const schemaFile = "dependency-definition.schema.json"
	data, err := Schema()
	if err != nil {
		return nil, err
	}
	unmarshaled, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaFile, unmarshaled); err != nil {
		return nil, fmt.Errorf("failed to add schema: %w", err)
	}
	sch, err := c.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
})

// ValidateRawYAML validates a YAML or JSON document against the schema.
func ValidateRawYAML(raw []byte) error {
	data, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if v == nil {
		// an empty file declares no dependencies
		v = map[string]any{}
	}
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return nil
}

// Decode reads and validates a document in YAML or JSON.
func Decode(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dependency definition document: %w", err)
	}
	if err := ValidateRawYAML(raw); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	for i, decl := range doc.Dependencies {
		if _, err := decl.ProviderType(); err != nil {
			return nil, fmt.Errorf("%w: dependency %d: %w", ErrMalformedDocument, i, err)
		}
	}
	return &doc, nil
}

// LoadFile decodes the document stored at path.
func LoadFile(path string) (_ *Document, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return Decode(file)
}

// Encode writes the document as YAML.
func Encode(w io.Writer, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode dependency definition document: %w", err)
	}
	_, err = w.Write(data)
	return err
}
