package tree

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/cli/internal/render"
)

func TestNewNode(t *testing.T) {
	r := require.New(t)
	g := newGraph(t, func(root *component.Component) {
		a, b := fileShare(t, "a", "1"), fileShare(t, "b", "1")
		s, leaf := fileShare(t, "s", "1"), fileShare(t, "leaf", "1")
		link(t, root, a, "1.*")
		link(t, root, b, "")
		link(t, a, s, "")
		link(t, b, s, "")
		link(t, s, leaf, "")
		link(t, leaf, a, "")
	})

	node, err := NewNode(t.Context(), g, false)
	r.NoError(err)
	r.Equal("root", node.Name)
	r.Equal("Local", node.Type)
	r.Len(node.Dependencies, 2)

	a := node.Dependencies[0]
	r.Equal("1.*", a.Requested)
	leaf := a.Dependencies[0].Dependencies[0]
	r.Equal("leaf", leaf.Name)
	r.True(leaf.Dependencies[0].Cycle, "leaf -> a closes a cycle")

	shared := node.Dependencies[1].Dependencies[0]
	r.Equal("s", shared.Name)
	r.True(shared.Shared)
	r.Empty(shared.Dependencies)

	expanded, err := NewNode(t.Context(), g, true)
	r.NoError(err)
	r.False(expanded.Dependencies[1].Dependencies[0].Shared)
	r.Len(expanded.Dependencies[1].Dependencies[0].Dependencies, 1)
}

func TestSerialize(t *testing.T) {
	r := require.New(t)
	g := newGraph(t, func(root *component.Component) {
		link(t, root, fileShare(t, "a", "1"), "")
	})

	var buf bytes.Buffer
	r.NoError(Serialize(t.Context(), &buf, g, render.OutputFormatJSON, false))
	r.JSONEq(`{
  "name": "root",
  "version": "local",
  "type": "Local",
  "dependencies": [{"name": "a", "version": "1", "type": "FileShare"}]
}`, buf.String())

	buf.Reset()
	r.NoError(Serialize(t.Context(), &buf, g, render.OutputFormatYAML, false))
	var node Node
	r.NoError(yaml.Unmarshal(buf.Bytes(), &node))
	r.Equal("a", node.Dependencies[0].Name)

	r.Error(Serialize(t.Context(), &buf, g, render.OutputFormatTable, false))

	var decoded map[string]any
	buf.Reset()
	r.NoError(Serialize(t.Context(), &buf, g, render.OutputFormatJSON, false))
	r.NoError(json.Unmarshal(buf.Bytes(), &decoded))
	r.NotContains(decoded, "cycle")
}
