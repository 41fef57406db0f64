package runtime_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depmgr.software/dependency-manager/bindings/go/runtime"
)

func TestIdentityString(t *testing.T) {
	a := runtime.Identity{"path": "$/a,b", "type": "FileShare", "version": "1.0"}
	b := runtime.Identity{"version": "1.0", "type": "FileShare", "path": "$/a,b"}
	c := runtime.Identity{"path": "$/a", "type": "FileShare", "version": "b,version=1.0"}

	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a.String(), c.String(), "separators inside values must not collide")
	assert.Equal(t, "path=%24%2Fa%2Cb,type=FileShare,version=1.0", a.String())
	assert.Empty(t, runtime.Identity{}.String())
	assert.True(t, a.Equal(b))
	assert.True(t, a.Clone().Equal(a))
}

func TestEndpointIdentity(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    runtime.Identity
		wantErr bool
	}{
		{
			name: "collection url",
			uri:  "https://tfs.example.com:8080/tfs/DefaultCollection",
			want: runtime.Identity{
				runtime.IdentityAttributeScheme:   "https",
				runtime.IdentityAttributeHostname: "tfs.example.com",
				runtime.IdentityAttributePort:     "8080",
				runtime.IdentityAttributePath:     "tfs/DefaultCollection",
			},
		},
		{
			name: "no scheme",
			uri:  "tfs.example.com",
			want: runtime.Identity{
				runtime.IdentityAttributeHostname: "tfs.example.com",
			},
		},
		{
			name: "case and trailing slash are normalized",
			uri:  " HTTP://TFS.example.com/tfs/DefaultCollection/ ",
			want: runtime.Identity{
				runtime.IdentityAttributeScheme:   "http",
				runtime.IdentityAttributeHostname: "tfs.example.com",
				runtime.IdentityAttributePath:     "tfs/DefaultCollection",
			},
		},
		{
			name:    "path only",
			uri:     "/tfs/DefaultCollection",
			wantErr: true,
		},
		{
			name:    "malformed",
			uri:     "http://[::1",
			wantErr: true,
		},
		{
			name:    "empty",
			uri:     "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runtime.EndpointIdentity(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateJSONSchemaForType(t *testing.T) {
	type sample struct {
		Name     string            `json:"name"`
		Settings map[string]string `json:"settings,omitempty"`
	}

	_, err := runtime.GenerateJSONSchemaForType(nil)
	require.Error(t, err)

	raw, err := runtime.GenerateJSONSchemaForType(&sample{})
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	assert.Equal(t, "object", schema["type"])
	assert.NotContains(t, schema, "$id")
	assert.Equal(t, []any{"name"}, schema["required"])
	assert.Contains(t, schema["properties"], "settings")
}
