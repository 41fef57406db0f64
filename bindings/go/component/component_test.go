package component_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depmgr.software/dependency-manager/bindings/go/component"
)

func fileShare(t *testing.T, name, version, root string) *component.Component {
	t.Helper()
	settings := component.NewSettings(map[string]string{component.RootSettingFileShare: root})
	c, err := component.New(component.ProviderFileShare, component.SimpleName{Name: name}, component.ExactVersion{Value: version}, settings)
	require.NoError(t, err)
	return c
}

func link(t *testing.T, from, to *component.Component) {
	t.Helper()
	d, err := component.NewDependency(from, to, to.Version)
	require.NoError(t, err)
	require.NoError(t, from.AddSuccessor(d))
	require.NoError(t, to.AddPredecessor(d))
}

func TestNew(t *testing.T) {
	r := require.New(t)

	_, err := component.New(component.ProviderFileShare, nil, component.ExactVersion{Value: "1"}, component.Settings{})
	r.ErrorIs(err, component.ErrInvalidComponent)

	_, err = component.New(component.ProviderFileShare, component.SimpleName{Name: "a"}, nil, component.Settings{})
	r.ErrorIs(err, component.ErrInvalidComponent)

	c, err := component.New(component.ProviderFileShare, component.SimpleName{Name: "Lib"}, component.ExactVersion{Value: "1.0"}, component.Settings{})
	r.NoError(err)
	r.Equal("Lib#1.0", c.String())
	r.Equal("FileShare:lib#1.0", c.Key())
}

func TestNewDependency(t *testing.T) {
	a := fileShare(t, "a", "1", "")
	b := fileShare(t, "b", "1", "")

	tests := []struct {
		name           string
		source, target *component.Component
		version        component.Version
	}{
		{"missing source", nil, b, b.Version},
		{"missing target", a, nil, b.Version},
		{"missing version", a, b, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := component.NewDependency(tc.source, tc.target, tc.version)
			require.ErrorIs(t, err, component.ErrInvalidComponent)
		})
	}

	d, err := component.NewDependency(a, b, b.Version)
	require.NoError(t, err)
	assert.Same(t, a, d.Source())
	assert.Same(t, b, d.Target())
}

func TestAddEdgesRequireEndpoint(t *testing.T) {
	r := require.New(t)
	a := fileShare(t, "a", "1", "")
	b := fileShare(t, "b", "1", "")
	c := fileShare(t, "c", "1", "")

	d, err := component.NewDependency(a, b, b.Version)
	r.NoError(err)
	r.ErrorIs(c.AddSuccessor(d), component.ErrInvalidComponent)
	r.ErrorIs(c.AddPredecessor(d), component.ErrInvalidComponent)
	r.NoError(a.AddSuccessor(d))
	r.NoError(b.AddPredecessor(d))

	r.Len(a.Successors(), 1)
	r.Len(b.Predecessors(), 1)
	r.Empty(a.Predecessors())
}

func TestEqualIgnoresCase(t *testing.T) {
	a := fileShare(t, "Lib", "1.0", "")
	b := fileShare(t, "lib", "1.0", "")
	c := fileShare(t, "lib", "2.0", "")

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))

	sc, err := component.New(component.ProviderSubversion, component.PathName{ServerPath: "Lib"}, component.ExactVersion{Value: "1.0"}, component.Settings{})
	require.NoError(t, err)
	assert.False(t, a.Equal(sc), "provider type is part of the identity")
}

func TestReuseKeyIsIndependentOfKey(t *testing.T) {
	a := fileShare(t, "lib", "1.0", `\\share\one`)
	b := fileShare(t, "lib", "1.0", `\\share\two`)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.ReuseKey().String(), b.ReuseKey().String())
	assert.Equal(t, `\\share\one/lib`, a.ReuseKey()["path"])
}

func TestReuseKeyOfBuilds(t *testing.T) {
	name := component.BuildCoordinate{TeamProject: "Proj", BuildDefinition: "Nightly"}
	selected, err := component.New(component.ProviderBuildResult, name, component.Build{Number: "Nightly_1", Status: "Succeeded"}, component.Settings{})
	require.NoError(t, err)
	requested, err := component.New(component.ProviderBuildResult, name, component.BuildSelector{BuildNumber: "nightly_1"}, component.Settings{})
	require.NoError(t, err)

	assert.Equal(t, selected.ReuseKey(), requested.ReuseKey())
	assert.Equal(t, "nightly_1", selected.ReuseKey()["buildNumber"])
}

func TestLogicalIdentityIgnoresVersion(t *testing.T) {
	a := fileShare(t, "Lib", "1.0", "")
	b := fileShare(t, "lib", "2.0", "")
	assert.True(t, a.LogicalIdentity().Equal(b.LogicalIdentity()))
}

func TestSettingsIgnoreCase(t *testing.T) {
	r := require.New(t)
	var s component.Settings
	s.Set("FileShareRootPath", "one")
	s.Set("filesharerootpath", "two")

	r.Equal(1, s.Len())
	r.Equal("two", s.Get("FILESHAREROOTPATH"))
	r.Equal([]string{"FileShareRootPath"}, s.Keys())

	clone := s.Clone()
	clone.Set("other", "x")
	r.Equal(1, s.Len())

	_, ok := s.Lookup("missing")
	r.False(ok)

	data, err := s.MarshalJSON()
	r.NoError(err)
	r.JSONEq(`{"FileShareRootPath":"two"}`, string(data))
}

func TestParseProviderType(t *testing.T) {
	r := require.New(t)
	for _, typ := range component.ProviderTypes() {
		parsed, err := component.ParseProviderType(typ.String())
		r.NoError(err)
		r.Equal(typ, parsed)
	}
	parsed, err := component.ParseProviderType("fileshare")
	r.NoError(err)
	r.Equal(component.ProviderFileShare, parsed)

	_, err = component.ParseProviderType("Local")
	r.ErrorIs(err, component.ErrInvalidComponent)
	_, err = component.ParseProviderType("ftp")
	r.ErrorIs(err, component.ErrInvalidComponent)

	r.True(component.ProviderSourceControlCopy.IsSourceControl())
	r.False(component.ProviderSubversion.IsSourceControl())
	r.True(component.ProviderVNextBuildResult.IsBuildResult())
}
