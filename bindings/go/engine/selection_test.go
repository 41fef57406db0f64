package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/resolver/inmemory"
)

func TestSelectFileShareVersion(t *testing.T) {
	repo := inmemory.New()
	name := component.SimpleName{Name: "lib"}
	for _, v := range []string{"1.0", "1.1", "2.0"} {
		repo.Add(name, component.ExactVersion{Value: v}, nil, nil)
	}

	tests := []struct {
		requested string
		want      string
		err       bool
	}{
		{requested: "1.0", want: "1.0"},
		{requested: "1.*", want: "1.1"},
		{requested: "*", want: "2.0"},
		{requested: "2*", want: "2.0"},
		{requested: "3.*", err: true},
		{requested: "1.5", err: true},
		{requested: "1.*.0", err: true},
	}
	for _, tc := range tests {
		t.Run(tc.requested, func(t *testing.T) {
			got, err := selectFileShareVersion(t.Context(), repo, name, component.ExactVersion{Value: tc.requested})
			if tc.err {
				require.ErrorIs(t, err, resolver.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, component.ExactVersion{Value: tc.want}, got)
		})
	}
}

func TestSelectBuild(t *testing.T) {
	repo := inmemory.New()
	name := component.BuildCoordinate{TeamProject: "Platform", BuildDefinition: "Nightly"}
	b1 := component.Build{Number: "Nightly_1", Status: "Failed"}
	b2 := component.Build{Number: "Nightly_2", Status: "Succeeded", Quality: "Release"}
	b3 := component.Build{Number: "Nightly_3", Status: "Succeeded", Quality: "Beta", Tags: []string{"rc"}}
	for _, b := range []component.Build{b1, b2, b3} {
		repo.Add(name, b, nil, nil)
	}

	tests := []struct {
		name     string
		selector component.BuildSelector
		want     component.Build
		err      bool
	}{
		{"latest without filters", component.ParseBuildSelector("", "", "", ""), b3, false},
		{"status and quality", component.ParseBuildSelector("", "succeeded", "release", ""), b2, false},
		{"status only picks the most recent", component.ParseBuildSelector("", "Succeeded", "", ""), b3, false},
		{"failed builds", component.ParseBuildSelector("", "failed", "", ""), b1, false},
		{"tag", component.ParseBuildSelector("", "succeeded", "", "RC"), b3, false},
		{"exact build number", component.ParseBuildSelector("nightly_1", "", "", ""), b1, false},
		{"missing build number", component.ParseBuildSelector("Nightly_9", "", "", ""), component.Build{}, true},
		{"missing build number falls back to filters", component.ParseBuildSelector("Nightly_9", "succeeded", "release", ""), b2, false},
		{"no compatible build", component.ParseBuildSelector("", "partiallysucceeded", "", ""), component.Build{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := selectBuild(t.Context(), repo, name, tc.selector)
			if tc.err {
				require.ErrorIs(t, err, resolver.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSelectBuildWithoutBuilds(t *testing.T) {
	repo := inmemory.New()
	name := component.BuildCoordinate{TeamProject: "Platform", BuildDefinition: "Empty"}
	_, err := selectBuild(t.Context(), repo, name, component.BuildSelector{})
	require.Error(t, err)
}

func TestSelectExactVersion(t *testing.T) {
	repo := inmemory.New()
	name := component.PathName{ServerPath: "$/Platform/Main"}
	spec := component.SourceControlVersion{Spec: component.VersionSpec{Kind: component.VersionSpecChangeset, Value: "42"}}
	repo.Add(name, spec, nil, nil)

	got, err := selectExactVersion(t.Context(), repo, name, spec)
	require.NoError(t, err)
	assert.Equal(t, spec, got)

	_, err = selectExactVersion(t.Context(), repo, name, component.SourceControlVersion{Spec: component.VersionSpec{Kind: component.VersionSpecLatest}})
	require.ErrorIs(t, err, resolver.ErrNotFound)
}
