package settings_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

func TestParseKey(t *testing.T) {
	r := require.New(t)
	for _, k := range settings.Keys() {
		parsed, err := settings.ParseKey(strings.ToLower(k.String()))
		r.NoError(err)
		r.Equal(k, parsed)
	}
	_, err := settings.ParseKey("NoSuchSetting")
	r.ErrorIs(err, settings.ErrUnknownKey)
}

func TestDecode(t *testing.T) {
	r := require.New(t)

	s, err := settings.Decode(strings.NewReader(`
type: settings.depmgr.software/v1
settings:
  fileShareRootPath: /srv/share
  DependencyDefinitionFileNameList: "component.targets; component.yaml"
`))
	r.NoError(err)
	r.Equal("/srv/share", s.Get(settings.FileShareRootPath))
	r.Equal([]string{"component.targets", "component.yaml"}, s.DefinitionFileNames())

	_, err = settings.Decode(strings.NewReader(`{"type":"other/v1"}`))
	r.Error(err)

	_, err = settings.Decode(strings.NewReader("type: settings.depmgr.software\nsettings:\n  Bogus: x\n"))
	r.ErrorIs(err, settings.ErrUnknownKey)

	_, err = settings.Decode(strings.NewReader("type: settings.depmgr.software\nextra: true\n"))
	r.Error(err)
}

func TestLoadFileAndEncode(t *testing.T) {
	r := require.New(t)
	in := settings.Settings{
		settings.FileShareRootPath:                "/srv/share",
		settings.DependencyDefinitionFileNameList: "component.yaml",
	}
	var buf bytes.Buffer
	r.NoError(settings.Encode(&buf, in))

	path := filepath.Join(t.TempDir(), "config")
	r.NoError(os.WriteFile(path, buf.Bytes(), 0o600))

	out, err := settings.LoadFile(path)
	r.NoError(err)
	r.Equal(in, out)

	_, err = settings.LoadFile(filepath.Join(t.TempDir(), "missing"))
	r.ErrorIs(err, os.ErrNotExist)
}

func TestMergeLaterWins(t *testing.T) {
	base := settings.Settings{settings.FileShareRootPath: "a", settings.WorkspaceName: "ws"}
	override := settings.Settings{settings.FileShareRootPath: "b"}

	merged := settings.Merge(base, override)
	assert.Equal(t, "b", merged.Get(settings.FileShareRootPath))
	assert.Equal(t, "ws", merged.Get(settings.WorkspaceName))
	assert.Equal(t, "a", base.Get(settings.FileShareRootPath))
}

func TestParseOverrides(t *testing.T) {
	s, err := settings.ParseOverrides([]string{"FileShareRootPath=/a=b", "workspacename=ws"})
	require.NoError(t, err)
	assert.Equal(t, "/a=b", s.Get(settings.FileShareRootPath))
	assert.Equal(t, "ws", s.Get(settings.WorkspaceName))

	_, err = settings.ParseOverrides([]string{"FileShareRootPath"})
	assert.Error(t, err)
}

func TestRequiredSettings(t *testing.T) {
	service := settings.Settings{
		settings.DependencyDefinitionFileNameList: "component.yaml",
		settings.TeamProjectCollectionUrl:         "https://tfs.example.com/tfs",
	}

	tests := []struct {
		typ         component.ProviderType
		declaration map[string]string
		missing     []settings.Key
	}{
		{component.ProviderBuildResult, nil, nil},
		{component.ProviderFileShare, nil, []settings.Key{settings.FileShareRootPath}},
		{component.ProviderFileShare, map[string]string{"filesharerootpath": "/share"}, nil},
		{component.ProviderSourceControl, nil, []settings.Key{settings.WorkspaceName, settings.WorkspaceOwner}},
		{component.ProviderBinaryRepository, nil, []settings.Key{settings.BinaryTeamProjectCollectionUrl, settings.BinaryRepositoryTeamProject}},
		{component.ProviderSubversion, map[string]string{"SubversionRootPath": " "}, []settings.Key{settings.SubversionRootPath}},
	}
	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			assert.Equal(t, tc.missing, service.Missing(tc.typ, component.NewSettings(tc.declaration)))
		})
	}
}

func TestEffective(t *testing.T) {
	service := settings.Settings{
		settings.DependencyDefinitionFileNameList: "component.yaml",
		settings.FileShareRootPath:                "/service",
		settings.WorkspaceName:                    "ignored",
	}
	declaration := component.NewSettings(map[string]string{"ComponentName": "lib", "FileShareRootPath": "/declared"})

	effective := service.Effective(component.ProviderFileShare, declaration)
	assert.Equal(t, "/declared", effective.Get("FileShareRootPath"))
	assert.Equal(t, "component.yaml", effective.Get("DependencyDefinitionFileNameList"))
	_, ok := effective.Lookup("WorkspaceName")
	assert.False(t, ok)
	assert.Equal(t, 2, declaration.Len())
}

func TestEffectiveIgnoresBlankDeclarationValues(t *testing.T) {
	service := settings.Settings{
		settings.DependencyDefinitionFileNameList: "component.yaml",
		settings.TeamProjectCollectionUrl:         "https://tfs.example.com/tfs/Default",
	}
	declaration := component.NewSettings(map[string]string{"TeamProjectCollectionUrl": "  "})

	assert.Empty(t, service.Missing(component.ProviderBuildResult, declaration))
	effective := service.Effective(component.ProviderBuildResult, declaration)
	assert.Equal(t, "https://tfs.example.com/tfs/Default", effective.Get("TeamProjectCollectionUrl"))
	assert.Equal(t, "  ", declaration.Get("TeamProjectCollectionUrl"))
}

func TestConcurrency(t *testing.T) {
	assert.Equal(t, 4, settings.Settings{}.Concurrency(4))
	assert.Equal(t, 2, settings.Settings{settings.DownloadConcurrency: "2"}.Concurrency(4))
	assert.Equal(t, 4, settings.Settings{settings.DownloadConcurrency: "-1"}.Concurrency(4))
}
