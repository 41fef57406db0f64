package settings

import (
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"

	"depmgr.software/dependency-manager/bindings/go/component"
)

var ErrUnknownKey = errors.New("unknown setting")

// Settings are the service settings of a resolution run.
type Settings map[Key]string

// Get returns the value of key or the empty string.
func (s Settings) Get(key Key) string {
	return s[key]
}

// Lookup returns the value of key and whether it is set to a non-blank value.
func (s Settings) Lookup(key Key) (string, bool) {
	v, ok := s[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Set stores value under key and returns the settings for chaining.
func (s Settings) Set(key Key, value string) Settings {
	s[key] = value
	return s
}

// Clone returns an independent copy.
func (s Settings) Clone() Settings {
	if s == nil {
		return Settings{}
	}
	return maps.Clone(s)
}

// Merge combines settings into a new instance. Later values win.
func Merge(all ...Settings) Settings {
	merged := Settings{}
	for _, s := range all {
		maps.Copy(merged, s)
	}
	return merged
}

// DefinitionFileNames returns the entries of DependencyDefinitionFileNameList.
func (s Settings) DefinitionFileNames() []string {
	var names []string
	for _, name := range strings.Split(s.Get(DependencyDefinitionFileNameList), ";") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Concurrency returns DownloadConcurrency or def if unset or invalid.
func (s Settings) Concurrency(def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s.Get(DownloadConcurrency))); err == nil && n > 0 {
		return n
	}
	return def
}

// RequiredFor returns the keys a provider needs to resolve a component.
func RequiredFor(t component.ProviderType) []Key {
	required := []Key{DependencyDefinitionFileNameList}
	switch {
	case t.IsSourceControl():
		required = append(required, TeamProjectCollectionUrl, WorkspaceName, WorkspaceOwner)
	case t.IsBuildResult():
		required = append(required, TeamProjectCollectionUrl)
	case t == component.ProviderFileShare:
		required = append(required, FileShareRootPath)
	case t == component.ProviderBinaryRepository:
		required = append(required, BinaryTeamProjectCollectionUrl, BinaryRepositoryTeamProject)
	case t == component.ProviderSubversion:
		required = append(required, SubversionRootPath)
	}
	return required
}

// Resolve looks up key in the settings of a declaration first and falls back
// to the service settings.
func (s Settings) Resolve(key Key, declaration component.Settings) (string, bool) {
	if v, ok := declaration.Lookup(key.String()); ok && strings.TrimSpace(v) != "" {
		return v, true
	}
	return s.Lookup(key)
}

// Missing returns the keys required by provider t that are set neither in
// the declaration nor in the service settings.
func (s Settings) Missing(t component.ProviderType, declaration component.Settings) []Key {
	var missing []Key
	for _, key := range RequiredFor(t) {
		if _, ok := s.Resolve(key, declaration); !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Effective returns the declaration settings extended by the values of all
// keys provider t requires, taken from the service settings where the
// declaration leaves them unset or blank.
func (s Settings) Effective(t component.ProviderType, declaration component.Settings) component.Settings {
	effective := declaration.Clone()
	for _, key := range RequiredFor(t) {
		if v, ok := s.Resolve(key, declaration); ok {
			effective.Set(key.String(), v)
		}
	}
	return effective
}

// Map returns the settings keyed by their names.
func (s Settings) Map() map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		out[k.String()] = v
	}
	return out
}

// SortedKeys returns the set keys in declaration order.
func (s Settings) SortedKeys() []Key {
	return slices.Sorted(maps.Keys(s))
}
