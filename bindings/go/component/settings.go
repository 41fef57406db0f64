package component

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// Settings is a flat, case-insensitive string map of provider settings, as
// found on a declaration of a dependency definition document. Lookups ignore
// the case of the key, while the key casing of the first Set is preserved.
// The zero value is ready to use.
type Settings struct {
	entries map[string]setting
}

type setting struct {
	key   string
	value string
}

// NewSettings creates settings from a plain map.
func NewSettings(values map[string]string) Settings {
	var s Settings
	for _, k := range slices.Sorted(maps.Keys(values)) {
		s.Set(k, values[k])
	}
	return s
}

// Set stores value under key, replacing any value stored under a key that
// only differs in case.
func (s *Settings) Set(key, value string) {
	if s.entries == nil {
		s.entries = make(map[string]setting)
	}
	norm := strings.ToLower(key)
	if existing, ok := s.entries[norm]; ok {
		key = existing.key
	}
	s.entries[norm] = setting{key: key, value: value}
}

// Lookup returns the value stored for key and whether it was present.
func (s Settings) Lookup(key string) (string, bool) {
	e, ok := s.entries[strings.ToLower(key)]
	return e.value, ok
}

// Get returns the value stored for key or the empty string.
func (s Settings) Get(key string) string {
	v, _ := s.Lookup(key)
	return v
}

// Keys returns all keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		keys = append(keys, e.key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return keys
}

func (s Settings) Len() int {
	return len(s.entries)
}

// Map returns a copy of the settings as a plain map.
func (s Settings) Map() map[string]string {
	out := make(map[string]string, len(s.entries))
	for _, e := range s.entries {
		out[e.key] = e.value
	}
	return out
}

// Clone returns an independent copy.
func (s Settings) Clone() Settings {
	return Settings{entries: maps.Clone(s.entries)}
}

func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}
