// Package runtime contains small building blocks shared by all packages of
// the dependency manager, such as identities and JSON schema generation.
package runtime

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

const (
	// IdentityAttributeType is the key for the provider type attribute in an identity.
	IdentityAttributeType = "type"
	// IdentityAttributeName is the key for the logical name of a component.
	IdentityAttributeName = "name"
	// IdentityAttributePath is the key for the path attribute in an identity.
	// For remote systems it is the server path of a component, for local
	// systems it can be interpreted as a local path.
	IdentityAttributePath = "path"
	// IdentityAttributeVersion is the key for the version attribute in an identity.
	IdentityAttributeVersion = "version"
	// IdentityAttributeHostname is the key for the hostname attribute in an identity.
	IdentityAttributeHostname = "hostname"
	// IdentityAttributeScheme is the key for the scheme attribute in an identity.
	IdentityAttributeScheme = "scheme"
	// IdentityAttributePort is the key for the port attribute in an identity.
	IdentityAttributePort = "port"
)

// Identity is a map that represents a set of attributes that uniquely identify
// arbitrary objects, such as a node of a dependency graph or the endpoint of a
// provider backend.
type Identity map[string]string

// Equal is a function that checks if two identities are equal.
// It compares the keys and values of both identities.
func (i Identity) Equal(o Identity) bool {
	return maps.Equal(i, o)
}

// Clone creates a deep copy of the identity.
func (i Identity) Clone() Identity {
	return maps.Clone(i)
}

// String renders the identity with sorted keys, e.g. "name=a,type=FileShare".
// Two identities are equal if and only if their strings are equal, which
// makes the result usable as a map key.
func (i Identity) String() string {
	var sb strings.Builder
	for idx, key := range slices.Sorted(maps.Keys(i)) {
		if idx > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(i[key]))
	}
	return sb.String()
}

// EndpointIdentity parses the URL of a provider backend, such as a team
// project collection, into an identity with scheme, hostname, port and path.
// A URL without a scheme is accepted. Scheme and hostname are lower-cased and
// trailing slashes of the path are dropped, so equal endpoints yield equal
// identities.
func EndpointIdentity(rawURL string) (Identity, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("endpoint url is empty")
	}
	withScheme := rawURL
	if !strings.Contains(rawURL, "://") {
		withScheme = "//" + rawURL
	}
	u, err := url.Parse(withScheme)
	if err != nil {
		return nil, err
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("endpoint url %q has no host", rawURL)
	}

	id := Identity{IdentityAttributeHostname: strings.ToLower(u.Hostname())}
	if u.Scheme != "" {
		id[IdentityAttributeScheme] = strings.ToLower(u.Scheme)
	}
	if port := u.Port(); port != "" {
		id[IdentityAttributePort] = port
	}
	if path := strings.Trim(u.Path, "/"); path != "" {
		id[IdentityAttributePath] = path
	}
	return id, nil
}
