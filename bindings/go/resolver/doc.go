// Package resolver defines the capability the resolution engine uses to query
// a backend for components, their versions and their nested dependency
// definition documents.
//
// A [Provider] is registered per [component.ProviderType] in a [Registry] and
// creates a [Resolver] from the settings of a dependency declaration.
// Concrete backends live in sub packages:
//
//   - inmemory: a map backed resolver, useful for tests and embedding
//   - filesystem: a file share laid out as <root>/<component>/<version>/
package resolver
