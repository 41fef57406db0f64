// Package component contains the data model of a resolved dependency graph.
//
// A [Component] is identified by its [ProviderType], its [Name] and its
// [Version]. Components are connected by [Dependency] edges and the whole
// structure is wrapped by a [Graph], which offers flattening and the two
// validation passes: [DetectCycles] and [DetectSideBySide].
//
// Names and versions are closed sets of variants, one per provider family:
//
//	SimpleName       file share and binary repository components
//	PathName         source control and subversion components
//	BuildCoordinate  build result components
//
//	ExactVersion          plain version strings
//	SourceControlVersion  version control specifiers such as C1234 or T
//	BuildSelector         filters used to pick a build
//	Build                 a concrete build returned by a build resolver
package component
