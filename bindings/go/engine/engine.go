// Package engine builds dependency graphs.
//
// BuildGraph reads a root dependency definition document and resolves its
// declarations depth first. For every declaration the provider specific
// strategy computes the requested name and version, the resolver of the
// provider type is asked for the component and a concrete version is
// selected. Components that resolve to the same reuse key are created once;
// a reused component is not traversed again, which keeps shared sub graphs
// and cycles finite. Nested documents of new components are resolved
// recursively.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	slogcontext "github.com/veqryn/slog-context"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/runtime"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

// LocalVersion is the version of a root component that is not under
// version control and whose document does not name a version.
const LocalVersion = "local"

// Workspace tells whether a local document is under version control.
type Workspace interface {
	// ServerPath returns the server path of the directory containing the
	// document at localPath. ok is false for documents that are not under
	// version control.
	ServerPath(ctx context.Context, localPath string) (serverPath string, ok bool, err error)
}

// Engine resolves dependency graphs with the resolvers of a registry.
// An Engine holds no per call state and can be used concurrently.
type Engine struct {
	registry  *resolver.Registry
	workspace Workspace
}

type Option func(*Engine)

// WithWorkspace sets the workspace deciding whether a root document is
// version controlled. Without a workspace every root is Local.
func WithWorkspace(w Workspace) Option {
	return func(e *Engine) {
		e.workspace = w
	}
}

func New(registry *resolver.Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildGraph resolves the dependency graph of the document at
// rootDocumentPath. Every failure aborts the whole call and is returned as a
// *DependencyServiceError; no partial graph is returned.
func (e *Engine) BuildGraph(ctx context.Context, rootDocumentPath string, s settings.Settings) (*component.Graph, error) {
	logger := slogcontext.FromCtx(ctx).With(slog.String("realm", "engine"))

	path, err := filepath.Abs(rootDocumentPath)
	if err != nil {
		return nil, serviceError(component.ProviderUnknown, "", "invalid dependency definition document path "+rootDocumentPath, err)
	}
	doc, err := definition.LoadFile(path)
	if err != nil {
		msg := "failed to load dependency definition document " + path
		if errors.Is(err, fs.ErrNotExist) {
			msg = "dependency definition document " + path + " not found"
		}
		logger.ErrorContext(ctx, "loading root document failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, serviceError(component.ProviderUnknown, "", msg, err)
	}

	root, err := e.rootComponent(ctx, path, doc, s)
	if err != nil {
		logger.ErrorContext(ctx, "creating root component failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, serviceError(component.ProviderUnknown, "", "cannot create root component for "+path, err)
	}

	logger.InfoContext(ctx, "building dependency graph", slog.String("root", root.String()), slog.String("path", path))

	rc := newResolutionContext(e.registry, s)
	if err := e.resolveDocument(ctx, rc, root, doc); err != nil {
		return nil, err
	}

	g, err := component.NewGraph(root, path)
	if err != nil {
		return nil, serviceError(component.ProviderUnknown, root.String(), "cannot create graph", err)
	}
	logger.InfoContext(ctx, "dependency graph built",
		slog.String("root", root.String()),
		slog.Int("components", len(rc.nodes)),
	)
	return g, nil
}

// rootComponent creates the root from the document location. A version
// controlled document yields a SourceControl root at the workspace version,
// all others a Local root. Name and version of the document override the
// derived ones.
func (e *Engine) rootComponent(ctx context.Context, path string, doc *definition.Document, s settings.Settings) (*component.Component, error) {
	typ := component.ProviderLocal
	var name component.Name = component.SimpleName{Name: filepath.Base(filepath.Dir(path))}
	var version component.Version = component.ExactVersion{Value: LocalVersion}

	if e.workspace != nil {
		serverPath, ok, err := e.workspace.ServerPath(ctx, path)
		if err != nil {
			return nil, err
		}
		if ok {
			spec, err := component.ParseVersionSpec("", s.Get(settings.WorkspaceName), s.Get(settings.WorkspaceOwner))
			if err != nil {
				return nil, err
			}
			typ = component.ProviderSourceControl
			name = component.PathName{ServerPath: serverPath}
			version = component.SourceControlVersion{Spec: spec}
		}
	}

	if doc.Name != "" {
		if typ == component.ProviderLocal {
			name = component.SimpleName{Name: doc.Name}
		} else {
			name = component.PathName{ServerPath: doc.Name}
		}
	}
	if doc.Version != "" {
		version = component.ExactVersion{Value: doc.Version}
	}
	return component.New(typ, name, version, component.Settings{})
}

// resolveDocument resolves all declarations of doc in order and adds the
// resulting edges as successors of source.
func (e *Engine) resolveDocument(ctx context.Context, rc *resolutionContext, source *component.Component, doc *definition.Document) error {
	rc.push(source)
	defer rc.pop()
	for _, decl := range doc.Dependencies {
		dep, err := e.resolve(ctx, rc, source, decl)
		if err != nil {
			return err
		}
		if err := source.AddSuccessor(dep); err != nil {
			return serviceError(component.ProviderUnknown, source.String(), "cannot add dependency", err)
		}
	}
	return nil
}

// resolve resolves a single declaration of source and returns the edge to
// the resolved component.
func (e *Engine) resolve(ctx context.Context, rc *resolutionContext, source *component.Component, decl definition.Declaration) (*component.Dependency, error) {
	logger := slogcontext.FromCtx(ctx).With(
		slog.String("realm", "engine"),
		slog.String("type", decl.Type),
		slog.String("chain", rc.chain()),
	)
	fail := func(typ component.ProviderType, comp, msg string, err error) (*component.Dependency, error) {
		logger.ErrorContext(ctx, msg, slog.String("component", comp), slog.String("error", err.Error()))
		return nil, serviceError(typ, comp, msg, err)
	}

	if err := ctx.Err(); err != nil {
		return fail(component.ProviderUnknown, "", "resolution canceled", err)
	}

	typ, err := decl.ProviderType()
	if err != nil {
		return fail(component.ProviderUnknown, "", "unsupported dependency type "+decl.Type, err)
	}
	strat, err := strategyFor(typ)
	if err != nil {
		return fail(typ, "", "unsupported dependency type "+decl.Type, err)
	}

	declared := decl.ComponentSettings()
	if missing := rc.settings.Missing(typ, declared); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, key := range missing {
			names[i] = key.String()
		}
		return fail(typ, "", "cannot resolve dependency", fmt.Errorf("%w: %s", ErrMissingSettings, strings.Join(names, ", ")))
	}
	effective := rc.settings.Effective(typ, declared)
	if err := validateConnectorURLs(typ, effective); err != nil {
		return fail(typ, "", "malformed connector URL", err)
	}

	name, requested, err := strat.expect(effective)
	if err != nil {
		return fail(typ, "", "invalid dependency declaration", err)
	}
	expected, err := component.New(typ, name, requested, effective)
	if err != nil {
		return fail(typ, "", "invalid dependency declaration", err)
	}
	logger = logger.With(slog.String("component", expected.String()))
	logger.DebugContext(ctx, "resolving dependency")

	res, err := rc.resolver(ctx, typ, effective)
	if err != nil {
		return fail(typ, expected.String(), "cannot connect to provider", err)
	}

	exists, err := res.ComponentExists(ctx, name)
	if err != nil {
		return fail(typ, expected.String(), "cannot query component "+name.String(), err)
	}
	if !exists {
		return fail(typ, expected.String(), "component "+name.String()+" not found", resolver.ErrNotFound)
	}

	used, err := strat.selectVersion(ctx, res, name, requested)
	if err != nil {
		return fail(typ, expected.String(), "cannot select version of "+name.String(), err)
	}

	comp, err := component.New(typ, name, used, effective)
	if err != nil {
		return fail(typ, expected.String(), "invalid resolved component", err)
	}

	if existing, ok := rc.lookup(comp); ok {
		logger.DebugContext(ctx, "reusing resolved component", slog.String("resolved", existing.String()))
		comp = existing
	} else {
		rc.add(comp)
		nested, err := res.LoadDefinition(ctx, name, used)
		if err != nil {
			return fail(typ, comp.String(), "cannot load dependency definition document of "+comp.String(), err)
		}
		if nested != nil {
			if err := e.resolveDocument(ctx, rc, comp, nested); err != nil {
				return nil, err
			}
		}
		logger.InfoContext(ctx, "resolved dependency", slog.String("resolved", comp.String()))
	}

	dep, err := component.NewDependency(source, comp, requested)
	if err != nil {
		return fail(typ, comp.String(), "cannot create dependency", err)
	}
	if err := comp.AddPredecessor(dep); err != nil {
		return fail(typ, comp.String(), "cannot create dependency", err)
	}
	return dep, nil
}

// validateConnectorURLs checks that the URL settings required by typ parse.
func validateConnectorURLs(typ component.ProviderType, effective component.Settings) error {
	for _, key := range settings.RequiredFor(typ) {
		if key != settings.TeamProjectCollectionUrl && key != settings.BinaryTeamProjectCollectionUrl {
			continue
		}
		value := effective.Get(key.String())
		if _, err := runtime.EndpointIdentity(value); err != nil {
			return fmt.Errorf("%w: %s %q: %w", resolver.ErrInvalidProviderConfiguration, key, value, err)
		}
	}
	return nil
}
