package engine

import (
	"context"
	"fmt"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

// strategy resolves the declarations of one provider family.
type strategy interface {
	// expect computes the name and the requested version of a declaration
	// from its effective settings.
	expect(s component.Settings) (component.Name, component.Version, error)
	// selectVersion picks the version to use among the versions the
	// resolver knows. Every failure means the component is not available in
	// a compatible version.
	selectVersion(ctx context.Context, res resolver.Resolver, name component.Name, requested component.Version) (component.Version, error)
}

// strategyFor returns the strategy of a provider type.
func strategyFor(typ component.ProviderType) (strategy, error) {
	switch typ {
	case component.ProviderFileShare:
		return fileShareStrategy{}, nil
	case component.ProviderBinaryRepository:
		return binaryRepositoryStrategy{}, nil
	case component.ProviderSourceControl, component.ProviderSourceControlCopy:
		return sourceControlStrategy{}, nil
	case component.ProviderBuildResult, component.ProviderVNextBuildResult:
		return buildResultStrategy{}, nil
	case component.ProviderSubversion:
		return subversionStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: provider type %s cannot be declared as a dependency", component.ErrInvalidComponent, typ)
	}
}

// required returns the trimmed value of a declaration setting.
func required(s component.Settings, key string) (string, error) {
	v, ok := s.Lookup(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: setting %s is required", component.ErrInvalidComponent, key)
	}
	return v, nil
}

type fileShareStrategy struct{}

func (fileShareStrategy) expect(s component.Settings) (component.Name, component.Version, error) {
	return simpleNameAndVersion(s)
}

func (fileShareStrategy) selectVersion(ctx context.Context, res resolver.Resolver, name component.Name, requested component.Version) (component.Version, error) {
	return selectFileShareVersion(ctx, res, name, requested)
}

type binaryRepositoryStrategy struct{}

func (binaryRepositoryStrategy) expect(s component.Settings) (component.Name, component.Version, error) {
	return simpleNameAndVersion(s)
}

func (binaryRepositoryStrategy) selectVersion(ctx context.Context, res resolver.Resolver, name component.Name, requested component.Version) (component.Version, error) {
	return selectExactVersion(ctx, res, name, requested)
}

func simpleNameAndVersion(s component.Settings) (component.Name, component.Version, error) {
	name, err := required(s, definition.SettingComponentName)
	if err != nil {
		return nil, nil, err
	}
	version, err := required(s, definition.SettingVersionNumber)
	if err != nil {
		return nil, nil, err
	}
	n, err := component.NewSimpleName(name)
	if err != nil {
		return nil, nil, err
	}
	v, err := component.NewExactVersion(version)
	if err != nil {
		return nil, nil, err
	}
	return n, v, nil
}

type sourceControlStrategy struct{}

// expect parses the version spec of the declaration. Without a spec the
// version of the configured workspace is used.
func (sourceControlStrategy) expect(s component.Settings) (component.Name, component.Version, error) {
	path, err := required(s, definition.SettingServerRootPath)
	if err != nil {
		return nil, nil, err
	}
	n, err := component.NewPathName(path)
	if err != nil {
		return nil, nil, err
	}
	spec, err := component.ParseVersionSpec(
		s.Get(definition.SettingVersionSpec),
		s.Get(settings.WorkspaceName.String()),
		s.Get(settings.WorkspaceOwner.String()),
	)
	if err != nil {
		return nil, nil, err
	}
	return n, component.SourceControlVersion{Spec: spec}, nil
}

func (sourceControlStrategy) selectVersion(ctx context.Context, res resolver.Resolver, name component.Name, requested component.Version) (component.Version, error) {
	return selectExactVersion(ctx, res, name, requested)
}

type subversionStrategy struct{}

func (subversionStrategy) expect(s component.Settings) (component.Name, component.Version, error) {
	path, err := required(s, definition.SettingSubversionPath)
	if err != nil {
		return nil, nil, err
	}
	version, err := required(s, definition.SettingVersionNumber)
	if err != nil {
		return nil, nil, err
	}
	n, err := component.NewPathName(path)
	if err != nil {
		return nil, nil, err
	}
	v, err := component.NewExactVersion(version)
	if err != nil {
		return nil, nil, err
	}
	return n, v, nil
}

func (subversionStrategy) selectVersion(ctx context.Context, res resolver.Resolver, name component.Name, requested component.Version) (component.Version, error) {
	return selectExactVersion(ctx, res, name, requested)
}

type buildResultStrategy struct{}

func (buildResultStrategy) expect(s component.Settings) (component.Name, component.Version, error) {
	teamProject, err := required(s, definition.SettingTeamProjectName)
	if err != nil {
		return nil, nil, err
	}
	buildDefinition, err := required(s, definition.SettingBuildDefinition)
	if err != nil {
		return nil, nil, err
	}
	n, err := component.NewBuildCoordinate(teamProject, buildDefinition)
	if err != nil {
		return nil, nil, err
	}
	return n, component.ParseBuildSelector(
		s.Get(definition.SettingBuildNumber),
		s.Get(definition.SettingBuildStatus),
		s.Get(definition.SettingBuildQuality),
		s.Get(definition.SettingBuildTags),
	), nil
}

func (buildResultStrategy) selectVersion(ctx context.Context, res resolver.Resolver, name component.Name, requested component.Version) (component.Version, error) {
	selector, ok := requested.(component.BuildSelector)
	if !ok {
		return nil, fmt.Errorf("%w: build results need a build selector, got %T", component.ErrInvalidComponent, requested)
	}
	return selectBuild(ctx, res, name, selector)
}
