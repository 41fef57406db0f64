package engine

import (
	"context"
	"fmt"
	"strings"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/resolver"
)

// Wildcard matches any version, or as suffix any version with the preceding
// prefix.
const Wildcard = "*"

func notInExpectedVersion(name component.Name, requested component.Version) error {
	return fmt.Errorf("%s not found in expected version %s: %w", name, requested, resolver.ErrNotFound)
}

func notInCompatibleVersion(name component.Name, requested component.Version) error {
	return fmt.Errorf("%s not found in a compatible version for %s: %w", name, requested, resolver.ErrNotFound)
}

// selectExactVersion accepts the requested version only if it exists.
func selectExactVersion(ctx context.Context, res resolver.Resolver, name component.Name, requested component.Version) (component.Version, error) {
	exists, err := res.ComponentVersionExists(ctx, name, requested)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notInExpectedVersion(name, requested)
	}
	return requested, nil
}

// selectFileShareVersion prefers an exact match. Otherwise a requested
// version of "*" selects the highest available version and a requested
// version ending in "*" selects the highest version starting with the
// prefix before it. Prefixes are compared ignoring case.
func selectFileShareVersion(ctx context.Context, res resolver.Resolver, name component.Name, requested component.Version) (component.Version, error) {
	exists, err := res.ComponentVersionExists(ctx, name, requested)
	if err != nil {
		return nil, err
	}
	if exists {
		return requested, nil
	}

	req := requested.String()
	if !strings.HasSuffix(req, Wildcard) {
		return nil, notInExpectedVersion(name, requested)
	}
	prefix := strings.ToLower(strings.TrimSuffix(req, Wildcard))

	versions, err := res.AvailableVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	for i := len(versions) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.ToLower(versions[i].String()), prefix) {
			return versions[i], nil
		}
	}
	return nil, notInCompatibleVersion(name, requested)
}

// selectBuild picks a build:
//   - without any filter the most recent build
//   - with an existing build number that build
//   - otherwise the most recent build accepted by the status, quality and
//     tag filters
//
// A build number that does not exist fails unless attribute filters are
// given.
func selectBuild(ctx context.Context, res resolver.Resolver, name component.Name, selector component.BuildSelector) (component.Version, error) {
	if selector.BuildNumber != "" {
		exists, err := res.ComponentVersionExists(ctx, name, selector)
		if err != nil {
			return nil, err
		}
		if exists {
			builds, err := availableBuilds(ctx, res, name)
			if err != nil {
				return nil, err
			}
			for _, b := range builds {
				if strings.EqualFold(b.Number, selector.BuildNumber) {
					return b, nil
				}
			}
			return component.Build{Number: selector.BuildNumber}, nil
		}
		if !selector.HasAttributeFilter() {
			return nil, notInExpectedVersion(name, selector)
		}
	}

	builds, err := availableBuilds(ctx, res, name)
	if err != nil {
		return nil, err
	}
	if selector.IsUnfiltered() {
		if len(builds) == 0 {
			return nil, notInCompatibleVersion(name, selector)
		}
		return builds[len(builds)-1], nil
	}
	for i := len(builds) - 1; i >= 0; i-- {
		if selector.Accepts(builds[i]) {
			return builds[i], nil
		}
	}
	return nil, notInCompatibleVersion(name, selector)
}

// availableBuilds lists the builds of a build definition, oldest first.
// Versions of other variants are treated as builds with that number.
func availableBuilds(ctx context.Context, res resolver.Resolver, name component.Name) ([]component.Build, error) {
	versions, err := res.AvailableVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	builds := make([]component.Build, 0, len(versions))
	for _, v := range versions {
		if b, ok := v.(component.Build); ok {
			builds = append(builds, b)
			continue
		}
		builds = append(builds, component.Build{Number: v.String()})
	}
	return builds, nil
}
