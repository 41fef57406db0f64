package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/resolver"
)

func TestRegistry(t *testing.T) {
	r := require.New(t)
	reg := resolver.NewRegistry()

	p := resolver.ProviderFunc(func(context.Context, component.Settings) (resolver.Resolver, error) {
		return nil, resolver.ErrInvalidProviderConfiguration
	})

	r.NoError(reg.Register(component.ProviderSubversion, p))
	r.NoError(reg.Register(component.ProviderFileShare, p))
	r.Error(reg.Register(component.ProviderFileShare, p))
	r.Error(reg.Register(component.ProviderBuildResult, nil))
	r.Panics(func() { reg.MustRegister(component.ProviderFileShare, p) })

	got, err := reg.Get(component.ProviderFileShare)
	r.NoError(err)
	_, err = got.GetResolver(t.Context(), component.Settings{})
	r.ErrorIs(err, resolver.ErrInvalidProviderConfiguration)

	_, err = reg.Get(component.ProviderBinaryRepository)
	r.ErrorIs(err, resolver.ErrNoProvider)

	r.Equal([]component.ProviderType{component.ProviderFileShare, component.ProviderSubversion}, reg.Types())
}
