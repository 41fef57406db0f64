package hooks

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/service"
	"depmgr.software/dependency-manager/bindings/go/settings"
	"depmgr.software/dependency-manager/cli/cmd/setup"
	cliCtx "depmgr.software/dependency-manager/cli/internal/context"
	"depmgr.software/dependency-manager/cli/internal/flags/log"
)

// Option configures the state created by PreRunEWithOptions.
type Option interface {
	Apply(b *Builder) error
}

type optionFunc func(*Builder) error

func (f optionFunc) Apply(b *Builder) error { return f(b) }

// Builder accumulates the options before they are applied.
type Builder struct {
	defaults       settings.Settings
	registry       *resolver.Registry
	serviceOptions []service.Option
}

// WithDefaultSetting sets a service setting that configuration files and
// setting flags can override.
func WithDefaultSetting(key settings.Key, value string) Option {
	return optionFunc(func(b *Builder) error {
		if key == settings.KeyUnknown {
			return fmt.Errorf("%w: %s", settings.ErrUnknownKey, key)
		}
		b.defaults[key] = value
		return nil
	})
}

// WithRegistry replaces the resolvers built into the CLI.
func WithRegistry(registry *resolver.Registry) Option {
	return optionFunc(func(b *Builder) error {
		b.registry = registry
		return nil
	})
}

// WithServiceOptions passes opts to the created service.
func WithServiceOptions(opts ...service.Option) Option {
	return optionFunc(func(b *Builder) error {
		b.serviceOptions = append(b.serviceOptions, opts...)
		return nil
	})
}

// PreRunE sets up the command with defaults.
func PreRunE(cmd *cobra.Command, args []string) error {
	return PreRunEWithOptions(cmd, args)
}

// PreRunEWithOptions sets up logging, the service settings and the service.
// Settings from opts are overridden by configuration files and flags.
func PreRunEWithOptions(cmd *cobra.Command, _ []string, opts ...Option) error {
	logger, err := log.GetBaseLogger(cmd)
	if err != nil {
		return fmt.Errorf("could not retrieve logger: %w", err)
	}
	slog.SetDefault(logger)
	cmd.SetContext(slogcontext.NewCtx(cmd.Context(), logger))

	b := &Builder{defaults: settings.Settings{}}
	for _, opt := range opts {
		if err := opt.Apply(b); err != nil {
			return fmt.Errorf("apply option: %w", err)
		}
	}

	cliCtx.Register(cmd)
	if err := setup.Settings(cmd, b.defaults); err != nil {
		return err
	}
	if err := setup.Service(cmd, b.registry, b.serviceOptions...); err != nil {
		return fmt.Errorf("could not set up service: %w", err)
	}

	if parent := cmd.Parent(); parent != nil {
		cmd.SetOut(parent.OutOrStdout())
		cmd.SetErr(parent.ErrOrStderr())
	}
	return nil
}
