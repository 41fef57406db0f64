// Package setup creates the shared state of a CLI invocation and stores it in
// the command context.
package setup

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/resolver"
	"depmgr.software/dependency-manager/bindings/go/resolver/filesystem"
	"depmgr.software/dependency-manager/bindings/go/service"
	"depmgr.software/dependency-manager/bindings/go/settings"
	"depmgr.software/dependency-manager/cli/cmd/configuration"
	cliCmd "depmgr.software/dependency-manager/cli/cmd/internal/cmd"
	cliCtx "depmgr.software/dependency-manager/cli/internal/context"
)

// Settings loads the service settings for cmd and stores them in its context.
// defaults are overridden by the configuration files, which are in turn
// overridden by the setting flags.
func Settings(cmd *cobra.Command, defaults settings.Settings) error {
	fromFiles, err := configuration.GetSettingsForCommand(cmd)
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}

	var overrides settings.Settings
	if flag := cmd.Flags().Lookup(cliCmd.SettingFlag); flag != nil && flag.Changed {
		pairs, err := cmd.Flags().GetStringArray(cliCmd.SettingFlag)
		if err != nil {
			return fmt.Errorf("could not read setting flags: %w", err)
		}
		if overrides, err = settings.ParseOverrides(pairs); err != nil {
			return err
		}
	}

	effective := settings.Merge(defaults, fromFiles, overrides)
	slog.DebugContext(cmd.Context(), "service settings loaded", slog.Any("settings", effective.Map()))
	cmd.SetContext(cliCtx.WithSettings(cmd.Context(), effective))
	return nil
}

// DefaultRegistry returns the resolvers built into the CLI.
func DefaultRegistry() *resolver.Registry {
	registry := resolver.NewRegistry()
	registry.MustRegister(component.ProviderFileShare, filesystem.Provider{})
	return registry
}

// Service creates the service for the settings in the context of cmd.
func Service(cmd *cobra.Command, registry *resolver.Registry, opts ...service.Option) error {
	s := cliCtx.FromContext(cmd.Context()).Settings()
	if s == nil {
		return fmt.Errorf("settings must be set up before the service")
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	cmd.SetContext(cliCtx.WithService(cmd.Context(), service.New(registry, s, opts...)))
	return nil
}
