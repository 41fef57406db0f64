package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/cli/cmd/check"
	"depmgr.software/dependency-manager/cli/cmd/cleanup"
	"depmgr.software/dependency-manager/cli/cmd/configuration"
	"depmgr.software/dependency-manager/cli/cmd/download"
	"depmgr.software/dependency-manager/cli/cmd/flatten"
	"depmgr.software/dependency-manager/cli/cmd/graph"
	cliCmd "depmgr.software/dependency-manager/cli/cmd/internal/cmd"
	"depmgr.software/dependency-manager/cli/cmd/schema"
	"depmgr.software/dependency-manager/cli/cmd/settings"
	"depmgr.software/dependency-manager/cli/cmd/setup/hooks"
	"depmgr.software/dependency-manager/cli/cmd/version"
	"depmgr.software/dependency-manager/cli/internal/flags/log"
)

// Execute runs the root command and exits with a non-zero code on failure.
// This is called by main.main().
func Execute() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depmgr [sub-command]",
		Short: "Resolve, validate and download the dependencies of a component",
		Long: `The dependency manager resolves the dependency definition document of a
component and the nested documents of all its dependencies into a dependency
graph. The graph can be printed, flattened, checked for circular and
side-by-side dependencies, and downloaded into a target directory.

Dependencies are resolved with the service settings read from the settings
configuration files and the --setting flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: hooks.PreRunE,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	configuration.RegisterConfigFlag(cmd)
	cmd.PersistentFlags().StringArray(cliCmd.SettingFlag, nil, `override a service setting as key=value, for example
--setting FileShareRootPath=/srv/share --setting DependencyDefinitionFileNameList=component.yaml`)
	log.RegisterLoggingFlags(cmd.PersistentFlags())

	cmd.AddCommand(graph.New())
	cmd.AddCommand(flatten.New())
	cmd.AddCommand(check.New())
	cmd.AddCommand(download.New())
	cmd.AddCommand(cleanup.New())
	cmd.AddCommand(schema.New())
	cmd.AddCommand(settings.New())
	cmd.AddCommand(version.New())
	return cmd
}
