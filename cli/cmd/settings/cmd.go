package settings

import (
	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/bindings/go/settings"
	cliCtx "depmgr.software/dependency-manager/cli/internal/context"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the effective service settings",
		Long: `Print the service settings after merging all configuration files and
--setting flags, in the format of a settings configuration file.`,
		Example: `  depmgr settings --setting FileShareRootPath=/srv/share > ~/.depmgrconfig`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return settings.Encode(cmd.OutOrStdout(), cliCtx.FromContext(cmd.Context()).Settings())
		},
		DisableAutoGenTag: true,
	}
}
