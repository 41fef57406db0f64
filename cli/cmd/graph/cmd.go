package graph

import (
	"fmt"

	"github.com/spf13/cobra"

	cliCmd "depmgr.software/dependency-manager/cli/cmd/internal/cmd"
	"depmgr.software/dependency-manager/cli/internal/flags/enum"
	"depmgr.software/dependency-manager/cli/internal/render"
	"depmgr.software/dependency-manager/cli/internal/render/graph/tree"
)

const FlagExpandShared = "expand-shared"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "graph {definition-file}",
		Aliases: []string{"tree"},
		Short:   "Resolve a dependency definition document and print its dependency graph",
		Args:    cobra.ExactArgs(1),
		Long: `Resolve the dependency definition document and all nested documents of its
dependencies and print the resulting graph.

Components that are reached more than once are only expanded the first time and
marked with (*) afterwards. A component closing a cycle is marked with (cycle).`,
		Example: `  depmgr graph component.yaml
  depmgr graph component.yaml --output yaml --setting FileShareRootPath=/srv/share`,
		RunE:              Run,
		DisableAutoGenTag: true,
	}
	enum.VarP(cmd.Flags(), cliCmd.OutputFlag, cliCmd.OutputFlagShorthand, []string{
		render.OutputFormatTree.String(),
		render.OutputFormatJSON.String(),
		render.OutputFormatYAML.String(),
	}, "output format of the dependency graph")
	cmd.Flags().Bool(FlagExpandShared, false, "expand the dependencies of a component every time it is reached")
	return cmd
}

func Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := cliCmd.Service(cmd)
	if err != nil {
		return err
	}
	format, err := cliCmd.OutputFormat(cmd)
	if err != nil {
		return err
	}
	expand, err := cmd.Flags().GetBool(FlagExpandShared)
	if err != nil {
		return fmt.Errorf("getting expand-shared flag failed: %w", err)
	}

	g, err := svc.BuildGraph(ctx, args[0])
	if err != nil {
		return err
	}
	cliCmd.LogValidationErrors(cmd, g)

	if format == render.OutputFormatTree {
		return tree.New(g, tree.WithExpandShared(expand)).Render(ctx, cmd.OutOrStdout())
	}
	return tree.Serialize(ctx, cmd.OutOrStdout(), g, format, expand)
}
