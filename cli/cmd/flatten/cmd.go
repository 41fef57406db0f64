package flatten

import (
	"fmt"

	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/definition"
	cliCmd "depmgr.software/dependency-manager/cli/cmd/internal/cmd"
	"depmgr.software/dependency-manager/cli/internal/flags/enum"
	"depmgr.software/dependency-manager/cli/internal/render"
	"depmgr.software/dependency-manager/cli/internal/render/graph/list"
)

const (
	FlagIncludeRoot = "include-root"
	FlagDirect      = "direct"
	FlagOrder       = "order"
	FlagPin         = "pin"

	OrderDiscovery   = "discovery"
	OrderTopological = "topological"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flatten {definition-file}",
		Aliases: []string{"list", "ls"},
		Short:   "Resolve a dependency definition document and list the distinct components of its graph",
		Args:    cobra.ExactArgs(1),
		Long: fmt.Sprintf(`Resolve the dependency definition document and list every distinct component
of the graph once.

With the %[1]q order, components are listed in depth first order of discovery.
With the %[2]q order, every component is listed after the components it
depends on. Topological ordering fails for graphs with circular dependencies.

With --%[3]s, a dependency definition document declaring the direct
dependencies with their resolved versions is printed instead.`, OrderDiscovery, OrderTopological, FlagPin),
		Example: `  depmgr flatten component.yaml --order topological
  depmgr flatten component.yaml --pin > component.pinned.yaml`,
		RunE:              Run,
		DisableAutoGenTag: true,
	}
	enum.VarP(cmd.Flags(), cliCmd.OutputFlag, cliCmd.OutputFlagShorthand, []string{
		render.OutputFormatTable.String(),
		render.OutputFormatJSON.String(),
		render.OutputFormatNDJSON.String(),
		render.OutputFormatYAML.String(),
	}, "output format of the component list")
	enum.Var(cmd.Flags(), FlagOrder, []string{OrderDiscovery, OrderTopological}, "order of the listed components")
	cmd.Flags().Bool(FlagIncludeRoot, false, "include the root component")
	cmd.Flags().Bool(FlagDirect, false, "only list the direct dependencies of the root component")
	cmd.Flags().Bool(FlagPin, false, "print a dependency definition document pinning the resolved versions of the direct dependencies")
	return cmd
}

func Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	svc, err := cliCmd.Service(cmd)
	if err != nil {
		return err
	}
	opts := component.FlattenOptions{Recursive: true}
	if opts.IncludeRoot, err = cmd.Flags().GetBool(FlagIncludeRoot); err != nil {
		return fmt.Errorf("getting include-root flag failed: %w", err)
	}
	direct, err := cmd.Flags().GetBool(FlagDirect)
	if err != nil {
		return fmt.Errorf("getting direct flag failed: %w", err)
	}
	opts.Recursive = !direct
	pin, err := cmd.Flags().GetBool(FlagPin)
	if err != nil {
		return fmt.Errorf("getting pin flag failed: %w", err)
	}
	order, err := enum.Get(cmd.Flags(), FlagOrder)
	if err != nil {
		return err
	}
	format, err := cliCmd.OutputFormat(cmd)
	if err != nil {
		return err
	}

	g, err := svc.BuildGraph(ctx, args[0])
	if err != nil {
		return err
	}
	cliCmd.LogValidationErrors(cmd, g)

	if pin {
		doc, err := definition.Pin(g)
		if err != nil {
			return fmt.Errorf("pinning dependencies failed: %w", err)
		}
		return definition.Encode(cmd.OutOrStdout(), doc)
	}

	components := g.Flatten(opts)
	if order == OrderTopological {
		if components, err = topological(g, components); err != nil {
			return err
		}
	}
	return list.NewSerializer(list.WithOutputFormat(format)).Serialize(cmd.OutOrStdout(), components)
}

// topological orders selected by the topological order of g.
func topological(g *component.Graph, selected []*component.Component) ([]*component.Component, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	keep := make(map[*component.Component]bool, len(selected))
	for _, c := range selected {
		keep[c] = true
	}
	result := make([]*component.Component, 0, len(selected))
	for _, c := range order {
		if keep[c] {
			result = append(result, c)
		}
	}
	return result, nil
}
