package cleanup

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"depmgr.software/dependency-manager/bindings/go/download"
	cliCmd "depmgr.software/dependency-manager/cli/cmd/internal/cmd"
	"depmgr.software/dependency-manager/cli/internal/flags/enum"
	"depmgr.software/dependency-manager/cli/internal/flags/file"
	"depmgr.software/dependency-manager/cli/internal/render"
)

const FlagDefinition = "definition"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cleanup {target-directory}",
		Aliases: []string{"clean"},
		Short:   "Remove previously downloaded components from a directory",
		Args:    cobra.ExactArgs(1),
		Long: fmt.Sprintf(`Remove the files recorded in %[1]q of the target directory.

Files that were modified after the download are kept and reported. Directories
that become empty are removed. With --%[2]s, only the files of the components
in the dependency graph of that document are removed.`, download.WatermarkFileName, FlagDefinition),
		Example: `  depmgr cleanup ./dependencies
  depmgr cleanup ./dependencies --definition component.yaml`,
		RunE:              Run,
		DisableAutoGenTag: true,
	}
	enum.VarP(cmd.Flags(), cliCmd.OutputFlag, cliCmd.OutputFlagShorthand, []string{
		render.OutputFormatTable.String(),
		render.OutputFormatJSON.String(),
		render.OutputFormatYAML.String(),
	}, "output format of the cleanup result")
	file.Var(cmd.Flags(), FlagDefinition, "dependency definition document whose components are removed")
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
	definition, err := file.Get(cmd.Flags(), FlagDefinition)
	if err != nil {
		return err
	}

	var result *download.CleanupResult
	if !definition.IsSet() {
		result, err = svc.Cleanup(ctx, args[0])
	} else {
		g, buildErr := svc.BuildGraph(ctx, definition.Path())
		if buildErr != nil {
			return buildErr
		}
		result, err = svc.CleanupGraphAsync(ctx, g, args[0]).Wait(ctx)
	}
	if err != nil {
		return fmt.Errorf("cleaning up %s failed: %w", args[0], err)
	}
	for _, modified := range result.Modified {
		slog.WarnContext(ctx, "kept modified file", slog.String("path", modified))
	}
	return encode(cmd.OutOrStdout(), format, result)
}

func encode(out io.Writer, format render.OutputFormat, result *download.CleanupResult) error {
	switch format {
	case render.OutputFormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = out.Write(append(data, '\n'))
		return err
	case render.OutputFormatYAML:
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case render.OutputFormatTable:
		_, err := fmt.Fprintf(out, "removed %d, kept %d modified, %d already missing\n",
			len(result.Removed), len(result.Modified), len(result.Missing))
		return err
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}
