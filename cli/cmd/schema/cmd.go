package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"depmgr.software/dependency-manager/bindings/go/definition"
	cliCmd "depmgr.software/dependency-manager/cli/cmd/internal/cmd"
	"depmgr.software/dependency-manager/cli/internal/flags/enum"
	"depmgr.software/dependency-manager/cli/internal/render"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of dependency definition documents",
		Args:  cobra.NoArgs,
		Example: `  depmgr schema > depmgr.schema.json
  depmgr schema --output yaml`,
		RunE:              Run,
		DisableAutoGenTag: true,
	}
	enum.VarP(cmd.Flags(), cliCmd.OutputFlag, cliCmd.OutputFlagShorthand, []string{
		render.OutputFormatJSON.String(),
		render.OutputFormatYAML.String(),
	}, "output format of the schema")
	return cmd
}

func Run(cmd *cobra.Command, _ []string) error {
	format, err := cliCmd.OutputFormat(cmd)
	if err != nil {
		return err
	}
	data, err := definition.Schema()
	if err != nil {
		return fmt.Errorf("generating schema failed: %w", err)
	}
	switch format {
	case render.OutputFormatYAML:
		if data, err = yaml.JSONToYAML(data); err != nil {
			return err
		}
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		data = append(buf.Bytes(), '\n')
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
