package download

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"depmgr.software/dependency-manager/bindings/go/download"
	cliCmd "depmgr.software/dependency-manager/cli/cmd/internal/cmd"
	"depmgr.software/dependency-manager/cli/internal/flags/enum"
	"depmgr.software/dependency-manager/cli/internal/render"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "download {definition-file} {target-directory}",
		Aliases: []string{"get"},
		Short:   "Download all components of the dependency graph of a dependency definition document",
		Args:    cobra.ExactArgs(2),
		Long: fmt.Sprintf(`Resolve the dependency definition document and download the content of every
component of the graph into the target directory.

Components are downloaded in parallel, bounded by the DownloadConcurrency
setting. The downloaded files are recorded with their digests in %[1]q inside
the target directory, which the cleanup command uses to remove them again.
Two components providing the same file are reported as an error.`, download.WatermarkFileName),
		Example: `  depmgr download component.yaml ./dependencies
  depmgr download component.yaml ./dependencies --setting DownloadConcurrency=8`,
		RunE:              Run,
		DisableAutoGenTag: true,
	}
	enum.VarP(cmd.Flags(), cliCmd.OutputFlag, cliCmd.OutputFlagShorthand, []string{
		render.OutputFormatTable.String(),
		render.OutputFormatJSON.String(),
		render.OutputFormatYAML.String(),
	}, "output format of the downloaded files")
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

	g, err := svc.BuildGraphAsync(ctx, args[0]).Wait(ctx)
	if err != nil {
		return err
	}
	cliCmd.LogValidationErrors(cmd, g)

	watermark, err := svc.DownloadGraphAsync(ctx, g, args[1]).Wait(ctx)
	if err != nil {
		return fmt.Errorf("downloading %s failed: %w", g.Root(), err)
	}
	slog.InfoContext(ctx, "download finished", slog.Int("files", len(watermark.Entries)), slog.String("dir", args[1]))
	return EncodeWatermark(cmd.OutOrStdout(), format, watermark)
}

// EncodeWatermark writes the entries of w in format.
func EncodeWatermark(out io.Writer, format render.OutputFormat, w *download.Watermark) error {
	var data []byte
	var err error
	switch format {
	case render.OutputFormatJSON:
		if data, err = json.MarshalIndent(w.Entries, "", "  "); err == nil {
			data = append(data, '\n')
		}
	case render.OutputFormatYAML:
		data, err = yaml.Marshal(w.Entries)
	case render.OutputFormatTable:
		var buf bytes.Buffer
		t := table.NewWriter()
		t.SetOutputMirror(&buf)
		t.AppendHeader(table.Row{"Component", "Path", "Digest"})
		for _, e := range w.Entries {
			t.AppendRow(table.Row{e.Component, e.Path, e.Digest})
		}
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 1, AutoMerge: true}})
		style := table.StyleLight
		style.Options.DrawBorder = false
		t.SetStyle(style)
		t.Render()
		data = buf.Bytes()
	default:
		err = fmt.Errorf("unsupported output format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding downloaded files as %s failed: %w", format, err)
	}
	_, err = out.Write(data)
	return err
}
