package check

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"depmgr.software/dependency-manager/bindings/go/component"
	cliCmd "depmgr.software/dependency-manager/cli/cmd/internal/cmd"
	"depmgr.software/dependency-manager/cli/internal/flags/enum"
	"depmgr.software/dependency-manager/cli/internal/render"
)

// ErrAnomaliesFound is returned when the graph has circular or side-by-side
// dependencies.
var ErrAnomaliesFound = errors.New("dependency graph has anomalies")

// Issue is the serializable form of a component.ValidationError.
type Issue struct {
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	Path      []string   `json:"path,omitempty"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

type Conflict struct {
	Version string     `json:"version"`
	Chains  [][]string `json:"chains"`
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "check {definition-file}",
		Aliases: []string{"validate"},
		Short:   "Check the dependency graph of a dependency definition document for circular and side-by-side dependencies",
		Args:    cobra.ExactArgs(1),
		Long: `Resolve the dependency definition document and report

- circular dependencies, printed as the chain of components closing the cycle
- side-by-side dependencies, components reachable in more than one version,
  printed with every dependency chain introducing each version

The command fails if any anomaly was found.`,
		Example:           `  depmgr check component.yaml --output json`,
		RunE:              Run,
		DisableAutoGenTag: true,
	}
	enum.VarP(cmd.Flags(), cliCmd.OutputFlag, cliCmd.OutputFlagShorthand, []string{
		render.OutputFormatTable.String(),
		render.OutputFormatJSON.String(),
		render.OutputFormatYAML.String(),
	}, "output format of the found anomalies")
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
	g, err := svc.BuildGraph(ctx, args[0])
	if err != nil {
		return err
	}

	verrs := slices.Concat(g.CircularDependencies(), g.SideBySideDependencies())
	if err := encode(cmd.OutOrStdout(), format, verrs); err != nil {
		return err
	}
	if len(verrs) > 0 {
		return fmt.Errorf("%w: %d found", ErrAnomaliesFound, len(verrs))
	}
	return nil
}

// NewIssue converts a validation error into an Issue.
func NewIssue(verr *component.ValidationError) Issue {
	issue := Issue{Kind: verr.Kind.String(), Message: verr.Message}
	if len(verr.Path) > 0 {
		issue.Path = names(verr.Path)
	}
	for _, c := range verr.Conflicts {
		conflict := Conflict{Version: c.Version.String()}
		for _, chain := range c.Chains {
			conflict.Chains = append(conflict.Chains, names(chain))
		}
		issue.Conflicts = append(issue.Conflicts, conflict)
	}
	return issue
}

func names(chain []*component.Component) []string {
	out := make([]string, len(chain))
	for i, c := range chain {
		out[i] = c.String()
	}
	return out
}

func encode(w io.Writer, format render.OutputFormat, verrs []*component.ValidationError) error {
	issues := make([]Issue, 0, len(verrs))
	for _, verr := range verrs {
		issues = append(issues, NewIssue(verr))
	}
	var data []byte
	var err error
	switch format {
	case render.OutputFormatJSON:
		if data, err = json.MarshalIndent(issues, "", "  "); err == nil {
			data = append(data, '\n')
		}
	case render.OutputFormatYAML:
		data, err = yaml.Marshal(issues)
	case render.OutputFormatTable:
		data = encodeTable(verrs)
	default:
		err = fmt.Errorf("unsupported output format: %q", format)
	}
	if err != nil {
		return fmt.Errorf("encoding anomalies as %s failed: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

func encodeTable(verrs []*component.ValidationError) []byte {
	var buf bytes.Buffer
	if len(verrs) == 0 {
		buf.WriteString("no circular or side-by-side dependencies found\n")
		return buf.Bytes()
	}
	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.AppendHeader(table.Row{"Kind", "Component", "Version", "Chain"})
	for _, verr := range verrs {
		switch verr.Kind {
		case component.ValidationCircularDependency:
			t.AppendRow(table.Row{verr.Kind, verr.Path[0].Name, verr.Path[0].Version, component.FormatChain(verr.Path)})
		case component.ValidationSideBySide:
			for _, c := range verr.Conflicts {
				name := c.Components[0].Name
				for _, chain := range c.Chains {
					t.AppendRow(table.Row{verr.Kind, name, c.Version, component.FormatChain(chain)})
				}
			}
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 2, AutoMerge: true},
	})
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()
	return buf.Bytes()
}
