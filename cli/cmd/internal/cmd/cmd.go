package cmd

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/bindings/go/component"
	"depmgr.software/dependency-manager/bindings/go/service"
	cliCtx "depmgr.software/dependency-manager/cli/internal/context"
	"depmgr.software/dependency-manager/cli/internal/flags/enum"
	"depmgr.software/dependency-manager/cli/internal/render"
)

const (
	// SettingFlag overrides a single service setting as key=value. It can be
	// repeated and takes precedence over the configuration files.
	SettingFlag = "setting"
	// OutputFlag selects the output format of a command.
	OutputFlag = "output"
	// OutputFlagShorthand is the shorthand of OutputFlag.
	OutputFlagShorthand = "o"
)

// OutputFormat returns the parsed value of the OutputFlag of cmd.
func OutputFormat(cmd *cobra.Command) (render.OutputFormat, error) {
	value, err := enum.Get(cmd.Flags(), OutputFlag)
	if err != nil {
		return 0, err
	}
	return render.ParseOutputFormat(value)
}

// Service returns the service set up by the pre run hook of cmd.
func Service(cmd *cobra.Command) (*service.Service, error) {
	svc := cliCtx.FromContext(cmd.Context()).Service()
	if svc == nil {
		return nil, fmt.Errorf("no service available for command %q", cmd.Name())
	}
	return svc, nil
}

// LogValidationErrors logs every anomaly of g as a warning.
func LogValidationErrors(cmd *cobra.Command, g *component.Graph) {
	for _, verr := range slices.Concat(g.CircularDependencies(), g.SideBySideDependencies()) {
		slog.WarnContext(cmd.Context(), verr.Message, slog.String("kind", verr.Kind.String()))
	}
}
