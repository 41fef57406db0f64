package version

import (
	"encoding/json"
	"fmt"
	"io"
	goruntime "runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/cli/internal/flags/enum"
)

const (
	FlagFormat                = "format"
	FlagFormatShortHand       = "f"
	FlagFormatJSON            = "json"
	FlagFormatShort           = "short"
	FlagFormatGoBuildInfo     = "gobuildinfo"
	FlagFormatGoBuildInfoJSON = "gobuildinfojson"
)

// BuildVersion overrides the module version of the build info when set at
// build time with
//
//	-ldflags "-X depmgr.software/dependency-manager/cli/cmd/version.BuildVersion=1.2.3"
var BuildVersion = "n/a"

// Info is the build version split into its semantic version parts.
type Info struct {
	Major      string `json:"major"`
	Minor      string `json:"minor"`
	Patch      string `json:"patch"`
	PreRelease string `json:"prerelease,omitempty"`
	Meta       string `json:"meta,omitempty"`
	GitVersion string `json:"gitVersion"`
	GitCommit  string `json:"gitCommit,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	GoVersion  string `json:"goVersion"`
	Compiler   string `json:"compiler"`
	Platform   string `json:"platform"`
}

// GetInfo derives Info from the build info. Versions that are no semantic
// versions are reported as is with a 0.0.0 version core.
func GetInfo(bi *debug.BuildInfo) Info {
	info := Info{
		GoVersion: goruntime.Version(),
		Compiler:  goruntime.Compiler,
		Platform:  fmt.Sprintf("%s/%s", goruntime.GOOS, goruntime.GOARCH),
	}
	v, err := semver.NewVersion(bi.Main.Version)
	if err != nil {
		info.GitVersion = bi.Main.Version
		info.Major, info.Minor, info.Patch = "0", "0", "0"
		return info
	}
	info.GitVersion = v.String()
	info.Meta = v.Metadata()
	if info.PreRelease = v.Prerelease(); info.PreRelease != "" {
		// pseudo versions carry <date>-<commit> in the prerelease
		info.BuildDate, info.GitCommit, _ = strings.Cut(info.PreRelease, "-")
	}
	info.Major = strconv.FormatUint(v.Major(), 10)
	info.Minor = strconv.FormatUint(v.Minor(), 10)
	info.Patch = strconv.FormatUint(v.Patch(), 10)
	return info
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Retrieve the build version of the depmgr CLI",
		Long: fmt.Sprintf(`The version command retrieves the build version of the depmgr CLI.

%[1]q prints the version split into its semantic version parts as JSON,
%[2]q only prints the version string,
%[3]q prints the Go build information and %[4]q the same information as JSON.`,
			FlagFormatJSON, FlagFormatShort, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON),
		Example: fmt.Sprintf(`depmgr version --format %s`, FlagFormatShort),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := enum.Get(cmd.Flags(), FlagFormat)
			if err != nil {
				return err
			}
			bi, ok := debug.ReadBuildInfo()
			if !ok {
				return fmt.Errorf("no build info available")
			}
			if BuildVersion != "n/a" {
				bi.Main.Version = BuildVersion
			}
			out := cmd.OutOrStdout()
			switch format {
			case FlagFormatJSON:
				return json.NewEncoder(out).Encode(GetInfo(bi))
			case FlagFormatShort:
				_, err = fmt.Fprintln(out, GetInfo(bi).GitVersion)
				return err
			case FlagFormatGoBuildInfo:
				_, err = io.WriteString(out, bi.String())
				return err
			default:
				return json.NewEncoder(out).Encode(bi)
			}
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	enum.VarP(cmd.Flags(), FlagFormat, FlagFormatShortHand,
		[]string{FlagFormatJSON, FlagFormatShort, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON},
		"format of the printed version")
	return cmd
}
