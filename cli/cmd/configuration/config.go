// Package configuration discovers and loads the service settings files of
// the depmgr CLI.
package configuration

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/bindings/go/settings"
)

const (
	ConfigDirectoryName   = "depmgr"
	ConfigFileName        = ConfigDirectoryName + "/config"
	NestedConfigFileName  = ".depmgrconfig"
	ConfigEnvironmentKey  = "DEPMGR_CONFIG"
	ConfigCommandArgument = "config"
)

func RegisterConfigFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().String(ConfigCommandArgument, "", `supply service settings by a given configuration file.
By default (without this flag), settings are read and merged from the well known locations,
where later files override earlier ones:
1. The directory of the current executable:
- $EXE_DIR/depmgr/config
- $EXE_DIR/.depmgrconfig
2. The current working directory:
- $PWD/depmgr/config
- $PWD/.depmgrconfig
3. The XDG_CONFIG_HOME directory (if set), or the default XDG home ($HOME/.config), or the user's home directory
- $XDG_CONFIG_HOME/depmgr/config
- $HOME/.config/depmgr/config
- $HOME/.depmgrconfig
4. The path specified in the DEPMGR_CONFIG environment variable
Using the option, only this configuration file is used.`)
}

// GetSettingsForCommand loads the settings file given by the config flag of
// cmd or, if the flag is not set, merges the settings of all discovered files.
func GetSettingsForCommand(cmd *cobra.Command) (settings.Settings, error) {
	path, _ := cmd.Flags().GetString(ConfigCommandArgument)
	if path != "" {
		return settings.LoadFile(path)
	}
	return GetSettings(cmd), nil
}

// GetSettings merges the settings of all discovered configuration files and
// the additional paths. Files that cannot be loaded are skipped with an error
// log. Without any file the result is empty.
func GetSettings(cmd *cobra.Command, additional ...string) settings.Settings {
	ctx := cmd.Context()
	paths := append(GetConfigPaths(), additional...)
	all := make([]settings.Settings, 0, len(paths))
	for _, path := range paths {
		s, err := settings.LoadFile(path)
		if err != nil {
			slog.ErrorContext(ctx, "settings file was skipped due to an error loading it",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			continue
		}
		slog.DebugContext(ctx, "settings file was loaded successfully", slog.String("path", path))
		all = append(all, s)
	}
	return settings.Merge(all...)
}

// GetConfigPaths returns the existing configuration files in ascending order
// of precedence: executable directory, working directory, XDG or home
// directory and finally the DEPMGR_CONFIG environment variable.
func GetConfigPaths() []string {
	var paths []string
	for _, lookup := range []func() string{
		getFromExecutableDir,
		getFromWorkingDir,
		getFromXDGOrHomeDir,
		getFromEnvironment,
	} {
		if path := lookup(); path != "" && !containsFile(paths, path) {
			paths = append(paths, path)
		}
	}
	return paths
}

func getFromEnvironment() string {
	if env := os.Getenv(ConfigEnvironmentKey); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}
	return ""
}

func getFromXDGOrHomeDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		if path := checkConfigPaths(xdg, ConfigFileName); path != "" {
			return path
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if path := checkConfigPaths(filepath.Join(home, ".config"), ConfigFileName); path != "" {
			return path
		}
		if path := checkConfigPaths(home, NestedConfigFileName); path != "" {
			return path
		}
	}
	return ""
}

func getFromWorkingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return checkConfigPaths(wd, ConfigFileName, NestedConfigFileName)
	}
	return ""
}

func getFromExecutableDir() string {
	if ex, err := os.Executable(); err == nil {
		return checkConfigPaths(filepath.Dir(ex), ConfigFileName, NestedConfigFileName)
	}
	return ""
}

// checkConfigPaths returns the first of names below base that is a file.
func checkConfigPaths(base string, names ...string) string {
	for _, name := range names {
		path := filepath.Join(base, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func containsFile(paths []string, path string) bool {
	for _, p := range paths {
		if sameFile(p, path) {
			return true
		}
	}
	return false
}

func sameFile(a, b string) bool {
	ia, errA := os.Stat(a)
	ib, errB := os.Stat(b)
	if err := errors.Join(errA, errB); err != nil {
		return a == b
	}
	return os.SameFile(ia, ib)
}
