package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

const (
	ConfigType   = "settings.depmgr.software"
	ConfigTypeV1 = ConfigType + "/v1"
)

// Config is the file representation of service settings.
//
//	type: settings.depmgr.software/v1
//	settings:
//	  FileShareRootPath: /srv/components
//	  DependencyDefinitionFileNameList: component.targets;component.yaml
type Config struct {
	Type     string            `json:"type"`
	Settings map[string]string `json:"settings,omitempty"`
}

// Decode reads a settings configuration in YAML or JSON.
// Unknown setting names are rejected.
func Decode(r io.Reader) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode settings configuration: %w", err)
	}
	if cfg.Type != ConfigType && cfg.Type != ConfigTypeV1 {
		return nil, fmt.Errorf("unsupported settings configuration type %q, expected %q", cfg.Type, ConfigTypeV1)
	}
	s := Settings{}
	for name, value := range cfg.Settings {
		key, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		s[key] = value
	}
	return s, nil
}

// LoadFile decodes the settings configuration stored at path.
func LoadFile(path string) (_ Settings, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()
	return Decode(file)
}

// Encode writes s as a settings configuration in YAML.
func Encode(w io.Writer, s Settings) error {
	data, err := yaml.Marshal(Config{Type: ConfigTypeV1, Settings: s.Map()})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ParseOverrides parses key=value pairs as given on the command line.
func ParseOverrides(pairs []string) (Settings, error) {
	s := Settings{}
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid setting %q, expected key=value", pair)
		}
		key, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		s[key] = value
	}
	return s, nil
}
