// Package render holds the output formats shared by the graph renderers of
// the CLI.
package render

import (
	"fmt"
	"strings"
)

type OutputFormat int

const (
	OutputFormatJSON OutputFormat = iota + 1
	OutputFormatYAML
	OutputFormatNDJSON
	OutputFormatTable
	OutputFormatTree
)

func (o OutputFormat) String() string {
	switch o {
	case OutputFormatJSON:
		return "json"
	case OutputFormatYAML:
		return "yaml"
	case OutputFormatNDJSON:
		return "ndjson"
	case OutputFormatTable:
		return "table"
	case OutputFormatTree:
		return "tree"
	default:
		return fmt.Sprintf("unknown(%d)", o)
	}
}

// ParseOutputFormat parses the name of an output format.
func ParseOutputFormat(name string) (OutputFormat, error) {
	for _, f := range []OutputFormat{OutputFormatJSON, OutputFormatYAML, OutputFormatNDJSON, OutputFormatTable, OutputFormatTree} {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown output format: %q", name)
}
