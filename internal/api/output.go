package api

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how commands print what they fetch or generate.
type OutputFormat string

const (
	// OutputFormatTable renders result sets as a table. Other documents,
	// such as health or config, fall back to YAML.
	OutputFormatTable OutputFormat = "table"
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatJSON  OutputFormat = "json"
)

// DefaultOutput is the format used when --output is not given.
const DefaultOutput = OutputFormatTable

// globalOutputFormat is set by the root command's --output flag.
var globalOutputFormat = DefaultOutput

// ParseOutputFormat maps a flag value to an OutputFormat. An empty value
// selects DefaultOutput.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case "":
		return DefaultOutput, nil
	case OutputFormatTable, OutputFormatYAML, OutputFormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, yaml or json)", s)
	}
}

// SetOutputFormat sets the global output format. An unknown value leaves
// the current format in place.
func SetOutputFormat(s string) error {
	f, err := ParseOutputFormat(s)
	if err != nil {
		return err
	}
	globalOutputFormat = f
	return nil
}

// GetOutputFormat returns the current global output format.
func GetOutputFormat() OutputFormat {
	return globalOutputFormat
}

// OutputTo writes data to w in the given format.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatYAML, OutputFormatTable:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
