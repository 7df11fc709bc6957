package base

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormat returns an error for output formats other than text, json and
// yaml.
func ValidFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (supported: text, json, yaml)", format)
	}
}

// OutputStructured writes v to the UI as JSON or YAML.
func (c *Command) OutputStructured(format string, v any) error {
	var (
		b   []byte
		err error
	)
	switch format {
	case FormatJSON:
		b, err = json.MarshalIndent(v, "", "  ")
	case FormatYAML:
		b, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("format %q is not structured", format)
	}
	if err != nil {
		return fmt.Errorf("error encoding %s output: %w", format, err)
	}

	c.UI.Output(strings.TrimRight(string(b), "\n"))
	return nil
}
