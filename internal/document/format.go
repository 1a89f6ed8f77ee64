package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a file extension with no known codec.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Format identifies a document encoding.
type Format uint8

const (
	// FormatYAML is YAML (.yaml, .yml).
	FormatYAML Format = iota
	// FormatTOML is TOML (.toml).
	FormatTOML
	// FormatJSON is JSON (.json).
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatFor picks a format from the file extension of path.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode parses data into a field map.
func (f Format) Decode(data []byte) (map[string]any, error) {
	var fields map[string]any
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &fields)
	case FormatTOML:
		err = toml.Unmarshal(data, &fields)
	case FormatJSON:
		if len(strings.TrimSpace(string(data))) == 0 {
			return nil, nil
		}
		err = json.Unmarshal(data, &fields)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// Encode serializes a field map.
func (f Format) Encode(fields map[string]any) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(fields)
	case FormatTOML:
		return toml.Marshal(fields)
	case FormatJSON:
		data, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseValue converts user input into a typed field value using YAML rules:
// "42" is an int, "true" a bool, "1.5" a float and "[a, b]" a list.
// Input that does not parse, or parses to null, is kept as a string.
func ParseValue(s string) any {
	var v any
	if err := yaml.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return s
	}
	return v
}
