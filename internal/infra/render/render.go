// Where: internal/infra/render/render.go
// What: Serialization of compiled templates.
// Why: The same document is written as JSON or YAML and queried by path.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"sigs.k8s.io/yaml"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	errUnknownFormat = errors.New("unknown output format")
	// ErrNoMatch reports a query path that selects nothing.
	ErrNoMatch = errors.New("query matched nothing")
)

// ParseFormat accepts json, yaml or yml (case-insensitive).
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownFormat, raw)
	}
}

// JSON encodes v with the given indent width. HTML characters are kept verbatim.
func JSON(v any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if indent > 0 {
		encoder.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode renders v in the requested format.
func Encode(v any, format Format, indent int) ([]byte, error) {
	payload, err := JSON(v, indent)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatJSON:
		return payload, nil
	case FormatYAML:
		out, err := yaml.JSONToYAML(payload)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

// Query selects a gjson path from a JSON document. Strings are returned unquoted;
// everything else as raw JSON.
func Query(payload []byte, path string) (string, error) {
	result := gjson.GetBytes(payload, path)
	if !result.Exists() {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, path)
	}
	if result.Type == gjson.String {
		return result.String(), nil
	}
	return result.Raw, nil
}
