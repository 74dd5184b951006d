// Where: internal/infra/render/read.go
// What: Base template loading.
// Why: Earlier pipeline stages may hand over JSON or YAML; the compiler only sees the model.
package render

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/cfn"
)

// ReadTemplate loads a JSON or YAML template from disk.
func ReadTemplate(path string) (*cfn.Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read base template: %w", err)
	}
	payload, err := yaml.YAMLToJSON(content)
	if err != nil {
		return nil, fmt.Errorf("parse base template %s: %w", path, err)
	}
	return cfn.Decode(payload)
}
