// Where: internal/domain/cfn/template.go
// What: Output document model (CloudFormation template subset).
// Why: The compiler writes resources keyed by logical id; later pipeline stages read the
// same structure back, so it must round-trip through JSON/YAML untouched.
package cfn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/copystructure"
)

// FormatVersion is the template format version written to fresh documents.
const FormatVersion = "2010-09-09"

// ErrConflict reports a logical id that already names a different resource.
var ErrConflict = errors.New("logical id already names a different resource")

// Template is the output document of one compilation pass.
type Template struct {
	FormatVersion string               `json:"AWSTemplateFormatVersion,omitempty"`
	Description   string               `json:"Description,omitempty"`
	Transform     any                  `json:"Transform,omitempty"`
	Metadata      map[string]any       `json:"Metadata,omitempty"`
	Parameters    map[string]any       `json:"Parameters,omitempty"`
	Mappings      map[string]any       `json:"Mappings,omitempty"`
	Conditions    map[string]any       `json:"Conditions,omitempty"`
	Resources     map[string]*Resource `json:"Resources"`
	Outputs       map[string]any       `json:"Outputs,omitempty"`
}

// Resource is one entry of the Resources section.
type Resource struct {
	Type                string         `json:"Type"`
	Condition           string         `json:"Condition,omitempty"`
	DependsOn           DependsOn      `json:"DependsOn,omitempty"`
	Properties          map[string]any `json:"Properties,omitempty"`
	Metadata            map[string]any `json:"Metadata,omitempty"`
	DeletionPolicy      string         `json:"DeletionPolicy,omitempty"`
	UpdateReplacePolicy string         `json:"UpdateReplacePolicy,omitempty"`
}

// DependsOn is an ordered dependency list; the template grammar also allows a bare string.
type DependsOn []string

// UnmarshalJSON accepts both the string and list forms.
func (d *DependsOn) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*d = DependsOn{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode DependsOn: %w", err)
	}
	*d = list
	return nil
}

// New returns an empty template.
func New() *Template {
	return &Template{FormatVersion: FormatVersion, Resources: map[string]*Resource{}}
}

// Decode parses a JSON template.
func Decode(data []byte) (*Template, error) {
	tpl := &Template{}
	if err := json.Unmarshal(data, tpl); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	if tpl.Resources == nil {
		tpl.Resources = map[string]*Resource{}
	}
	return tpl, nil
}

// Clone returns a deep copy so a pass can fail without touching the caller's document.
func (t *Template) Clone() (*Template, error) {
	if t == nil {
		return New(), nil
	}
	copied, err := copystructure.Copy(t)
	if err != nil {
		return nil, fmt.Errorf("copy template: %w", err)
	}
	out := copied.(*Template)
	if out.Resources == nil {
		out.Resources = map[string]*Resource{}
	}
	return out, nil
}

// Put stores a resource. Storing an identical resource under the same id is a no-op;
// storing a different one returns ErrConflict.
func (t *Template) Put(logicalID string, res *Resource) error {
	if existing, ok := t.Resources[logicalID]; ok {
		same, err := sameResource(existing, res)
		if err != nil {
			return err
		}
		if !same {
			return fmt.Errorf("%w: %s", ErrConflict, logicalID)
		}
		return nil
	}
	t.Resources[logicalID] = res
	return nil
}

// Has reports whether the logical id exists.
func (t *Template) Has(logicalID string) bool {
	_, ok := t.Resources[logicalID]
	return ok
}

func sameResource(a, b *Resource) (bool, error) {
	left, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("encode resource: %w", err)
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("encode resource: %w", err)
	}
	return bytes.Equal(left, right), nil
}
