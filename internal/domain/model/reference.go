// Where: internal/domain/model/reference.go
// What: Reference values used by event declarations.
// Why: A source may be a literal identifier or a cross-reference the template engine
// resolves at apply time; both forms must survive into the output unchanged.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"
)

// RefKind identifies the variant held by a Reference.
type RefKind int

const (
	RefUnset RefKind = iota
	RefLiteral
	RefAttribute
	RefImport
	RefJoin
	RefResource
	// RefOpaque is any other intrinsic (Fn::Sub, Fn::If, ...). It is passed through
	// verbatim and never yields a name.
	RefOpaque
)

var (
	errEmptyReference   = errors.New("reference is empty")
	errMalformedGetAtt  = errors.New("Fn::GetAtt must be [resource, attribute] or \"Resource.Attribute\"")
	errMalformedJoin    = errors.New("Fn::Join must be [delimiter, [parts...]]")
	errMalformedRef     = errors.New("Ref must name a resource")
	errUnsupportedValue = errors.New("reference must be a string or an intrinsic function")
)

// Reference is a literal identifier or a structured cross-reference.
type Reference struct {
	Kind      RefKind
	Literal   string
	Resource  string
	Attribute string
	Import    any
	Delimiter string
	Parts     []any
	Raw       map[string]any
}

// Literal builds a literal identifier reference.
func Literal(s string) Reference { return Reference{Kind: RefLiteral, Literal: s} }

// GetAtt builds an attribute-of-resource reference.
func GetAtt(resource, attribute string) Reference {
	return Reference{Kind: RefAttribute, Resource: resource, Attribute: attribute}
}

// Ref builds a resource reference.
func Ref(resource string) Reference { return Reference{Kind: RefResource, Resource: resource} }

// ImportValue builds an imported-value reference. name may itself be an intrinsic.
func ImportValue(name any) Reference { return Reference{Kind: RefImport, Import: name} }

// Join builds a joined-parts reference. Parts may hold strings, template nodes or References.
func Join(delimiter string, parts ...any) Reference {
	return Reference{Kind: RefJoin, Delimiter: delimiter, Parts: parts}
}

// IsZero reports whether no reference was declared.
func (r Reference) IsZero() bool { return r.Kind == RefUnset }

// IsLiteral reports whether the reference is a plain identifier string.
func (r Reference) IsLiteral() bool { return r.Kind == RefLiteral }

// ParseReference interprets a decoded document node as a Reference.
func ParseReference(node any) (Reference, error) {
	switch typed := node.(type) {
	case nil:
		return Reference{}, errEmptyReference
	case Reference:
		return typed, nil
	case string:
		if typed == "" {
			return Reference{}, errEmptyReference
		}
		return Literal(typed), nil
	case map[string]any:
		return parseIntrinsic(typed)
	default:
		return Reference{}, fmt.Errorf("%w: got %T", errUnsupportedValue, node)
	}
}

func parseIntrinsic(m map[string]any) (Reference, error) {
	key, ok := value.SingleKey(m)
	if !ok {
		return Reference{Kind: RefOpaque, Raw: m}, nil
	}
	arg := m[key]
	switch key {
	case "Fn::GetAtt":
		switch typed := arg.(type) {
		case string:
			resource, attribute, found := strings.Cut(typed, ".")
			if !found || resource == "" || attribute == "" {
				return Reference{}, errMalformedGetAtt
			}
			return GetAtt(resource, attribute), nil
		case []any:
			if len(typed) != 2 || !value.IsString(typed[0]) || !value.IsString(typed[1]) {
				return Reference{}, errMalformedGetAtt
			}
			return GetAtt(typed[0].(string), typed[1].(string)), nil
		default:
			return Reference{}, errMalformedGetAtt
		}
	case "Ref":
		name, isString := arg.(string)
		if !isString || name == "" {
			return Reference{}, errMalformedRef
		}
		return Ref(name), nil
	case "Fn::ImportValue":
		if arg == nil {
			return Reference{}, errEmptyReference
		}
		return ImportValue(arg), nil
	case "Fn::Join":
		args := value.AsSlice(arg)
		if len(args) != 2 {
			return Reference{}, errMalformedJoin
		}
		delimiter, isString := args[0].(string)
		parts := value.AsSlice(args[1])
		if !isString || parts == nil {
			return Reference{}, errMalformedJoin
		}
		return Join(delimiter, parts...), nil
	default:
		return Reference{Kind: RefOpaque, Raw: m}, nil
	}
}

// Template returns the reference in template-document form.
func (r Reference) Template() any {
	switch r.Kind {
	case RefLiteral:
		return r.Literal
	case RefAttribute:
		return map[string]any{"Fn::GetAtt": []any{r.Resource, r.Attribute}}
	case RefResource:
		return map[string]any{"Ref": r.Resource}
	case RefImport:
		return map[string]any{"Fn::ImportValue": templateNode(r.Import)}
	case RefJoin:
		parts := make([]any, len(r.Parts))
		for i, part := range r.Parts {
			parts[i] = templateNode(part)
		}
		return map[string]any{"Fn::Join": []any{r.Delimiter, parts}}
	case RefOpaque:
		return r.Raw
	default:
		return nil
	}
}

func templateNode(node any) any {
	if ref, ok := node.(Reference); ok {
		return ref.Template()
	}
	return node
}

// MarshalJSON renders the template form.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Template())
}

// String renders a compact description for diagnostics.
func (r Reference) String() string {
	switch r.Kind {
	case RefLiteral:
		return r.Literal
	case RefUnset:
		return "<unset>"
	default:
		payload, err := json.Marshal(r.Template())
		if err != nil {
			return fmt.Sprintf("<reference %d>", r.Kind)
		}
		return string(payload)
	}
}
