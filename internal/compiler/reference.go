// Where: internal/compiler/reference.go
// What: Name extraction from source references.
// Why: Logical ids embed a readable name of the source (queue, stream, topic); the
// name has to be recovered from whatever form the author wrote the reference in.
package compiler

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

// colonMark stands in for "::" while a literal is split on single colons.
const colonMark = "\x00"

// ExtractName derives a short name from a reference. It reports false when the
// reference carries no name that can be derived statically.
func ExtractName(ref model.Reference) (string, bool) {
	switch ref.Kind {
	case model.RefLiteral:
		return lastSegment(ref.Literal)
	case model.RefAttribute, model.RefResource:
		return ref.Resource, ref.Resource != ""
	case model.RefImport:
		name, ok := ref.Import.(string)
		return name, ok && name != ""
	case model.RefJoin:
		if len(ref.Parts) == 0 {
			return "", false
		}
		switch last := ref.Parts[len(ref.Parts)-1].(type) {
		case string:
			return lastSegment(last)
		default:
			nested, err := model.ParseReference(last)
			if err != nil {
				return "", false
			}
			return ExtractName(nested)
		}
	default:
		return "", false
	}
}

func lastSegment(literal string) (string, bool) {
	escaped := strings.ReplaceAll(literal, "::", colonMark)
	segments := strings.FieldsFunc(escaped, func(r rune) bool { return r == ':' || r == '/' })
	if len(segments) == 0 {
		return "", false
	}
	name := strings.ReplaceAll(segments[len(segments)-1], colonMark, "::")
	return name, name != ""
}

// resourceName returns the second path segment of an ARN resource such as
// "cluster/NAME/uuid", "table/NAME/stream/ts" or "stream/NAME". Anything else falls back
// to ExtractName.
func resourceName(ref model.Reference) (string, bool) {
	if ref.IsLiteral() && arn.IsARN(ref.Literal) {
		parsed, err := arn.Parse(ref.Literal)
		if err == nil {
			segments := strings.Split(parsed.Resource, "/")
			if len(segments) >= 2 && segments[1] != "" {
				return segments[1], true
			}
		}
	}
	return ExtractName(ref)
}

// arnService returns the service component of a literal ARN.
func arnService(ref model.Reference) (string, bool) {
	if !ref.IsLiteral() || !arn.IsARN(ref.Literal) {
		return "", false
	}
	parsed, err := arn.Parse(ref.Literal)
	if err != nil {
		return "", false
	}
	return parsed.Service, parsed.Service != ""
}
