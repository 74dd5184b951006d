// Where: internal/infra/servicedoc/decode.go
// What: YAML node decoding with short-form intrinsic tags.
// Why: Authors write !Ref / !GetAtt / !Join in service documents; the compiler only
// understands the long form.
package servicedoc

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// shortTags maps short-form intrinsic tags to their long-form keys.
var shortTags = map[string]string{
	"!Ref":         "Ref",
	"!Condition":   "Condition",
	"!GetAtt":      "Fn::GetAtt",
	"!ImportValue": "Fn::ImportValue",
	"!Join":        "Fn::Join",
	"!Sub":         "Fn::Sub",
	"!Select":      "Fn::Select",
	"!Split":       "Fn::Split",
	"!If":          "Fn::If",
	"!Equals":      "Fn::Equals",
	"!Not":         "Fn::Not",
	"!And":         "Fn::And",
	"!Or":          "Fn::Or",
	"!FindInMap":   "Fn::FindInMap",
	"!Base64":      "Fn::Base64",
	"!GetAZs":      "Fn::GetAZs",
	"!Cidr":        "Fn::Cidr",
}

func decodeNode(node *yaml.Node) any {
	if node == nil {
		return nil
	}
	var out any
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return decodeNode(node.Content[0])
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	case yaml.MappingNode:
		m := map[string]any{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind == yaml.ScalarNode && keyNode.Tag == "!!merge" {
				mergeInto(m, decodeNode(node.Content[i+1]))
				continue
			}
			m[keyNode.Value] = decodeNode(node.Content[i+1])
		}
		out = m
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			items = append(items, decodeNode(item))
		}
		out = items
	case yaml.ScalarNode:
		out = decodeScalar(node)
	default:
		return nil
	}
	if long, ok := shortTags[node.Tag]; ok {
		return map[string]any{long: out}
	}
	return out
}

func decodeScalar(node *yaml.Node) any {
	switch node.Tag {
	case "!!int":
		if value, err := strconv.Atoi(node.Value); err == nil {
			return value
		}
	case "!!float":
		if value, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return value
		}
	case "!!bool":
		if value, err := strconv.ParseBool(node.Value); err == nil {
			return value
		}
	case "!!null":
		return nil
	}
	return node.Value
}

// mergeInto applies a YAML merge key (<<) without overriding explicit keys.
func mergeInto(dst map[string]any, src any) {
	switch typed := src.(type) {
	case map[string]any:
		for key, value := range typed {
			if _, exists := dst[key]; !exists {
				dst[key] = value
			}
		}
	case []any:
		for _, item := range typed {
			mergeInto(dst, item)
		}
	}
}

// mappingKeys returns the keys of the mapping under root[key] in document order.
func mappingKeys(root *yaml.Node, key string) []string {
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != key {
			continue
		}
		child := root.Content[i+1]
		if child.Kind == yaml.AliasNode {
			child = child.Alias
		}
		if child == nil || child.Kind != yaml.MappingNode {
			return nil
		}
		keys := make([]string, 0, len(child.Content)/2)
		for j := 0; j+1 < len(child.Content); j += 2 {
			keys = append(keys, child.Content[j].Value)
		}
		return keys
	}
	return nil
}
