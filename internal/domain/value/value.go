// Where: internal/domain/value/value.go
// What: Loose value helpers for decoded service and template documents.
// Why: Template nodes arrive as map[string]any trees; keep coercion in one place.
package value

import (
	"fmt"
	"sort"
)

// AsMap returns the value as a string-keyed map, or nil.
func AsMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// AsSlice returns the value as a slice, or nil when it is not one.
func AsSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

// AsString returns a string for scalar values and "" for nil.
func AsString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprint(typed)
	}
}

// IsString reports whether v holds a non-empty string.
func IsString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// SingleKey returns the only key of a one-entry map.
func SingleKey(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	for k := range m {
		return k, true
	}
	return "", false
}

// SortedKeys returns map keys in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Strings converts a string slice into template list form.
func Strings(in []string) []any {
	if len(in) == 0 {
		return nil
	}
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// IntOr dereferences p or returns fallback.
func IntOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

// BoolOr dereferences p or returns fallback.
func BoolOr(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
