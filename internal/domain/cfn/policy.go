// Where: internal/domain/cfn/policy.go
// What: Permission statements and execution-role statement access.
// Why: Compiled permissions are folded into the role resource produced by an earlier stage.
package cfn

import "github.com/poruru/edge-serverless-box/eventsrc/internal/domain/value"

const (
	// PolicyVersion is the policy language version.
	PolicyVersion = "2012-10-17"
	// DefaultPolicyName names the inline policy created when a role carries none.
	DefaultPolicyName = "eventsrc-lambda"
)

// Statement is one permission statement.
type Statement struct {
	Effect   string   `json:"Effect"`
	Action   []string `json:"Action"`
	Resource []any    `json:"Resource"`
}

// Node renders the statement as a loose template node.
func (s Statement) Node() map[string]any {
	resources := make([]any, len(s.Resource))
	copy(resources, s.Resource)
	return map[string]any{
		"Effect":   s.Effect,
		"Action":   value.Strings(s.Action),
		"Resource": resources,
	}
}

// AppendRoleStatements appends statements to the role's first inline policy. It returns
// false and leaves the template untouched when the role resource does not exist.
func AppendRoleStatements(t *Template, roleID string, stmts []Statement) bool {
	role, ok := t.Resources[roleID]
	if !ok || role == nil {
		return false
	}
	if len(stmts) == 0 {
		return true
	}
	if role.Properties == nil {
		role.Properties = map[string]any{}
	}

	policies := value.AsSlice(role.Properties["Policies"])
	if len(policies) == 0 || value.AsMap(policies[0]) == nil {
		policies = append([]any{map[string]any{"PolicyName": DefaultPolicyName}}, policies...)
	}
	policy := value.AsMap(policies[0])
	document := value.AsMap(policy["PolicyDocument"])
	if document == nil {
		document = map[string]any{"Version": PolicyVersion}
		policy["PolicyDocument"] = document
	}
	statements := value.AsSlice(document["Statement"])
	for _, stmt := range stmts {
		statements = append(statements, stmt.Node())
	}
	document["Statement"] = statements
	role.Properties["Policies"] = policies
	return true
}

// RoleStatements returns the statement list of the role's first inline policy.
func RoleStatements(t *Template, roleID string) []any {
	role, ok := t.Resources[roleID]
	if !ok || role == nil {
		return nil
	}
	policies := value.AsSlice(role.Properties["Policies"])
	if len(policies) == 0 {
		return nil
	}
	document := value.AsMap(value.AsMap(policies[0])["PolicyDocument"])
	return value.AsSlice(document["Statement"])
}
