// Where: internal/domain/cfn/intrinsics.go
// What: Builders for intrinsic function nodes.
// Why: Keep the long-form map shapes in one place.
package cfn

// Pseudo parameters.
const (
	Partition = "AWS::Partition"
	Region    = "AWS::Region"
	AccountID = "AWS::AccountId"
	URLSuffix = "AWS::URLSuffix"
)

// Ref renders {"Ref": name}.
func Ref(name string) map[string]any { return map[string]any{"Ref": name} }

// GetAtt renders {"Fn::GetAtt": [resource, attribute]}.
func GetAtt(resource, attribute string) map[string]any {
	return map[string]any{"Fn::GetAtt": []any{resource, attribute}}
}

// Join renders {"Fn::Join": [delimiter, parts]}.
func Join(delimiter string, parts ...any) map[string]any {
	return map[string]any{"Fn::Join": []any{delimiter, parts}}
}

// ImportValue renders {"Fn::ImportValue": name}.
func ImportValue(name any) map[string]any { return map[string]any{"Fn::ImportValue": name} }

// ARN renders an ARN for the current partition, region and account.
func ARN(service string, resource ...any) map[string]any {
	parts := []any{"arn:", Ref(Partition), ":" + service + ":", Ref(Region), ":", Ref(AccountID), ":"}
	return Join("", append(parts, resource...)...)
}
