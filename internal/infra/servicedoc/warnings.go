// Where: internal/infra/servicedoc/warnings.go
// What: Warning aggregation for document loading.
// Why: Avoid loader-side direct stdout writes while preserving diagnostics.
package servicedoc

import "fmt"

type warningCollector struct {
	warnings []string
}

func (c *warningCollector) warnf(format string, args ...any) {
	if c == nil {
		return
	}
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func (c *warningCollector) list() []string {
	if c == nil || len(c.warnings) == 0 {
		return nil
	}
	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}
