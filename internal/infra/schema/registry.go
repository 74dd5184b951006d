// Where: internal/infra/schema/registry.go
// What: Shape validation of service documents against the embedded JSON schema.
// Why: The compiler assumes well-formed declarations; shape problems are reported here
// with document paths before any compilation starts.
package schema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed service.schema.json
var serviceSchema []byte

const schemaURL = "https://eventsrc.local/service.schema.json"

// ErrInvalid is wrapped by every shape violation report.
var ErrInvalid = errors.New("service document does not match schema")

var (
	schemaOnce     sync.Once
	schemaErr      error
	compiledSchema *jsonschema.Schema
)

// Violation is one failed schema keyword.
type Violation struct {
	// Path is the JSON pointer of the offending value; "/" for the root.
	Path    string
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// Error lists every violation found in one document.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, v.String())
	}
	return fmt.Sprintf("%s:\n  %s", ErrInvalid, strings.Join(lines, "\n  "))
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Validate checks a JSON-decoded document (maps, slices, float64 numbers).
func Validate(document any) error {
	sch, err := loadSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(document); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &Error{Violations: collect(verr)}
		}
		return fmt.Errorf("validate service document: %w", err)
	}
	return nil
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(serviceSchema)); err != nil {
			schemaErr = fmt.Errorf("load service schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// collect flattens the cause tree into leaf violations, sorted by path.
func collect(root *jsonschema.ValidationError) []Violation {
	seen := map[Violation]struct{}{}
	var out []Violation
	var walk func(*jsonschema.ValidationError)
	walk = func(verr *jsonschema.ValidationError) {
		if len(verr.Causes) == 0 {
			path := verr.InstanceLocation
			if path == "" {
				path = "/"
			}
			v := Violation{Path: path, Message: verr.Message}
			if _, dup := seen[v]; !dup {
				seen[v] = struct{}{}
				out = append(out, v)
			}
			return
		}
		for _, cause := range verr.Causes {
			walk(cause)
		}
	}
	walk(root)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
