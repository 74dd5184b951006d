// Where: internal/compiler/errors.go
// What: Typed compile errors with stable codes.
// Why: Every detected defect aborts the pass; callers match on the code, users read the
// function and event that caused it.
package compiler

import (
	"fmt"
	"strings"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/domain/model"
)

// Code is a stable, user-facing error code. It implements error so that
// errors.Is(err, CodeMissingTimestamp) matches any *Error carrying it.
type Code string

func (c Code) Error() string { return string(c) }

const (
	CodeMissingTimestamp      Code = "MISSING_STARTING_POSITION_TIMESTAMP"
	CodeIncompleteNetwork     Code = "INCOMPLETE_NETWORK_ACCESS"
	CodeInvalidPollerConfig   Code = "INVALID_POLLER_CONFIG"
	CodeMissingDerivableName  Code = "MISSING_DERIVABLE_NAME"
	CodeBatchSizeOutOfRange   Code = "BATCH_SIZE_OUT_OF_RANGE"
	CodeBatchWindowOutOfRange Code = "BATCH_WINDOW_OUT_OF_RANGE"
	CodeStreamTypeRequired    Code = "STREAM_TYPE_REQUIRED"
	CodeFailureTypeRequired   Code = "FAILURE_DESTINATION_TYPE_REQUIRED"
	CodeInvalidDeadLetter     Code = "INVALID_DEAD_LETTER_TARGET"
	CodeInvalidFilterPattern  Code = "INVALID_FILTER_PATTERN"
	CodeConflictingResource   Code = "CONFLICTING_RESOURCE"
	CodeIdentityHashFailed    Code = "IDENTITY_HASH_FAILED"
)

// Error is a compile failure attributed to one function (and usually one event).
type Error struct {
	Code     Code
	Function string
	Kind     model.Kind
	// Event is the 1-based position in the function's event list; 0 when not tied to one.
	Event  int
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	fmt.Fprintf(&b, ": function %q", e.Function)
	if e.Event > 0 {
		fmt.Fprintf(&b, " event #%d", e.Event)
	}
	if e.Kind != "" {
		fmt.Fprintf(&b, " (%s)", e.Kind)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Code }

// site locates an event for error reporting.
type site struct {
	function string
	kind     model.Kind
	position int
}

func (s site) fail(code Code, format string, args ...any) *Error {
	return &Error{
		Code:     code,
		Function: s.function,
		Kind:     s.kind,
		Event:    s.position,
		Detail:   fmt.Sprintf(format, args...),
	}
}
