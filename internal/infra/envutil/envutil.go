// Package envutil provides helpers for brand-prefixed environment variables.
package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/poruru/edge-serverless-box/eventsrc/internal/meta"
)

// Key constructs a prefixed environment variable name.
// Example: Key("OUTPUT_FORMAT") returns "EVENTSRC_OUTPUT_FORMAT".
func Key(suffix string) string {
	return meta.EnvPrefix + "_" + suffix
}

// Lookup returns the trimmed value of a prefixed variable and whether it is set
// to something non-blank.
func Lookup(suffix string) (string, bool) {
	value, ok := os.LookupEnv(Key(suffix))
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

// Int parses a prefixed variable as an integer.
func Int(suffix string) (int, bool, error) {
	raw, ok := Lookup(suffix)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", Key(suffix), err)
	}
	return n, true, nil
}

// Bool parses a prefixed variable as a boolean.
func Bool(suffix string) (bool, bool, error) {
	raw, ok := Lookup(suffix)
	if !ok {
		return false, false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, fmt.Errorf("parse %s: %w", Key(suffix), err)
	}
	return b, true, nil
}
