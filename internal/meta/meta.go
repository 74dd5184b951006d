// Where: internal/meta/meta.go
// What: CLI-local metadata constants.
// Why: Keep brand names, env prefixes and file layout in one place.
package meta

const (
	// Project identity
	AppName   = "eventsrc"
	EnvPrefix = "EVENTSRC"

	// Directory layout
	HomeDir    = ".eventsrc"
	ConfigFile = "config.yaml"
)
