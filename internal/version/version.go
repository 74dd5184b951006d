// Where: internal/version/version.go
// What: Build version information.
// Why: Let `eventsrc version` report the VCS revision the binary was built from.
package version

import (
	"fmt"
	"runtime/debug"
)

// Info describes the running build.
type Info struct {
	Revision  string
	Modified  bool
	GoVersion string
}

// String renders "<rev>[ (dirty)]", or "dev" when no VCS data was stamped.
func (i Info) String() string {
	if i.Revision == "" {
		return "dev"
	}
	if i.Modified {
		return fmt.Sprintf("%s (dirty)", i.Revision)
	}
	return i.Revision
}

// Get reads the build info embedded by the Go toolchain.
func Get() Info {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) Info {
	out := Info{GoVersion: info.GoVersion}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			out.Revision = setting.Value
			if len(out.Revision) > 7 {
				out.Revision = out.Revision[:7]
			}
		case "vcs.modified":
			out.Modified = setting.Value == "true"
		}
	}
	return out
}
