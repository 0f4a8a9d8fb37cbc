// Package version reports the build of timeparse.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	VersionPrefix = "dev"     // Set via -ldflags
	VersionDate   = "edge"    // Set via -ldflags - Value should be: YYYYMMDD
	CommitHash    = "unknown" // Set via -ldflags
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Print returns the version information. Builds without ldflags fall back to
// the module version and VCS revision recorded by the Go toolchain.
func Print() string {
	prefix, commit := VersionPrefix, CommitHash
	if info, ok := readBuildInfo(); ok {
		if prefix == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			prefix = info.Main.Version
		}
		if commit == "unknown" {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 12 {
					commit = s.Value[:12]
				}
			}
		}
	}
	return fmt.Sprintf(`%s-%s-%s`, prefix, VersionDate, commit)
}
