// Package version reports the hooplog build.
// Release builds set Version with ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/hooplog/internal/version.Version=v1.2.3" ./cmd/hooplog
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the release version, "dev" for local builds.
var Version = "dev"

// GetVersion returns the current application version.
func GetVersion() string {
	return Version
}

// Revision returns the short VCS commit the binary was built from, or "".
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return ""
}

// String is the one-line form printed by "hooplog version".
func String() string {
	rev := Revision()
	if rev == "" {
		return fmt.Sprintf("hooplog %s (%s)", Version, runtime.Version())
	}
	return fmt.Sprintf("hooplog %s, commit %s (%s)", Version, rev, runtime.Version())
}
