// Package version reports the goview build.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date. Development
// builds fall back to the VCS revision recorded by the go tool.
func GetFullVersion() string {
	if Version == "dev" {
		if rev := vcsRevision(); rev != "" {
			return fmt.Sprintf("dev (%s)", rev)
		}
		return "dev"
	}
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
