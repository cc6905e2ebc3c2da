package utils

import (
	"fmt"
	"runtime"
)

// VersionString formats the build metadata baked in via -ldflags into a
// single printable version line.
func VersionString(service, version, commit, buildDate string) string {
	if version == "" {
		version = "0.0.1-dev"
	}
	if commit == "" {
		commit = "dev"
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if buildDate == "" {
		buildDate = "unknown"
	}

	return fmt.Sprintf("%s %s+%s.%s.%s/%s",
		service, version, commit, buildDate, runtime.GOOS, runtime.GOARCH)
}
