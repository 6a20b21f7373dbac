// Package version reports the build-time version string, populated via
// -ldflags at release build time and defaulting to "dev" otherwise.
package version

import "fmt"

// The following are set via -ldflags at build time; see the teacher's own
// release tooling for the flag names this mirrors.
var (
	gitTag    = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// GetVersion returns a single-line version string suitable for --version
// output and startup logs.
func GetVersion() string {
	return fmt.Sprintf("%s-%s. Built at: %s", gitTag, gitCommit, buildDate)
}
