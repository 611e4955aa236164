// Package buildinfo carries version metadata stamped at link time:
//
//	-X 'github.com/m3rciful/moviebot/core/buildinfo.Version=v1.2.3'
//	-X 'github.com/m3rciful/moviebot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/moviebot/core/buildinfo.Date=2025-08-30T12:00:00Z'
package buildinfo

import "strings"

// Defaults are meant for local dev builds.
var (
	// Version reports the semantic version or tag of the build.
	Version = "dev"
	// Commit reports the source control commit used for the build.
	Commit = "local"
	// Date reports the build timestamp in RFC3339 format.
	Date = ""
)

// String renders "version (commit, date)" omitting empty parts.
func String() string {
	parts := make([]string, 0, 2)
	if Commit != "" {
		parts = append(parts, Commit)
	}
	if Date != "" {
		parts = append(parts, Date)
	}
	if len(parts) == 0 {
		return Version
	}
	return Version + " (" + strings.Join(parts, ", ") + ")"
}
