// SPDX-License-Identifier: MIT
//
// Package build exposes build metadata embedded at compile time via -ldflags
// (application name, build timestamp, Git commit, semantic version). During
// development builds the linker variables are empty and "dev" defaults apply.
package build

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// Populated by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
)

// GetBuildFlags returns the build information, substituting development
// defaults for any flag the linker did not set.
func GetBuildFlags() *ldFlags {
	flags := &ldFlags{
		Name:    "delayset",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
	if buildName != "" {
		flags.Name = buildName
	}
	if buildTime != "" {
		flags.Time = buildTime
	}
	if buildCommit != "" {
		flags.Commit = buildCommit
	}
	if buildVersion != "" {
		flags.Version = buildVersion
	}
	return flags
}
