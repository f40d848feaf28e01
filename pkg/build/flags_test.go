// SPDX-License-Identifier: MIT
package build

import "testing"

func TestGetBuildFlagsDefaults(t *testing.T) {
	buildName, buildTime, buildCommit, buildVersion = "", "", "", ""

	flags := GetBuildFlags()
	if flags.Name != "delayset" {
		t.Errorf("Name = %q, expected development default", flags.Name)
	}
	if flags.Version != "dev" {
		t.Errorf("Version = %q, expected %q", flags.Version, "dev")
	}
	if flags.Time != "unknown" || flags.Commit != "unknown" {
		t.Errorf("Time/Commit = %q/%q, expected unknown placeholders", flags.Time, flags.Commit)
	}
}

func TestGetBuildFlagsFromLinker(t *testing.T) {
	buildName = "delayset"
	buildTime = "2026-08-25T00:00:00Z"
	buildCommit = "abc1234"
	buildVersion = "1.2.0"
	defer func() { buildName, buildTime, buildCommit, buildVersion = "", "", "", "" }()

	flags := GetBuildFlags()
	if flags.Version != "1.2.0" {
		t.Errorf("Version = %q, expected %q", flags.Version, "1.2.0")
	}
	if flags.Commit != "abc1234" {
		t.Errorf("Commit = %q, expected %q", flags.Commit, "abc1234")
	}
}
