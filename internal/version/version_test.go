package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentVersion(t *testing.T) {
	assert.Equal(t, Version+"-dev", GetCurrentVersion("dev"))
	assert.Equal(t, Version+"-demo", GetCurrentVersion("demo"))
	assert.Equal(t, Version, GetCurrentVersion("prod"))
}

func TestString(t *testing.T) {
	restoreVersion, restoreCommit := Version, GitCommit
	defer func() { Version, GitCommit = restoreVersion, restoreCommit }()

	Version, GitCommit = "0.4.0", "unknown"
	assert.Equal(t, "0.4.0", String())

	// Short versions are canonicalized.
	Version = "0.4"
	assert.Equal(t, "0.4.0", String())

	GitCommit = "abcdef1234567890"
	assert.Equal(t, "0.4.0 (abcdef12)", String())

	// Non-semver build versions pass through untouched.
	Version, GitCommit = "nightly", "unknown"
	assert.Equal(t, "nightly", String())
}
