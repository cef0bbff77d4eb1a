package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service current released version.
// This value can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/auralab/aura/internal/version.Version=v0.4.0"
//
// Semantic versioning: https://semver.org/
var Version = "0.0.0-dev"

// GitCommit is the git commit hash at build time.
// Set via ldflags: -X github.com/auralab/aura/internal/version.GitCommit=$(git rev-parse HEAD)
var GitCommit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// GetCurrentVersion returns the version string for the given run mode.
func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return Version + "-" + mode
	}
	return Version
}

// String returns the canonical semver version string with the short commit
// hash when known. A build version that is not valid semver is kept as-is.
func String() string {
	v := Version
	if c := semver.Canonical("v" + v); c != "" {
		v = strings.TrimPrefix(c, "v")
	}
	if GitCommit == "unknown" {
		return v
	}
	short := GitCommit
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s (%s)", v, short)
}
