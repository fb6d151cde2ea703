// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/pydocs/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/pydocs/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/pydocs/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/pydocs
package buildinfo

import (
	"fmt"
	"strings"
)

// homepage is advertised in the default User-Agent.
const homepage = "https://github.com/matzehuels/pydocs"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// UserAgent returns the User-Agent sent when the config leaves it empty,
// e.g. "pydocs/1.2.3 (+https://github.com/matzehuels/pydocs)".
func UserAgent() string {
	return fmt.Sprintf("pydocs/%s (+%s)", strings.TrimPrefix(Version, "v"), homepage)
}
