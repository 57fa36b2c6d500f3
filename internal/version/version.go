// Package version carries build metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/Glx28/billigst-mat/internal/version.Version=$(git describe --tags) \
//	                   -X github.com/Glx28/billigst-mat/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/Glx28/billigst-mat/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

var (
	// Version is the release tag; "dev" for local builds.
	Version = "dev"

	// Commit is the short git revision the binary was built from.
	Commit = "unknown"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"
)

// String formats the full build identifier for logs and diagnostics.
func String() string {
	return Version + " (" + Commit + ") built " + BuildTime
}
