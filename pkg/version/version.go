// Package version records build metadata stamped in at link time.
package version

// Build metadata (set via ldflags during build).
var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)
