// Package version holds build information for foview. The magefile stamps
// the variables through -ldflags -X.
package version

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
