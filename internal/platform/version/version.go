// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'stackpad/internal/platform/version.version=v0.1.0'
	// -X 'stackpad/internal/platform/version.commit=abcd' -X 'stackpad/internal/platform/version.date=2026-01-01'"
	return BuildInfo{
		Service: "stackpad-api",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String returns the bare version tag used in response metadata
func String() string { return version }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
