// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Eventcast is the canonical application identifier used for filesystem paths and CLI branding.
	Eventcast = "eventcast"

	// Version is the current application semantic version string.
	Version = "0.3.1"

	// UserAgent is the default HTTP User-Agent string used for network requests.
	UserAgent = "eventcast/" + Version
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = ""
	BuiltBy  = ""
	Revision = ""
)

// GOOS values mpv install hints are known for.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
