// Package version provides build version information for bandkit and
// the engine version check reports can declare.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.3.0"
	// Commit is the git commit hash (set by build flags)
	Commit = "unknown"
	// BuildDate is the build date (set by build flags)
	BuildDate = "unknown"
)

// Info contains version and build information
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	Platform  string
}

// Get returns the version information
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return i.Version
}

// Full returns a detailed version string with all build information
func (i Info) Full() string {
	return i.Version + " (" + i.Commit + ") built " + i.BuildDate + " " + i.GoVersion + " " + i.Platform
}

// CheckConstraint verifies the running engine satisfies a report's
// declared engine constraint, e.g. ">= 0.3". An empty constraint always
// passes. A "dev" build also passes, so local builds can run anything.
func CheckConstraint(constraint string) error {
	if constraint == "" || Version == "dev" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid engine constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid engine version %q: %w", Version, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("engine version %s does not satisfy report constraint %q", Version, constraint)
	}
	return nil
}
