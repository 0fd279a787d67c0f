package version

import (
	"runtime"
	"strconv"
	"time"

	"github.com/Masterminds/semver"
)

// DevelopmentGitVersion marks binaries built without version stamping,
// e.g. a plain `go build` or the test runner.
const DevelopmentGitVersion = "v0.0.0-dev"

// Values injected by the build via ldflags.
var (
	// GITVERSION is the output of `git describe --tags --dirty --always`.
	GITVERSION = DevelopmentGitVersion
	// GITCOMMIT is the full commit hash the binary was built from.
	GITCOMMIT = ""
	// BUILDDATE is the RFC3339 timestamp of the build.
	BUILDDATE = ""
)

// BuildVersionInfo describes the version of a jailmon binary.
type BuildVersionInfo struct {
	Major      string    `json:"major,omitempty" yaml:"major,omitempty"`
	Minor      string    `json:"minor,omitempty" yaml:"minor,omitempty"`
	GitVersion string    `json:"gitversion" yaml:"gitversion"`
	GitCommit  string    `json:"gitcommit" yaml:"gitcommit"`
	BuildDate  time.Time `json:"builddate" yaml:"builddate"`
	GOOS       string    `json:"goos" yaml:"goos"`
	GOARCH     string    `json:"goarch" yaml:"goarch"`
}

// Get returns the overall codebase version. It's for detecting what code a
// binary was built from.
func Get() *BuildVersionInfo {
	buildDate, err := time.Parse(time.RFC3339, BUILDDATE)
	if err != nil {
		buildDate = time.Time{}
	}

	major, minor := semverComponents(GITVERSION)

	return &BuildVersionInfo{
		Major:      major,
		Minor:      minor,
		GitVersion: GITVERSION,
		GitCommit:  GITCOMMIT,
		BuildDate:  buildDate,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
}

// semverComponents pulls the major and minor components out of a git
// describe string like "v0.4.2-12-gdeadbee". Returns empty strings when the
// version doesn't look like semver, which happens when git describe falls
// back to a bare commit hash.
func semverComponents(gitVersion string) (major, minor string) {
	s, err := semver.NewVersion(gitVersion)
	if err != nil {
		return "", ""
	}
	return strconv.FormatInt(s.Major(), 10), strconv.FormatInt(s.Minor(), 10)
}
