// Package appinfo holds the build information of ruasset.
package appinfo

import (
	"fmt"
	"runtime"
	"strings"
)

// Set at link time, for example:
//
//	go build -ldflags '-X github.com/wuxler/ruasset/pkg/appinfo.version=v1.0.0'
var (
	version      = "dev"
	buildDate    = "1970-01-01T00:00:00Z"
	gitCommit    = ""
	gitTag       = ""
	gitTreeState = ""
)

// Name is the application name.
const Name = "ruasset"

// Version describes the running binary.
type Version struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Tag       string `json:"tag,omitempty" yaml:"tag,omitempty"`
	TreeState string `json:"tree_state,omitempty" yaml:"tree_state,omitempty"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// GetVersion returns the Version of the running binary.
func GetVersion() Version {
	return Version{
		Version:   version,
		Commit:    gitCommit,
		Tag:       gitTag,
		TreeState: gitTreeState,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Short returns the version with the abbreviated commit, e.g. "v1.0.0-1a2b3c4d".
func (v Version) Short() string {
	if len(v.Commit) > 8 {
		return v.Version + "-" + v.Commit[:8]
	}
	return v.Version
}

// String returns the multi-line human readable form.
func (v Version) String() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Version    : %s\n", v.Version)
	if v.Commit != "" {
		fmt.Fprintf(b, "Commit     : %s (%s)\n", v.Commit, v.TreeState)
	}
	if v.Tag != "" {
		fmt.Fprintf(b, "Tag        : %s\n", v.Tag)
	}
	fmt.Fprintf(b, "BuildDate  : %s\n", v.BuildDate)
	fmt.Fprintf(b, "GoVersion  : %s\n", v.GoVersion)
	fmt.Fprintf(b, "Platform   : %s\n", v.Platform)
	return b.String()
}

// UserAgent returns the value of the Server response header.
func UserAgent() string {
	return Name + "/" + GetVersion().Short()
}
