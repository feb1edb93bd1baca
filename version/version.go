// Package version reports what build of voxpersona is running.
//
// Release builds stamp the variables below with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/voxpersona/version.Version=1.2.0" ./cmd/voxpersona
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time.
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	Modified  bool      `json:"modified,omitempty"`
	GoVersion string    `json:"go_version"`
	BuildTime time.Time `json:"build_time,omitzero"`
}

// Get collects build information. fallback is used as the version when none
// was stamped into the binary, normally the version from the service config.
func Get(fallback string) Info {
	info := Info{Version: Version, Commit: Commit}
	if info.Version == "" {
		info.Version = fallback
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildTime = t
		}
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		case "vcs.time":
			if info.BuildTime.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildTime = t
				}
			}
		}
	}
	return info
}

// String formats the info as "1.2.0 (abc1234, dirty)".
func (i Info) String() string {
	if i.Commit == "" {
		return i.Version
	}
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		return fmt.Sprintf("%s (%s, dirty)", i.Version, commit)
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}
