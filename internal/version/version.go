// Package version provides build version information for romple.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/blang/semver/v4"
)

// Info contains version information about romple.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	GoVer   string `json:"go_version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

// NewInfo creates a new Info from the build variables.
func NewInfo(version, commit, date string) *Info {
	return &Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String returns a formatted version string.
func (i *Info) String() string {
	return fmt.Sprintf("romple %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// FullString returns a detailed version string.
func (i *Info) FullString() string {
	return fmt.Sprintf(`romple %s
  Commit:   %s
  Built:    %s
  Go:       %s
  OS/Arch:  %s/%s`, i.Version, i.Commit, i.Date, i.GoVer, i.OS, i.Arch)
}

// IsNewer reports whether candidate is a newer release than current.
// A leading "v" is accepted; unparseable versions compare as not newer.
func IsNewer(current, candidate string) bool {
	cur, err := semver.ParseTolerant(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false
	}
	cand, err := semver.ParseTolerant(strings.TrimPrefix(candidate, "v"))
	if err != nil {
		return false
	}
	return cand.GT(cur)
}
