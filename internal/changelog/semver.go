package changelog

import (
	"fmt"
	"regexp"
	"strconv"
)

// semverPattern matches MAJOR.MINOR.PATCH with an optional leading "v"
// and optional prerelease/build suffixes.
var semverPattern = regexp.MustCompile(
	`^v?(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z.-]+))?(?:\+([0-9A-Za-z.-]+))?$`)

// Semver is a parsed semantic version. It is display metadata attached to
// version groups; grouping itself works on commit adjacency, so tags that
// fail to parse are kept as opaque labels rather than rejected.
type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

// ParseSemver parses a tag name as a semantic version. The second return
// value is false when the name is not semver.
func ParseSemver(name string) (*Semver, bool) {
	m := semverPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}

	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])

	return &Semver{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: m[4],
		Build:      m[5],
	}, true
}

// String returns the bare version without a "v" prefix.
func (v *Semver) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}
