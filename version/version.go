/*package version tracks the semantic version of the source code. Config
files record the version they were written for, and files written for a
later version than the binary are rejected.*/
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the semantic version number of the source code.
const SourceVersion = "0.2.0"

// Version is a parsed semantic version number.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 if v is earlier than, equal to or later than w.
func (v Version) Compare(w Version) int {
	a := [3]int{v.Major, v.Minor, v.Patch}
	b := [3]int{w.Major, w.Minor, w.Patch}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return +1
		}
	}
	return 0
}

// Parse parses a version string of the form "major.minor.patch".
func Parse(s string) (Version, error) {
	toks := strings.Split(strings.TrimSpace(s), ".")
	if len(toks) != 3 {
		return Version{}, fmt.Errorf("The version string '%s' does not "+
			"take the form of three period-separated numbers.", s)
	}

	var nums [3]int
	for i := range toks {
		n, err := strconv.Atoi(toks[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("The version string '%s' contains "+
				"'%s', which isn't a non-negative number.", s, toks[i])
		}
		nums[i] = n
	}
	return Version{nums[0], nums[1], nums[2]}, nil
}

// Later returns true if s1 is a later version than s2.
func Later(s1, s2 string) (bool, error) {
	v1, err := Parse(s1)
	if err != nil {
		return false, err
	}
	v2, err := Parse(s2)
	if err != nil {
		return false, err
	}
	return v1.Compare(v2) > 0, nil
}

// Check returns an error if a config file was written for a later version
// than SourceVersion.
func Check(configVersion string) error {
	later, err := Later(configVersion, SourceVersion)
	if err != nil {
		return err
	}
	if later {
		return fmt.Errorf("The config file is for version %s, but this "+
			"binary is version %s.", configVersion, SourceVersion)
	}
	return nil
}
