package util

import (
	"fmt"
	"strconv"
	"strings"
)

type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Beta       bool
	Alpha      bool
	Prerelease int
}

// Parse reads `major.minor.patch` with an optional `-alpha.N` or `-beta.N`
// suffix.
func Parse(semver string) (Semver, error) {
	split := strings.Split(semver, ".")
	if len(split) < 3 {
		return Semver{}, fmt.Errorf("invalid version: %s", semver)
	}

	s := Semver{}
	var err error
	if s.Major, err = strconv.Atoi(split[0]); err != nil {
		return Semver{}, err
	}
	if s.Minor, err = strconv.Atoi(split[1]); err != nil {
		return Semver{}, err
	}

	patch := strings.SplitN(split[2], "-", 2)
	if s.Patch, err = strconv.Atoi(patch[0]); err != nil {
		return Semver{}, err
	}
	if len(patch) == 1 {
		return s, nil
	}

	switch {
	case strings.Contains(patch[1], "beta"):
		s.Beta = true
	case strings.Contains(patch[1], "alpha"):
		s.Alpha = true
	default:
		return Semver{}, fmt.Errorf("invalid prerelease type: %s", patch[1])
	}

	prerelease := strings.Split(patch[1], ".")
	if len(prerelease) < 2 {
		return Semver{}, fmt.Errorf("invalid prerelease: %s", patch[1])
	}
	if s.Prerelease, err = strconv.Atoi(prerelease[1]); err != nil {
		return Semver{}, err
	}
	return s, nil
}

func (s Semver) String() string {
	str := fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
	if s.Beta {
		str += "-beta." + strconv.Itoa(s.Prerelease)
	} else if s.Alpha {
		str += "-alpha." + strconv.Itoa(s.Prerelease)
	}
	return str
}

// Satisfies checks s against a constraint with an optional ~, ^, > or <
// prefix; a bare version means exact match.
func (s Semver) Satisfies(cmp string) (bool, error) {
	tilde := strings.HasPrefix(cmp, "~")
	caret := strings.HasPrefix(cmp, "^")
	gt := strings.HasPrefix(cmp, ">")
	lt := strings.HasPrefix(cmp, "<")
	if tilde || caret || gt || lt {
		cmp = cmp[1:]
	}

	c, err := Parse(cmp)
	if err != nil {
		return false, err
	}

	switch {
	case tilde:
		return c.Major == s.Major && c.Minor == s.Minor && c.Patch <= s.Patch, nil
	case caret:
		return c.Major == s.Major && c.Minor <= s.Minor && c.Patch <= s.Patch, nil
	case gt:
		return c.Major <= s.Major && c.Minor <= s.Minor && c.Patch <= s.Patch, nil
	case lt:
		return c.Major >= s.Major && c.Minor >= s.Minor && c.Patch >= s.Patch, nil
	default:
		return c.Major == s.Major && c.Minor == s.Minor && c.Patch == s.Patch, nil
	}
}
