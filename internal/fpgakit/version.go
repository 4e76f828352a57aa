package fpgakit

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// satisfiesConstraint reports whether an installed version lies within
// a semantic version range such as ">=1.2.0, <2.0.0".
//
// An installed version that does not parse is never satisfying and is
// reported as a plain false. A constraint that does not parse is a
// programmer error in the distribution table and is returned as an
// error for the caller to treat as fatal. Empty constraints must be
// skipped by the caller before getting here.
func satisfiesConstraint(installed, constraint string) (bool, error) {
	rng, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}

	ver, err := semver.NewVersion(installed)
	if err != nil {
		return false, nil
	}

	return rng.Check(ver), nil
}
