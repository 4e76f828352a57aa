package fpgakit

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// latestRelease asks the mirror for the newest published fpgakit
// version.
func latestRelease(mirror string) (string, error) {
	index, err := fetchMirrorIndex(mirror)
	if err != nil {
		return "", err
	}
	if index.Latest == "" {
		return "", fmt.Errorf("mirror %s does not declare a latest release", mirror)
	}
	return index.Latest, nil
}

// checkUpgrade compares the running version against the mirror's
// latest release and prints a hint when an upgrade is available.
func checkUpgrade(mirror string) error {
	latest, err := latestRelease(mirror)
	if err != nil {
		return err
	}

	current, err := semver.NewVersion(version)
	if err != nil {
		// Development builds carry a non-semver version string.
		colNote.Printf("Running a development build (%s); latest release is %s\n", version, latest)
		return nil
	}

	latestVer, err := semver.NewVersion(latest)
	if err != nil {
		return fmt.Errorf("mirror declares an invalid latest release %q: %w", latest, err)
	}

	if latestVer.GreaterThan(current) {
		colWarn.Printf("A new release is available: %s (you have %s)\n", latest, version)
		colNote.Println("Upgrade with your package manager or reinstall fpgakit.")
		return nil
	}

	colSuccess.Printf("fpgakit %s is up to date\n", version)
	return nil
}
