package fpgakit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// profileFile records which package versions this tool installed. It
// lives in the fpgakit home, next to the packages directory.
const profileFile = "profile.json"

type profilePackage struct {
	Version string `json:"version"`
}

// Profile is the persisted installed-version table. The resolver never
// reads it directly; callers pass installedVersions() in.
type Profile struct {
	Packages map[string]profilePackage `json:"packages"`

	path string
}

func loadProfile(cfg *Config) (*Profile, error) {
	path := filepath.Join(homeDir(cfg), profileFile)
	profile := &Profile{Packages: make(map[string]profilePackage), path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	if profile.Packages == nil {
		profile.Packages = make(map[string]profilePackage)
	}
	return profile, nil
}

func (p *Profile) save() error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", p.path, err)
	}
	return nil
}

// installedVersions flattens the profile into the name → version table
// the resolver consumes.
func (p *Profile) installedVersions() map[string]string {
	versions := make(map[string]string, len(p.Packages))
	for name, pkg := range p.Packages {
		versions[name] = pkg.Version
	}
	return versions
}
