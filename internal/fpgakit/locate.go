package fpgakit

import (
	"os"
	"path/filepath"
)

// homeDir returns the fpgakit home directory, where the profile lives
// and packages are installed by default. FPGAKIT_HOME_DIR overrides
// the default $HOME/.fpgakit. The directory is created on demand; a
// home we cannot create is the one unrecoverable condition in this
// subsystem, so it exits with a user-facing message.
func homeDir(cfg *Config) string {
	dir := optionValue(cfg, "home_dir")
	if dir == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			colError.Printf("Error: cannot determine the user home directory: %v\n", err)
			os.Exit(1)
		}
		dir = filepath.Join(userHome, ".fpgakit")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		colError.Printf("Error: no usable home directory %s\n", dir)
		os.Exit(1)
	}
	return dir
}

// packagesRoot is the directory all packages are installed under.
// FPGAKIT_PKG_DIR relocates it away from the fpgakit home.
func packagesRoot(cfg *Config) string {
	base := optionValue(cfg, "pkg_dir")
	if base == "" {
		base = homeDir(cfg)
	}
	return filepath.Join(base, "packages")
}

// packageDir returns the installation directory of a package folder,
// or "" when the package is not installed. Not installed is a normal
// outcome, not an error.
func packageDir(cfg *Config, folder string) string {
	dir := filepath.Join(packagesRoot(cfg), folder)
	if _, err := os.Stat(dir); err != nil {
		return ""
	}
	return dir
}

// baseDirTable maps every known package to its installation directory
// ("" when not installed).
func baseDirTable(cfg *Config) map[string]string {
	dirs := make(map[string]string, len(packageTable))
	for name, desc := range packageTable {
		dirs[name] = packageDir(cfg, desc.Folder)
	}
	return dirs
}

// binDirTable derives the executables directory for every package in
// the base table. The bin dir is computed even for an empty base; the
// environment composer is responsible for skipping those entries.
func binDirTable(baseDirs map[string]string) map[string]string {
	bins := make(map[string]string, len(baseDirs))
	for name, base := range baseDirs {
		bins[name] = filepath.Join(base, binFolder)
	}
	return bins
}
