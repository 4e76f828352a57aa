package fpgakit

import (
	"log"
	"os/exec"
	"regexp"
)

// resolvePackages checks that every required package is installed and
// that its version satisfies the distribution constraint. Every
// package is checked even after a failure, so one run reports every
// problem at once. Only when all packages pass is the composed
// toolchain environment applied to the process; on failure the
// environment is left untouched and the caller is expected to abort.
func resolvePackages(cfg *Config, required []string, installed, constraints map[string]string) bool {
	baseDirs := baseDirTable(cfg)
	binDirs := binDirTable(baseDirs)

	ok := true
	for _, name := range required {
		ok = checkPackage(cfg, name, installed[name], constraints[name], baseDirs[name], binDirs[name]) && ok
	}

	if ok {
		composeEnvironment(baseDirs, binDirs, osName).Apply()
	}

	return ok
}

// checkPackage decides whether one package is satisfied and emits a
// diagnostic plus an install hint when it is not.
func checkPackage(cfg *Config, name, installed, constraint, baseDir, binDir string) bool {
	// Externally managed packages come from the OS package manager on
	// everything but Windows, outside this tool's control.
	if packageTable[name].ExternallyManagedOnNonWindows && osName != "windows" {
		return true
	}

	if baseDir == "" || !isDir(binDir) {
		colError.Printf("Error: package '%s' is not installed\n", name)
		showInstallHint(cfg, name)
		return false
	}

	if constraint != "" {
		match, err := satisfiesConstraint(installed, constraint)
		if err != nil {
			// A broken constraint is a distribution table bug, not a
			// per-package failure.
			log.Fatalf("Critical error: %v", err)
		}
		if !match {
			colWarn.Printf("Warning: package '%s' version %s\ndoes not match the semantic version %s\n",
				name, installed, constraint)
			showInstallHint(cfg, name)
			return false
		}
	}

	return true
}

func showInstallHint(cfg *Config, name string) {
	if aptManaged(cfg) {
		colWarn.Printf("Please run:\n   sudo apt-get install fpgakit-%s\n", name)
		return
	}
	colWarn.Printf("Please run:\n   fpgakit install %s\n", name)
}

var dpkgInstalledRe = regexp.MustCompile(`(?m)^(ii|rc)\s+fpgakit`)

// aptManaged reports whether this fpgakit came in through apt, in
// which case packages should too. Only worth asking dpkg when the
// system config file was present.
func aptManaged(cfg *Config) bool {
	if cfg == nil || !cfg.SystemConf {
		return false
	}
	out, err := exec.Command("dpkg", "-l", "fpgakit").Output()
	if err != nil {
		return false
	}
	return dpkgInstalledRe.Match(out)
}
