package fpgakit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnvPlan is the computed environment for running toolchain binaries:
// the directories to prepend to PATH (highest priority first) and the
// extra variables the synthesis tools expect.
type EnvPlan struct {
	PathDirs []string
	Vars     map[string]string
}

// composeEnvironment builds the environment plan from the package
// directory tables. It is a pure function; nothing is written to the
// process until Apply is called.
//
// Priority, front to back: primary bin, primary lib, the non-primary
// packages (stable sorted order), then on Windows the gtkwave and
// icoprog helpers, then whatever PATH already held.
func composeEnvironment(baseDirs, binDirs map[string]string, platform string) EnvPlan {
	var dirs []string
	prepend := func(dir string) {
		dirs = append([]string{dir}, dirs...)
	}

	// The waveform viewer and programmer helpers ship as packages only
	// on Windows. They go in before the generic loop, so they end up
	// with lower priority than everything added after them.
	if platform == "windows" {
		if baseDirs[PkgGtkwave] != "" {
			prepend(binDirs[PkgGtkwave])
		}
		if baseDirs[PkgIcoprog] != "" {
			prepend(binDirs[PkgIcoprog])
		}
	}

	// Every installed package except the primary one. Sorted so the
	// resulting PATH is deterministic across runs.
	names := make([]string, 0, len(baseDirs))
	for name := range baseDirs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == primaryPackage || baseDirs[name] == "" {
			continue
		}
		prepend(binDirs[name])
	}

	// The primary toolchain suite goes last so it wins: its shared
	// libraries immediately behind its binaries at the very front.
	if baseDirs[primaryPackage] != "" {
		prepend(filepath.Join(baseDirs[primaryPackage], "lib"))
		prepend(binDirs[primaryPackage])
	}

	// These variables are derived from the primary package base even
	// when it is empty. Downstream tools probe for their mere
	// presence, so they are never omitted.
	base := baseDirs[primaryPackage]
	vars := map[string]string{
		"IVL":       filepath.Join(base, "lib", "ivl"),
		"ICEBOX":    filepath.Join(base, "share", "icebox"),
		"TRELLIS":   filepath.Join(base, "share", "trellis"),
		"YOSYS_LIB": filepath.Join(base, "share", "yosys"),
	}

	return EnvPlan{PathDirs: dirs, Vars: vars}
}

// Apply mutates the process environment: the plan's directories are
// prepended to PATH and the extra variables are set. The mutation is
// process-global and not reversible; callers needing isolation must
// snapshot the environment themselves.
func (p EnvPlan) Apply() {
	sep := string(os.PathListSeparator)
	path := os.Getenv("PATH")
	if len(p.PathDirs) > 0 {
		path = strings.Join(p.PathDirs, sep) + sep + path
	}
	os.Setenv("PATH", path)

	for name, value := range p.Vars {
		os.Setenv(name, value)
	}

	debugf("PATH: %s\n", path)
}

// Print writes the plan in shell-evaluable form, for callers that want
// the toolchain environment without running through fpgakit.
func (p EnvPlan) Print() {
	sep := string(os.PathListSeparator)
	fmt.Printf("PATH=%s%s$PATH\n", strings.Join(p.PathDirs, sep), sep)

	names := make([]string, 0, len(p.Vars))
	for name := range p.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s=%s\n", name, p.Vars[name])
	}
}
