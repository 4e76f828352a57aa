package fpgakit

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func emptyDirTables() (map[string]string, map[string]string) {
	base := make(map[string]string, len(packageTable))
	for name := range packageTable {
		base[name] = ""
	}
	return base, binDirTable(base)
}

func TestComposeEnvironmentPrimaryOnly(t *testing.T) {
	base, _ := emptyDirTables()
	base[PkgOssCadSuite] = "/opt/tools-oss-cad-suite"
	bins := binDirTable(base)

	plan := composeEnvironment(base, bins, "linux")

	want := []string{
		"/opt/tools-oss-cad-suite/bin",
		"/opt/tools-oss-cad-suite/lib",
	}
	if !reflect.DeepEqual(plan.PathDirs, want) {
		t.Errorf("PathDirs = %v, want %v", plan.PathDirs, want)
	}

	wantVars := map[string]string{
		"IVL":       "/opt/tools-oss-cad-suite/lib/ivl",
		"ICEBOX":    "/opt/tools-oss-cad-suite/share/icebox",
		"TRELLIS":   "/opt/tools-oss-cad-suite/share/trellis",
		"YOSYS_LIB": "/opt/tools-oss-cad-suite/share/yosys",
	}
	if !reflect.DeepEqual(plan.Vars, wantVars) {
		t.Errorf("Vars = %v, want %v", plan.Vars, wantVars)
	}
}

func TestComposeEnvironmentPrimaryMissing(t *testing.T) {
	base, _ := emptyDirTables()
	base[PkgGtkwave] = "/opt/tool-gtkwave"
	base[PkgSystem] = "/opt/tools-system"
	bins := binDirTable(base)

	plan := composeEnvironment(base, bins, "linux")

	// Sorted generic loop prepends gtkwave first, so system ends up in
	// front of it. The primary package contributes nothing to PATH.
	want := []string{
		"/opt/tools-system/bin",
		"/opt/tool-gtkwave/bin",
	}
	if !reflect.DeepEqual(plan.PathDirs, want) {
		t.Errorf("PathDirs = %v, want %v", plan.PathDirs, want)
	}

	// The synthesis variables are still present, rooted at an empty
	// base. Documented behavior: downstream tools probe for presence.
	if got := plan.Vars["IVL"]; got != filepath.Join("lib", "ivl") {
		t.Errorf("IVL = %q, want %q", got, filepath.Join("lib", "ivl"))
	}
	for name, value := range plan.Vars {
		if value == "" {
			t.Errorf("Vars[%s] is empty, want a syntactically present path", name)
		}
	}
}

func TestComposeEnvironmentWindowsHelpers(t *testing.T) {
	base, _ := emptyDirTables()
	base[PkgOssCadSuite] = `C:\fpgakit\packages\tools-oss-cad-suite`
	base[PkgGtkwave] = `C:\fpgakit\packages\tool-gtkwave`
	base[PkgIcoprog] = `C:\fpgakit\packages\tool-icoprog`
	bins := binDirTable(base)

	plan := composeEnvironment(base, bins, "windows")

	// The helper pre-pass puts icoprog ahead of gtkwave, the generic
	// loop adds both again with higher priority, and the primary
	// package ends up at the very front.
	want := []string{
		bins[PkgOssCadSuite],
		filepath.Join(base[PkgOssCadSuite], "lib"),
		bins[PkgIcoprog],
		bins[PkgGtkwave],
		bins[PkgIcoprog],
		bins[PkgGtkwave],
	}
	if !reflect.DeepEqual(plan.PathDirs, want) {
		t.Errorf("PathDirs = %v, want %v", plan.PathDirs, want)
	}
}

func TestComposeEnvironmentDeterministic(t *testing.T) {
	base, _ := emptyDirTables()
	base[PkgGtkwave] = "/opt/tool-gtkwave"
	base[PkgIcoprog] = "/opt/tool-icoprog"
	base[PkgSystem] = "/opt/tools-system"
	bins := binDirTable(base)

	first := composeEnvironment(base, bins, "linux")
	for i := 0; i < 10; i++ {
		again := composeEnvironment(base, bins, "linux")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("composeEnvironment is not deterministic: %v vs %v", first, again)
		}
	}
}

func TestEnvPlanApply(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("IVL", "")

	plan := EnvPlan{
		PathDirs: []string{"/opt/a/bin", "/opt/b/bin"},
		Vars:     map[string]string{"IVL": "/opt/a/lib/ivl"},
	}
	plan.Apply()

	sep := string(os.PathListSeparator)
	wantPath := strings.Join([]string{"/opt/a/bin", "/opt/b/bin", "/usr/bin"}, sep)
	if got := os.Getenv("PATH"); got != wantPath {
		t.Errorf("PATH = %q, want %q", got, wantPath)
	}
	if got := os.Getenv("IVL"); got != "/opt/a/lib/ivl" {
		t.Errorf("IVL = %q", got)
	}
}
