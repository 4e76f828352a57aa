package fpgakit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// installFake creates the directory layout of an installed package
// under the configured home.
func installFake(t *testing.T, home, name string) {
	t.Helper()
	dir := filepath.Join(home, "packages", packageTable[name].Folder, binFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("FPGAKIT_HOME_DIR", t.TempDir())
	t.Setenv("FPGAKIT_PKG_DIR", "")
	return &Config{Values: map[string]string{}}
}

func TestCheckPackage(t *testing.T) {
	if osName == "windows" {
		t.Skip("non-windows policy test")
	}

	cfg := testConfig(t)
	home := homeDir(cfg)
	installFake(t, home, PkgIcoprog)
	baseDirs := baseDirTable(cfg)
	binDirs := binDirTable(baseDirs)

	tests := []struct {
		name       string
		pkg        string
		installed  string
		constraint string
		want       bool
	}{
		{
			name:       "installed and in range",
			pkg:        PkgIcoprog,
			installed:  "1.2.0",
			constraint: ">=1.0.0",
			want:       true,
		},
		{
			name:      "installed with no constraint",
			pkg:       PkgIcoprog,
			installed: "0.0.1",
			want:      true,
		},
		{
			name:       "version mismatch",
			pkg:        PkgIcoprog,
			installed:  "0.9.0",
			constraint: ">=1.0.0",
			want:       false,
		},
		{
			name:       "unknown installed version fails closed",
			pkg:        PkgIcoprog,
			installed:  "",
			constraint: ">=1.0.0",
			want:       false,
		},
		{
			name:       "not installed",
			pkg:        PkgOssCadSuite,
			installed:  "1.0.0",
			constraint: ">=1.0.0",
			want:       false,
		},
		{
			name: "externally managed package absent but satisfied",
			pkg:  PkgGtkwave,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkPackage(cfg, tt.pkg, tt.installed, tt.constraint, baseDirs[tt.pkg], binDirs[tt.pkg])
			if got != tt.want {
				t.Errorf("checkPackage(%s) = %v, want %v", tt.pkg, got, tt.want)
			}
		})
	}
}

func TestResolvePackagesReportsAllAndLeavesEnvUntouched(t *testing.T) {
	if osName == "windows" {
		t.Skip("non-windows policy test")
	}

	cfg := testConfig(t)
	home := homeDir(cfg)
	installFake(t, home, PkgIcoprog)

	t.Setenv("PATH", "/usr/bin")
	t.Setenv("IVL", "")

	installed := map[string]string{PkgIcoprog: "1.2.0"}
	constraints := map[string]string{PkgIcoprog: ">=1.0.0", PkgOssCadSuite: ">=0.0.9"}

	// One satisfied, one missing: overall false, environment untouched.
	if resolvePackages(cfg, []string{PkgIcoprog, PkgOssCadSuite}, installed, constraints) {
		t.Fatal("resolvePackages = true with a missing package")
	}
	if got := os.Getenv("PATH"); got != "/usr/bin" {
		t.Errorf("PATH mutated on failed resolution: %q", got)
	}
	if got := os.Getenv("IVL"); got != "" {
		t.Errorf("IVL set on failed resolution: %q", got)
	}
}

func TestResolvePackagesAppliesEnvironment(t *testing.T) {
	if osName == "windows" {
		t.Skip("non-windows policy test")
	}

	cfg := testConfig(t)
	home := homeDir(cfg)
	installFake(t, home, PkgOssCadSuite)

	t.Setenv("PATH", "/usr/bin")
	t.Setenv("IVL", "")

	installed := map[string]string{PkgOssCadSuite: "0.1.0"}
	constraints := map[string]string{PkgOssCadSuite: ">=0.0.9"}

	if !resolvePackages(cfg, []string{PkgOssCadSuite, PkgGtkwave}, installed, constraints) {
		t.Fatal("resolvePackages = false, want true")
	}

	ossBin := filepath.Join(home, "packages", packageTable[PkgOssCadSuite].Folder, binFolder)
	path := os.Getenv("PATH")
	if !strings.HasPrefix(path, ossBin+string(os.PathListSeparator)) {
		t.Errorf("PATH = %q, want it to start with %q", path, ossBin)
	}
	if got := os.Getenv("IVL"); got == "" {
		t.Error("IVL not set after successful resolution")
	}
}

func TestResolvePackagesIdempotent(t *testing.T) {
	if osName == "windows" {
		t.Skip("non-windows policy test")
	}

	cfg := testConfig(t)
	home := homeDir(cfg)
	installFake(t, home, PkgIcoprog)

	installed := map[string]string{PkgIcoprog: "1.2.0"}
	constraints := map[string]string{PkgIcoprog: ">=1.0.0", PkgSystem: ">=1.1.0"}
	required := []string{PkgIcoprog, PkgSystem}

	first := resolvePackages(cfg, required, installed, constraints)
	second := resolvePackages(cfg, required, installed, constraints)
	if first != second {
		t.Errorf("resolution not idempotent: first %v, second %v", first, second)
	}
	if first {
		t.Error("resolvePackages = true with the system package missing")
	}
}
